package service

import (
	"context"

	"github.com/okian/monitor/internal/adapters/repository"
	"github.com/okian/monitor/internal/sources"
)

// RunScheduled runs the ingestion the way the cron job does.
func (s *Service) RunScheduled(ctx context.Context) (*repository.Snapshot, error) {
	return s.shared(ctx, s.reload)
}

// SensorTowerLoads reports how often the ranking database was materialized.
func (s *Service) SensorTowerLoads() int {
	return s.env.Databases().Handle(sources.ResourceSensorTowerDB).Loads()
}
