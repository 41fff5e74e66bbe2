package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	service "github.com/okian/monitor/internal/app"
	"github.com/okian/monitor/internal/config"
	"github.com/okian/monitor/internal/fixtures"
	"github.com/okian/monitor/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestConfigurationLoading(t *testing.T) {
	convey.Convey("Given environment overrides", t, func() {
		t.Setenv("MONITOR_ADDR", ":8088")
		t.Setenv("MONITOR_SOURCES", "hot_trend, ai_daily")
		t.Setenv("MONITOR_ENV_FILE", "does-not-exist.env")

		convey.Convey("Then configuration picks them up", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8088")
			convey.So(cfg.Sources, convey.ShouldResemble, []string{"hot_trend", "ai_daily"})
		})
	})

	convey.Convey("Given an unparsable schedule", t, func() {
		t.Setenv("MONITOR_REFRESH_SCHEDULE", "whenever")
		t.Setenv("MONITOR_ENV_FILE", "does-not-exist.env")

		convey.Convey("Then configuration loading fails", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

func TestHTTPServer(t *testing.T) {
	convey.Convey("Given a service over sample data", t, func() {
		dir := t.TempDir()
		ds, err := fixtures.Build(t.TempDir())
		convey.So(err, convey.ShouldBeNil)
		convey.So(ds.WriteTo(dir), convey.ShouldBeNil)

		cfg := config.New()
		cfg.DataDir = dir
		cfg.RefreshSchedule = ""
		svc := service.New(service.WithConfig(cfg))
		ctx := context.Background()
		srv := newHTTPServer(ctx, ":0", svc)

		convey.Convey("When a refresh is posted", func() {
			w := httptest.NewRecorder()
			srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/refresh", nil))

			convey.Convey("Then the data is served", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"failedSources":0`)

				items := httptest.NewRecorder()
				srv.Handler.ServeHTTP(items, httptest.NewRequest(http.MethodGet, "/items?limit=1", nil))
				convey.So(items.Code, convey.ShouldEqual, http.StatusOK)
			})
		})

		convey.Convey("When the docs are requested", func() {
			w := httptest.NewRecorder()
			srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
		})
	})
}

func TestRunShutdown(t *testing.T) {
	convey.Convey("Given a running monitor", t, func() {
		cfg := config.New()
		cfg.Addr = "127.0.0.1:0"
		cfg.DataDir = t.TempDir()
		cfg.RefreshSchedule = ""
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() { done <- run(ctx, cfg, logger.Named("test")) }()

		convey.Convey("When the context is cancelled", func() {
			time.Sleep(50 * time.Millisecond)
			cancel()

			convey.Convey("Then it shuts down cleanly", func() {
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(10 * time.Second):
					t.Fatal("run did not return")
				}
			})
		})
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		convey.So(updateSystemMetrics, convey.ShouldNotPanic)
	})
}
