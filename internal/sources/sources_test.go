package sources

import (
	"context"
	"testing"
	"time"

	"github.com/okian/monitor/internal/adapters/fetch"
	"github.com/okian/monitor/internal/fixtures"
	"github.com/okian/monitor/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

var fixedNow = time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)

func sampleData(t *testing.T) fixtures.Dataset {
	t.Helper()
	ds, err := fixtures.Build(t.TempDir())
	if err != nil {
		t.Fatalf("build fixtures: %v", err)
	}
	return ds
}

func newTestEnv(ds fixtures.Dataset, opts ...Option) *Env {
	return NewEnv(ds, append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)...)
}

func load(env *Env, name string) (Result, error) {
	for _, s := range Registry() {
		if s.Name == name {
			return s.Load(context.Background(), env)
		}
	}
	panic("unknown source " + name)
}

func TestRegistry(t *testing.T) {
	Convey("Given the source registry", t, func() {
		names := Names()

		Convey("Then every source is registered once in a fixed order", func() {
			So(names, ShouldHaveLength, 15)
			So(names[0], ShouldEqual, GameRankings)
			So(names[len(names)-1], ShouldEqual, ReportDocuments)
			seen := map[string]bool{}
			for _, n := range names {
				So(seen[n], ShouldBeFalse)
				seen[n] = true
			}
		})
	})
}

func TestEverySourceLoadsSampleData(t *testing.T) {
	ds := sampleData(t)
	Convey("Given the full sample dataset", t, func() {
		env := newTestEnv(ds)

		Convey("Then every source contributes records without error", func() {
			for _, s := range Registry() {
				res, err := s.Load(context.Background(), env)
				So(err, ShouldBeNil)
				So(res.Len(), ShouldBeGreaterThan, 0)
			}
		})
	})
}

func TestMissingResources(t *testing.T) {
	ds := sampleData(t)
	Convey("Given a dataset without the weekly chart export", t, func() {
		env := newTestEnv(ds.Without(ResourceGameRankingsCSV))

		Convey("When the weekly charts load", func() {
			_, err := load(env, GameRankings)

			Convey("Then the not-found status surfaces", func() {
				So(err, ShouldNotBeNil)
				So(fetch.IsNotFound(err), ShouldBeTrue)
			})
		})
	})

	Convey("Given a dataset without the tracker database", t, func() {
		env := newTestEnv(ds.Without(ResourceSensorTowerDB))

		Convey("Then both tracker sources fail", func() {
			_, err := load(env, SensorTowerTop)
			So(err, ShouldNotBeNil)
			_, err = load(env, SensorTowerMovers)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a casual index that is not an object of lists", t, func() {
		env := newTestEnv(ds.With(ResourceCasualIndex, []byte(`{"rankings":"x"}`)))

		Convey("Then the index-driven sources fail", func() {
			for _, name := range []string{WeChatDouyinRankings, NewGames, WeeklyBriefFiles} {
				_, err := load(env, name)
				So(err, ShouldNotBeNil)
			}
		})
	})
}
