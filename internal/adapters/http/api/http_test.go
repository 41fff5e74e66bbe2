package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/okian/monitor/internal/adapters/http/api"
	"github.com/okian/monitor/internal/adapters/repository"
	"github.com/okian/monitor/internal/domain/model"
	"github.com/okian/monitor/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

// stubDeps serves reads from a real snapshot store.
type stubDeps struct {
	store      *repository.SnapshotStore
	refreshErr error
	refreshes  int
}

func (d *stubDeps) Items(ctx context.Context, f repository.Filter) ([]model.MonitorItem, error) {
	return d.store.Items(ctx, f)
}

func (d *stubDeps) Item(ctx context.Context, id string) (model.MonitorItem, error) {
	return d.store.Item(ctx, id)
}

func (d *stubDeps) Document(ctx context.Context, id string) (model.ReportDocument, error) {
	it, err := d.store.Item(ctx, id)
	if err != nil {
		return model.ReportDocument{}, err
	}
	return normalize.Item(it), nil
}

func (d *stubDeps) Rankings(ctx context.Context, t model.RankingType) ([]model.RankingTable, error) {
	return d.store.Rankings(ctx, t)
}

func (d *stubDeps) Sources(ctx context.Context) ([]repository.SourceStatus, error) {
	snap, err := d.store.Current(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Sources, nil
}

func (d *stubDeps) Refresh(ctx context.Context) (repository.RunSummary, error) {
	if d.refreshErr != nil {
		return repository.RunSummary{}, d.refreshErr
	}
	d.refreshes++
	snap, err := d.store.Current(ctx)
	if err != nil {
		return repository.RunSummary{}, err
	}
	return snap.Summary(), nil
}

type stubStats map[string]any

func (s stubStats) GetStats() map[string]any { return s }

func sampleSnapshot() *repository.Snapshot {
	items := []model.MonitorItem{
		{ID: "hot-1", Type: model.MonitorHotTrend, Title: "春节档预售", Platform: "微博", Tags: []string{"电影"}},
		{ID: "casual-1", Type: model.MonitorCasualGame, Title: "Game A", Category: model.CasualNewGame, CasualSource: model.SourceWeChatDouyin, Platform: "微信小游戏"},
		{ID: "casual-2", Type: model.MonitorCasualGame, Title: "Alpha Game", Category: model.CasualNewGame, CasualSource: model.SourceSensorTower, Platform: "iOS", CompanyName: "Alpha Inc"},
		{ID: "ai-1", Type: model.MonitorAIProduct, Title: "产品周报", AIProductSub: model.AIProductWeekly, Description: "new Agent launch"},
	}
	rankings := []model.RankingTable{
		model.NewRankingTable(model.RankingWeChat, "微信小游戏周榜", "2026-01-28", "2026-01-19~2026-01-25", []model.RankingEntry{{ID: "w1", Rank: 1, Name: "Game A"}}),
		model.NewRankingTable(model.RankingMovers, "榜单异动", "2026-01-26", "2026-01-26", nil),
	}
	sources := []repository.SourceStatus{
		{Name: "hot_trend", OK: true, Items: 1},
		{Name: "ua_daily", OK: false, Error: "fetch ua_report_daily.md: status 500"},
	}
	return repository.NewSnapshot(time.Now(), items, rankings, sources)
}

func newMux(deps *stubDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, stubStats{"started": true}).Register(context.Background(), mux)
	return mux
}

func serve(mux *http.ServeMux, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	_ = json.NewDecoder(w.Body).Decode(&body)
	return body
}

func TestServer_BeforeFirstSnapshot(t *testing.T) {
	Convey("Given a server whose store has no snapshot", t, func() {
		mux := newMux(&stubDeps{store: repository.NewSnapshotStore()})

		Convey("When reading items", func() {
			w := serve(mux, http.MethodGet, "/items")

			Convey("Then it answers not ready", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(decodeError(w)["code"], ShouldEqual, "not_ready")
			})
		})

		Convey("When reading rankings and sources", func() {
			So(serve(mux, http.MethodGet, "/rankings").Code, ShouldEqual, http.StatusServiceUnavailable)
			So(serve(mux, http.MethodGet, "/sources").Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("When probing health", func() {
			w := serve(mux, http.MethodGet, "/healthz")

			Convey("Then it is still healthy", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"ok"`)
			})
		})
	})
}

func TestServer_Items(t *testing.T) {
	Convey("Given a server with a published snapshot", t, func() {
		store := repository.NewSnapshotStore()
		So(store.Publish(context.Background(), sampleSnapshot()), ShouldBeNil)
		mux := newMux(&stubDeps{store: store})

		Convey("When listing every item", func() {
			w := serve(mux, http.MethodGet, "/items")
			var items []model.MonitorItem
			So(json.NewDecoder(w.Body).Decode(&items), ShouldBeNil)

			Convey("Then they come back in snapshot order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
				So(items, ShouldHaveLength, 4)
				So(items[0].ID, ShouldEqual, "hot-1")
			})
		})

		Convey("When filtering by type and source", func() {
			w := serve(mux, http.MethodGet, "/items?"+url.Values{"type": {"休闲游戏检测"}, "source": {"sensortower"}}.Encode())
			var items []model.MonitorItem
			So(json.NewDecoder(w.Body).Decode(&items), ShouldBeNil)

			Convey("Then only matching items are returned", func() {
				So(items, ShouldHaveLength, 1)
				So(items[0].ID, ShouldEqual, "casual-2")
			})
		})

		Convey("When searching with q and sub", func() {
			w := serve(mux, http.MethodGet, "/items?"+url.Values{"q": {"agent"}, "sub": {"产品周报"}}.Encode())
			var items []model.MonitorItem
			So(json.NewDecoder(w.Body).Decode(&items), ShouldBeNil)
			So(items, ShouldHaveLength, 1)
			So(items[0].ID, ShouldEqual, "ai-1")
		})

		Convey("When limiting the result", func() {
			w := serve(mux, http.MethodGet, "/items?limit=2")
			var items []model.MonitorItem
			So(json.NewDecoder(w.Body).Decode(&items), ShouldBeNil)
			So(items, ShouldHaveLength, 2)
		})

		Convey("When the limit is invalid", func() {
			for _, limit := range []string{"0", "-1", "abc", "100000"} {
				w := serve(mux, http.MethodGet, "/items?limit="+limit)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			}
		})

		Convey("When fetching one item", func() {
			w := serve(mux, http.MethodGet, "/items/casual-1")
			var it model.MonitorItem
			So(json.NewDecoder(w.Body).Decode(&it), ShouldBeNil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(it.Title, ShouldEqual, "Game A")
		})

		Convey("When fetching an item document", func() {
			w := serve(mux, http.MethodGet, "/items/hot-1/document")
			var doc model.ReportDocument
			So(json.NewDecoder(w.Body).Decode(&doc), ShouldBeNil)

			Convey("Then the item is normalized into a document", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(doc.Title, ShouldEqual, "春节档预售")
				So(doc.Content, ShouldEqual, model.NoContent)
				So(doc.Tags, ShouldResemble, []string{"电影"})
			})
		})

		Convey("When the item does not exist", func() {
			w := serve(mux, http.MethodGet, "/items/nope")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decodeError(w)["code"], ShouldEqual, "not_found")
			So(serve(mux, http.MethodGet, "/items/nope/document").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the item path is malformed", func() {
			So(serve(mux, http.MethodGet, "/items/").Code, ShouldEqual, http.StatusBadRequest)
			So(serve(mux, http.MethodGet, "/items/a/b").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When using the wrong method", func() {
			So(serve(mux, http.MethodPost, "/items").Code, ShouldEqual, http.StatusNotFound)
			So(serve(mux, http.MethodDelete, "/items/hot-1").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestServer_RankingsAndSources(t *testing.T) {
	Convey("Given a server with a published snapshot", t, func() {
		store := repository.NewSnapshotStore()
		So(store.Publish(context.Background(), sampleSnapshot()), ShouldBeNil)
		mux := newMux(&stubDeps{store: store})

		Convey("When listing every ranking table", func() {
			w := serve(mux, http.MethodGet, "/rankings")
			var tables []model.RankingTable
			So(json.NewDecoder(w.Body).Decode(&tables), ShouldBeNil)
			So(tables, ShouldHaveLength, 2)
			So(tables[0].Items[0].Change, ShouldEqual, model.NoChange)
		})

		Convey("When selecting one ranking type", func() {
			w := serve(mux, http.MethodGet, "/rankings?type="+url.QueryEscape("榜单异动"))
			var tables []model.RankingTable
			So(json.NewDecoder(w.Body).Decode(&tables), ShouldBeNil)
			So(tables, ShouldHaveLength, 1)
			So(tables[0].Title, ShouldEqual, "榜单异动")
		})

		Convey("When selecting a type nobody produced", func() {
			w := serve(mux, http.MethodGet, "/rankings?type="+url.QueryEscape("iOS游戏"))
			So(w.Code, ShouldEqual, http.StatusOK)
			So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
		})

		Convey("When reading source statuses", func() {
			w := serve(mux, http.MethodGet, "/sources")
			var st []repository.SourceStatus
			So(json.NewDecoder(w.Body).Decode(&st), ShouldBeNil)

			Convey("Then failures are reported next to successes", func() {
				So(st, ShouldHaveLength, 2)
				So(st[0].OK, ShouldBeTrue)
				So(st[1].OK, ShouldBeFalse)
				So(st[1].Error, ShouldContainSubstring, "500")
			})
		})
	})
}

func TestServer_RefreshAndStats(t *testing.T) {
	Convey("Given a server with a published snapshot", t, func() {
		store := repository.NewSnapshotStore()
		snap := sampleSnapshot()
		So(store.Publish(context.Background(), snap), ShouldBeNil)
		deps := &stubDeps{store: store}
		mux := newMux(deps)

		Convey("When refreshing", func() {
			w := serve(mux, http.MethodPost, "/refresh")
			var sum repository.RunSummary
			So(json.NewDecoder(w.Body).Decode(&sum), ShouldBeNil)

			Convey("Then the run summary is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.refreshes, ShouldEqual, 1)
				So(sum.RunID, ShouldEqual, snap.RunID)
				So(sum.Failed, ShouldEqual, 1)
			})
		})

		Convey("When refreshing with GET", func() {
			So(serve(mux, http.MethodGet, "/refresh").Code, ShouldEqual, http.StatusNotFound)
			So(deps.refreshes, ShouldEqual, 0)
		})

		Convey("When the refresh fails", func() {
			deps.refreshErr = errors.New("ingestion abandoned")
			w := serve(mux, http.MethodPost, "/refresh")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(decodeError(w)["message"], ShouldContainSubstring, "ingestion abandoned")
		})

		Convey("When reading stats", func() {
			w := serve(mux, http.MethodGet, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"started":true`)
		})

		Convey("When scraping metrics from healthz", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			req.Header.Set("Accept", "text/plain")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldNotContainSubstring, `"status"`)
		})
	})
}

func TestErrors(t *testing.T) {
	Convey("Given dependency errors", t, func() {
		Convey("Then they map onto API kinds", func() {
			So(errors.Is(api.Wrap("op", repository.ErrNoSnapshot), api.ErrNotReady), ShouldBeTrue)
			So(errors.Is(api.Wrap("op", repository.ErrNotFound), api.ErrNotFound), ShouldBeTrue)
			So(errors.Is(api.Wrap("op", repository.ErrInvalidLimit), api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(api.Wrap("op", errors.New("x")), api.ErrInternal), ShouldBeTrue)
		})

		Convey("Then the cause stays reachable", func() {
			err := api.Wrap("api.get_item", repository.ErrNotFound)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			So(err.Error(), ShouldStartWith, "api.get_item: not found")
		})

		Convey("Then NewKind has no cause", func() {
			err := api.NewKind("op", api.ErrBadRequest)
			So(err.Error(), ShouldEqual, "op: bad request")
		})
	})
}
