package dedupe_test

import (
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/okian/monitor/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

type row struct {
	bucket string
	rank   int
	name   string
	note   string
}

func rowKey(r row) string { return dedupe.RankingKey(r.bucket, r.rank, r.name) }

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithCapacity(8))

		Convey("When a key is recorded twice", func() {
			first := d.SeenAndRecord("a")
			second := d.SeenAndRecord("a")

			Convey("Then only the second call reports it as seen", func() {
				So(first, ShouldBeFalse)
				So(second, ShouldBeTrue)
			})
		})

		Convey("When distinct keys are recorded", func() {
			Convey("Then each is fresh exactly once", func() {
				So(d.SeenAndRecord("a"), ShouldBeFalse)
				So(d.SeenAndRecord("b"), ShouldBeFalse)
				So(d.SeenAndRecord("a"), ShouldBeTrue)
				So(d.SeenAndRecord("b"), ShouldBeTrue)
			})
		})

		Convey("When many goroutines record the same key", func() {
			var wg sync.WaitGroup
			var mu sync.Mutex
			fresh := 0
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if !d.SeenAndRecord("shared") {
						mu.Lock()
						fresh++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			Convey("Then exactly one wins", func() {
				So(fresh, ShouldEqual, 1)
			})
		})
	})
}

func TestKeys(t *testing.T) {
	Convey("Given composite keys", t, func() {
		So(dedupe.RankingKey("微信小游戏", 1, " Game A "), ShouldEqual, "微信小游戏-1-Game A")
		So(dedupe.ReportKey("新游戏", "2025-01-02", "Game A"), ShouldEqual, "新游戏|2025-01-02|Game A")
	})
}

func TestFilter(t *testing.T) {
	Convey("Given ranking rows with duplicates", t, func() {
		rows := []row{
			{"微信小游戏", 1, "A", "first"},
			{"微信小游戏", 2, "B", ""},
			{"微信小游戏", 1, "A", "second"},
			{"抖音小游戏", 1, "A", ""},
		}

		Convey("When filtering", func() {
			out, dropped := dedupe.Filter(rows, rowKey)

			Convey("Then the first occurrence wins and order is stable", func() {
				So(dropped, ShouldEqual, 1)
				So(len(out), ShouldEqual, 3)
				So(out[0].note, ShouldEqual, "first")
				So(out[2].bucket, ShouldEqual, "抖音小游戏")
			})

			Convey("Then filtering again is idempotent", func() {
				again, droppedAgain := dedupe.Filter(out, rowKey)
				So(droppedAgain, ShouldEqual, 0)
				So(again, ShouldResemble, out)
			})
		})

		Convey("When the same file is ingested repeatedly", func() {
			doubled := append(append([]row{}, rows...), rows...)
			out, _ := dedupe.Filter(doubled, rowKey)

			Convey("Then no two rows share a key", func() {
				keys := map[string]bool{}
				for _, r := range out {
					k := rowKey(r)
					So(keys[k], ShouldBeFalse)
					keys[k] = true
				}
				So(len(out), ShouldEqual, 3)
			})
		})

		Convey("When keys are empty", func() {
			items := []string{"", "", "x", "x"}
			out, dropped := dedupe.Filter(items, func(s string) string { return s })

			Convey("Then empty keys are never treated as duplicates", func() {
				So(out, ShouldResemble, []string{"", "", "x"})
				So(dropped, ShouldEqual, 1)
			})
		})

		Convey("When the input is large", func() {
			many := make([]string, 0, 200)
			for i := 0; i < 200; i++ {
				many = append(many, fmt.Sprintf("k%d", i%100))
			}
			out, dropped := dedupe.Filter(many, func(s string) string { return s })
			So(len(out), ShouldEqual, 100)
			So(dropped, ShouldEqual, 100)
		})
	})
}
