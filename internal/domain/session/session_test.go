package session_test

import (
	"testing"
	"time"

	"github.com/okian/romp/internal/domain/model"
	session "github.com/okian/romp/internal/domain/session"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAggregator(t *testing.T) {
	Convey("Given a fresh session", t, func() {
		start := time.Date(2025, 6, 1, 18, 30, 0, 0, time.UTC)
		agg := session.New(session.WithStart(start))

		Convey("When nothing has been recorded yet", func() {
			Convey("Then it has an identifier and a zero total", func() {
				So(agg.ID(), ShouldNotBeEmpty)
				So(agg.Score(), ShouldEqual, 0)
				So(agg.Count(), ShouldEqual, 0)
			})
		})

		Convey("When appending outcomes", func() {
			So(agg.Append(model.Outcome{
				Template:  model.Template{Kind: model.KindRun, Count: 10},
				Completed: true,
				Score:     100,
			}), ShouldBeNil)
			So(agg.Append(model.Outcome{
				Template: model.Template{Kind: model.KindTilt},
				Skipped:  true,
			}), ShouldBeNil)
			So(agg.Append(model.Outcome{
				Template:  model.Template{Kind: model.KindRotate, Degrees: 360},
				Completed: true,
				Score:     97,
			}), ShouldBeNil)

			Convey("Then the total and count track every outcome", func() {
				So(agg.Score(), ShouldEqual, 197)
				So(agg.Count(), ShouldEqual, 3)
			})

			Convey("And finishing seals an immutable record", func() {
				rec := agg.Finish()
				So(rec.ID, ShouldEqual, agg.ID())
				So(rec.Date.Equal(start), ShouldBeTrue)
				So(rec.Score, ShouldEqual, 197)
				So(rec.TotalChallenges, ShouldEqual, 3)
				So(rec.Challenges, ShouldHaveLength, 3)

				Convey("And later appends are rejected", func() {
					err := agg.Append(model.Outcome{Score: 50})
					So(err, ShouldEqual, session.ErrFinished)
					So(agg.Finish().Score, ShouldEqual, 197)
				})

				Convey("And mutating the returned slice does not leak back", func() {
					rec.Challenges[0].Score = 0
					So(agg.Finish().Challenges[0].Score, ShouldEqual, 100)
				})
			})
		})

		Convey("When two sessions are opened", func() {
			other := session.New()

			Convey("Then their identifiers differ", func() {
				So(other.ID(), ShouldNotEqual, agg.ID())
			})
		})
	})
}
