package scoring_test

import (
	"errors"
	"testing"

	"github.com/okian/bakeoff/internal/domain/errs"
	"github.com/okian/bakeoff/internal/domain/model"
	scoring "github.com/okian/bakeoff/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func intPtr(v int) *int { return &v }

func TestPointsFor(t *testing.T) {
	Convey("Given the category table", t, func() {
		expected := map[model.Category]int{
			scoring.StarBaker:        4,
			scoring.TechnicalWin:     3,
			scoring.Handshake:        4,
			scoring.Raw:              -1,
			scoring.Overbaked:        -1,
			scoring.LastTechnical:    -1,
			scoring.CriesTestimonial: 1,
		}

		Convey("When looking up every known category", func() {
			Convey("Then it should return the fixed value", func() {
				for c, want := range expected {
					got, err := scoring.PointsFor(c)
					So(err, ShouldBeNil)
					So(got, ShouldEqual, want)
				}
			})
		})

		Convey("When looking up an unknown category", func() {
			_, err := scoring.PointsFor("soggy_bottom")

			Convey("Then it should fail with an unknown category error", func() {
				So(errors.Is(err, errs.ErrUnknownCategory), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "soggy_bottom")
				So(scoring.Valid("soggy_bottom"), ShouldBeFalse)
			})
		})

		Convey("When listing categories", func() {
			list := scoring.Categories()

			Convey("Then all seven should be present in table order", func() {
				So(len(list), ShouldEqual, len(expected))
				So(list[0].Category, ShouldEqual, scoring.StarBaker)
				So(list[6].Category, ShouldEqual, scoring.CriesTestimonial)
			})
		})
	})
}

func TestIsSingleWinner(t *testing.T) {
	Convey("Given the single-winner categories", t, func() {
		So(scoring.IsSingleWinner(scoring.StarBaker), ShouldBeTrue)
		So(scoring.IsSingleWinner(scoring.TechnicalWin), ShouldBeTrue)
		So(scoring.IsSingleWinner(scoring.LastTechnical), ShouldBeTrue)

		Convey("Then the other categories should not be restricted", func() {
			So(scoring.IsSingleWinner(scoring.Handshake), ShouldBeFalse)
			So(scoring.IsSingleWinner(scoring.Raw), ShouldBeFalse)
			So(scoring.IsSingleWinner(scoring.Overbaked), ShouldBeFalse)
			So(scoring.IsSingleWinner(scoring.CriesTestimonial), ShouldBeFalse)
			So(scoring.IsSingleWinner("unknown"), ShouldBeFalse)
		})
	})
}

func TestCanScore(t *testing.T) {
	Convey("Given an active contestant", t, func() {
		c := model.Contestant{Name: "Abbi"}

		Convey("Then every week should be scorable", func() {
			for week := 1; week <= 10; week++ {
				So(scoring.CanScore(c, week), ShouldBeTrue)
			}
		})
	})

	Convey("Given a contestant eliminated in week 3", t, func() {
		c := model.Contestant{Name: "Pui Man", EliminatedWeek: intPtr(3)}

		Convey("Then only week 3 should be scorable", func() {
			for week := 1; week <= 10; week++ {
				So(scoring.CanScore(c, week), ShouldEqual, week == 3)
			}
		})
	})
}
