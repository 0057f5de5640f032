package errs_test

import (
	"errors"
	"testing"

	"github.com/okian/bakeoff/internal/domain/errs"
	. "github.com/smartystreets/goconvey/convey"
)

func TestError(t *testing.T) {
	Convey("Given a wrapped storage failure", t, func() {
		cause := errors.New("connection reset")
		err := errs.Wrap("repository.list_scores", errs.ErrStorage, cause)

		Convey("Then it should match both its kind and its cause", func() {
			So(errors.Is(err, errs.ErrStorage), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(errors.Is(err, errs.ErrNotFound), ShouldBeFalse)
			So(err.Error(), ShouldEqual, "repository.list_scores: storage failure: connection reset")
		})

		Convey("And KindOf should report storage", func() {
			So(errs.KindOf(err), ShouldEqual, errs.ErrStorage)
		})
	})

	Convey("Given a kind-only error", t, func() {
		err := errs.New("app.admit_score", errs.ErrDuplicateWinner)

		Convey("Then the message should name the op and kind", func() {
			So(err.Error(), ShouldEqual, "app.admit_score: category already awarded this week")
			So(errs.KindOf(err), ShouldEqual, errs.ErrDuplicateWinner)
		})
	})

	Convey("Given a formatted error", t, func() {
		err := errs.Newf("app.set_roster", errs.ErrValidation, "roster needs 3 contestants, got %d", 2)

		Convey("Then the detail should be kept", func() {
			So(errors.Is(err, errs.ErrValidation), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "got 2")
		})
	})

	Convey("Given a nil cause", t, func() {
		So(errs.Wrap("op", errs.ErrStorage, nil), ShouldBeNil)
	})

	Convey("Given an error that already carries its kind", t, func() {
		inner := errs.New("repository.get_player", errs.ErrNotFound)
		err := errs.Wrap("app.breakdown", errs.ErrNotFound, inner)

		Convey("Then the kind should not be repeated", func() {
			So(err.Error(), ShouldEqual, "app.breakdown: repository.get_player: not found")
		})
	})

	Convey("Given a foreign error", t, func() {
		So(errs.KindOf(errors.New("boom")), ShouldEqual, errs.ErrStorage)
	})
}
