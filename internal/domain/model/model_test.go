package model_test

import (
	"testing"

	"github.com/okian/ranqr/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPairKey(t *testing.T) {
	Convey("Given two item ids", t, func() {
		Convey("Then both orderings produce the same key", func() {
			So(model.PairKey("a", "b"), ShouldEqual, model.PairKey("b", "a"))
		})

		Convey("And different pairs produce different keys", func() {
			So(model.PairKey("a", "b"), ShouldNotEqual, model.PairKey("a", "c"))
		})

		Convey("And the lower id always comes first", func() {
			So(model.PairKey("z", "a"), ShouldEqual, "a|z")
		})
	})
}

func TestOutcome(t *testing.T) {
	Convey("Given the three defined outcomes", t, func() {
		Convey("Then each round-trips through its wire form", func() {
			for _, o := range []model.Outcome{model.AWins, model.BWins, model.Tie} {
				parsed, err := model.ParseOutcome(o.String())
				So(err, ShouldBeNil)
				So(parsed, ShouldEqual, o)
				So(o.Valid(), ShouldBeTrue)
			}
		})

		Convey("Then flipping swaps wins and leaves ties alone", func() {
			So(model.AWins.Flipped(), ShouldEqual, model.BWins)
			So(model.BWins.Flipped(), ShouldEqual, model.AWins)
			So(model.Tie.Flipped(), ShouldEqual, model.Tie)
		})
	})

	Convey("Given an unknown wire string", t, func() {
		_, err := model.ParseOutcome("item1")

		Convey("Then parsing fails with the sentinel error", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unknown outcome")
		})
	})

	Convey("Given an out-of-range outcome value", t, func() {
		o := model.Outcome(42)

		Convey("Then it is not valid", func() {
			So(o.Valid(), ShouldBeFalse)
		})
	})
}
