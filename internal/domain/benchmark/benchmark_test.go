package benchmark_test

import (
	"testing"

	"github.com/athlytics/stature/internal/domain/benchmark"
	. "github.com/smartystreets/goconvey/convey"
)

func TestForAge(t *testing.T) {
	Convey("Given the age-banded reference tables", t, func() {
		Convey("When looking up a nine-year-old", func() {
			So(benchmark.ForAge(9.4).AgeBand, ShouldEqual, "U10")
		})

		Convey("When looking up just under a band boundary", func() {
			So(benchmark.ForAge(13.99).AgeBand, ShouldEqual, "U14")
		})

		Convey("When looking up exactly at a band boundary", func() {
			// Bands are half-open: age 14 belongs to U15, not U14.
			So(benchmark.ForAge(14.0).AgeBand, ShouldEqual, "U15")
		})

		Convey("When looking up an adult", func() {
			So(benchmark.ForAge(18.0).AgeBand, ShouldEqual, "Senior")
			So(benchmark.ForAge(25.0).AgeBand, ShouldEqual, "Senior")
		})

		Convey("Then thresholds should rise monotonically across bands", func() {
			prev := benchmark.ForAge(9.0)
			for _, age := range []float64{10, 11, 12, 13, 14, 15, 16, 17, 18} {
				next := benchmark.ForAge(age + 0.5)
				So(next.HeightCM.P50, ShouldBeGreaterThan, prev.HeightCM.P50)
				So(next.AgilitySec.P95, ShouldBeLessThanOrEqualTo, prev.AgilitySec.P95)
				prev = next
			}
		})
	})
}

func TestCompare(t *testing.T) {
	Convey("Given a higher-is-better percentile table", t, func() {
		p := benchmark.Percentiles{P95: 172, P75: 166, P50: 160, P25: 155}

		Convey("When the value meets or beats each threshold", func() {
			So(benchmark.Compare(175, p, benchmark.HigherIsBetter), ShouldEqual, benchmark.RatingElite)
			So(benchmark.Compare(172, p, benchmark.HigherIsBetter), ShouldEqual, benchmark.RatingElite)
			So(benchmark.Compare(168, p, benchmark.HigherIsBetter), ShouldEqual, benchmark.RatingExcellent)
			So(benchmark.Compare(161, p, benchmark.HigherIsBetter), ShouldEqual, benchmark.RatingGood)
			So(benchmark.Compare(156, p, benchmark.HigherIsBetter), ShouldEqual, benchmark.RatingAverage)
			So(benchmark.Compare(150, p, benchmark.HigherIsBetter), ShouldEqual, benchmark.RatingBelowAverage)
		})
	})

	Convey("Given a lower-is-better percentile table", t, func() {
		p := benchmark.Percentiles{P95: 4.8, P75: 5.1, P50: 5.4, P25: 5.7}

		Convey("When smaller times rank higher", func() {
			So(benchmark.Compare(4.7, p, benchmark.LowerIsBetter), ShouldEqual, benchmark.RatingElite)
			So(benchmark.Compare(4.8, p, benchmark.LowerIsBetter), ShouldEqual, benchmark.RatingElite)
			So(benchmark.Compare(5.0, p, benchmark.LowerIsBetter), ShouldEqual, benchmark.RatingExcellent)
			So(benchmark.Compare(5.3, p, benchmark.LowerIsBetter), ShouldEqual, benchmark.RatingGood)
			So(benchmark.Compare(5.6, p, benchmark.LowerIsBetter), ShouldEqual, benchmark.RatingAverage)
			So(benchmark.Compare(6.0, p, benchmark.LowerIsBetter), ShouldEqual, benchmark.RatingBelowAverage)
		})
	})
}
