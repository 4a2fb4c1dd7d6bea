package growth_test

import (
	"testing"
	"time"

	"github.com/athlytics/stature/internal/domain/growth"
	"github.com/athlytics/stature/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEstimatePHV(t *testing.T) {
	Convey("Given a pubertal growth series", t, func() {
		birth := date(2012, time.March, 1)
		series := []model.Measurement{
			sample(date(2023, time.January, 15), 140.0),
			sample(date(2023, time.July, 15), 146.0),
			sample(date(2024, time.January, 15), 153.0),
		}

		Convey("When estimating peak height velocity", func() {
			res, ok := growth.EstimatePHV(series, birth)

			Convey("Then the winning interval should be the faster second one", func() {
				So(ok, ShouldBeTrue)
				So(res.Source, ShouldEqual, growth.SourceMeasured)
				So(res.MeasurementsUsed, ShouldEqual, 3)
				So(res.ValidIntervals, ShouldEqual, 2)
				// 7cm over 184 days is ~13.9 cm/yr, above the 12 cap.
				So(res.Capped, ShouldBeTrue)
				So(res.VelocityCMPerYear, ShouldEqual, growth.MaxPeakCMPerYear)
				So(res.Date, ShouldEqual, date(2023, time.October, 15))
				So(res.Age, ShouldNotBeNil)
				So(*res.Age, ShouldAlmostEqual, 11.6, 0.05)
			})
		})

		Convey("When the series arrives out of order", func() {
			shuffled := []model.Measurement{series[2], series[0], series[1]}
			res, ok := growth.EstimatePHV(shuffled, birth)
			ordered, _ := growth.EstimatePHV(series, birth)

			Convey("Then the result should be identical", func() {
				So(ok, ShouldBeTrue)
				So(res.VelocityCMPerYear, ShouldEqual, ordered.VelocityCMPerYear)
				So(res.Date, ShouldEqual, ordered.Date)
				So(res.ValidIntervals, ShouldEqual, ordered.ValidIntervals)
			})
		})

		Convey("When no birth date is supplied", func() {
			res, ok := growth.EstimatePHV(series, time.Time{})

			Convey("Then the age should be absent", func() {
				So(ok, ShouldBeTrue)
				So(res.Age, ShouldBeNil)
			})
		})
	})

	Convey("Given a series with a sub-30-day interval", t, func() {
		series := []model.Measurement{
			sample(date(2023, time.January, 1), 140.0),
			sample(date(2023, time.January, 15), 141.0), // 14 days, excluded
			sample(date(2023, time.July, 1), 144.0),
		}

		Convey("When estimating peak height velocity", func() {
			res, ok := growth.EstimatePHV(series, time.Time{})

			Convey("Then the short interval should not contribute", func() {
				So(ok, ShouldBeTrue)
				So(res.ValidIntervals, ShouldEqual, 1)
			})
		})
	})

	Convey("Given a series with an implausibly fast interval", t, func() {
		series := []model.Measurement{
			sample(date(2023, time.January, 1), 140.0),
			sample(date(2023, time.March, 1), 150.0), // ~62 cm/yr, excluded
			sample(date(2024, time.January, 1), 152.0),
		}

		Convey("When estimating peak height velocity", func() {
			res, ok := growth.EstimatePHV(series, time.Time{})

			Convey("Then only the plausible interval should survive", func() {
				So(ok, ShouldBeTrue)
				So(res.ValidIntervals, ShouldEqual, 1)
				So(res.VelocityCMPerYear, ShouldBeLessThanOrEqualTo, growth.MaxPeakCMPerYear)
			})
		})
	})

	Convey("Given a shrinking series", t, func() {
		series := []model.Measurement{
			sample(date(2023, time.January, 1), 150.0),
			sample(date(2023, time.July, 1), 149.0),
		}

		Convey("When estimating peak height velocity", func() {
			res, ok := growth.EstimatePHV(series, time.Time{})

			Convey("Then the velocity should be floored at zero", func() {
				So(ok, ShouldBeTrue)
				So(res.VelocityCMPerYear, ShouldEqual, 0.0)
			})
		})
	})

	Convey("Given insufficient data", t, func() {
		Convey("When the series has a single height", func() {
			_, ok := growth.EstimatePHV([]model.Measurement{
				sample(date(2023, time.January, 1), 150.0),
			}, time.Time{})

			Convey("Then estimation should fail", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When measurements carry no heights", func() {
			_, ok := growth.EstimatePHV([]model.Measurement{
				{Date: date(2023, time.January, 1)},
				{Date: date(2023, time.July, 1)},
			}, time.Time{})

			Convey("Then estimation should fail", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When every interval is filtered out", func() {
			_, ok := growth.EstimatePHV([]model.Measurement{
				sample(date(2023, time.January, 1), 140.0),
				sample(date(2023, time.January, 10), 141.0),
			}, time.Time{})

			Convey("Then estimation should fail", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given any surviving estimate", t, func() {
		Convey("When the raw peak is extreme but plausible", func() {
			series := []model.Measurement{
				sample(date(2023, time.January, 1), 140.0),
				sample(date(2024, time.January, 1), 154.5), // ~14.5 cm/yr
			}
			res, ok := growth.EstimatePHV(series, time.Time{})

			Convey("Then the capped velocity should stay within [0, 12]", func() {
				So(ok, ShouldBeTrue)
				So(res.Capped, ShouldBeTrue)
				So(res.VelocityCMPerYear, ShouldBeBetweenOrEqual, 0.0, growth.MaxPeakCMPerYear)
			})
		})
	})
}
