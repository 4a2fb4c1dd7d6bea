package analysis_test

import (
	"testing"
	"time"

	"github.com/athlytics/stature/internal/domain/analysis"
	"github.com/athlytics/stature/internal/domain/growth"
	"github.com/athlytics/stature/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sample(d time.Time, heightCM float64) model.Measurement {
	return model.Measurement{Date: d, HeightCM: model.Float64Ptr(heightCM)}
}

func TestRun(t *testing.T) {
	Convey("Given a measurable growth series", t, func() {
		birth := date(2012, time.March, 1)
		series := []model.Measurement{
			sample(date(2023, time.January, 15), 140.0),
			sample(date(2023, time.July, 15), 146.0),
			sample(date(2024, time.January, 15), 153.0),
		}

		Convey("When running the full analysis", func() {
			report := analysis.Run("athlete-1", series, birth)

			Convey("Then the report should carry every stage", func() {
				So(report.AthleteID, ShouldEqual, "athlete-1")
				So(report.Measurements, ShouldEqual, 3)
				So(report.ComputedAt.IsZero(), ShouldBeFalse)
				So(report.Verdict.Valid, ShouldBeTrue)
				So(report.PHV, ShouldNotBeNil)
				So(report.PHV.Source, ShouldEqual, growth.SourceMeasured)
				So(report.PHV.VelocityCMPerYear, ShouldBeBetweenOrEqual, 0.0, 12.0)
				So(report.Prediction, ShouldNotBeNil)
				So(report.Prediction.HeightCM, ShouldBeBetweenOrEqual, 150.0, 220.0)
			})
		})
	})

	Convey("Given a single-measurement series", t, func() {
		birth := date(2010, time.January, 1)
		series := []model.Measurement{
			sample(date(2024, time.January, 1), 160.0),
		}

		Convey("When running the analysis", func() {
			report := analysis.Run("athlete-2", series, birth)

			Convey("Then the PHV should come from the age fallback", func() {
				So(report.Verdict.Valid, ShouldBeFalse)
				So(report.PHV, ShouldNotBeNil)
				So(report.PHV.Source, ShouldEqual, growth.SourceEstimated)
				So(report.PHV.VelocityCMPerYear, ShouldEqual, growth.FallbackPeakCMPerYear)
			})

			Convey("Then the fallback should anchor on the latest measurement age", func() {
				// Current age ~14 is inside the default window, so the
				// assumed peak age is 13.5.
				So(report.PHV.Age, ShouldNotBeNil)
				So(*report.PHV.Age, ShouldEqual, growth.DefaultPHVAge)
			})

			Convey("Then prediction should still fire via Khamis-Roche", func() {
				So(report.Prediction, ShouldNotBeNil)
				So(report.Prediction.MethodsUsed, ShouldContain, "khamis_roche")
			})
		})
	})

	Convey("Given an older subject with a single measurement", t, func() {
		birth := date(2007, time.January, 1)
		series := []model.Measurement{
			sample(date(2023, time.July, 1), 178.0),
		}

		Convey("When running the analysis", func() {
			report := analysis.Run("athlete-3", series, birth)

			Convey("Then the fallback should place the peak in the past", func() {
				// Current age ~16.5 is past the late cutoff.
				So(report.PHV.Source, ShouldEqual, growth.SourceEstimated)
				So(*report.PHV.Age, ShouldAlmostEqual, 15.0, 0.05)
			})
		})
	})

	Convey("Given an empty series", t, func() {
		Convey("When running the analysis", func() {
			report := analysis.Run("athlete-4", nil, time.Time{})

			Convey("Then validation fails, PHV falls back, and prediction is absent", func() {
				So(report.Verdict.Valid, ShouldBeFalse)
				So(report.PHV, ShouldNotBeNil)
				So(report.PHV.Source, ShouldEqual, growth.SourceEstimated)
				So(report.Prediction, ShouldBeNil)
			})
		})
	})
}
