package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/athlytics/stature/internal/adapters/repository"
	service "github.com/athlytics/stature/internal/app"
	"github.com/athlytics/stature/internal/config"
	"github.com/athlytics/stature/internal/domain/model"
	"github.com/athlytics/stature/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func event(eventID, athleteID string, d time.Time, heightCM float64) model.MeasurementEvent {
	return model.MeasurementEvent{
		EventID:   eventID,
		AthleteID: athleteID,
		BirthDate: time.Date(2011, time.March, 1, 0, 0, 0, 0, time.UTC),
		Measurement: model.Measurement{
			ID:        eventID,
			AthleteID: athleteID,
			Date:      d,
			HeightCM:  model.Float64Ptr(heightCM),
		},
	}
}

func waitForMeasurements(ctx context.Context, svc *service.Service, athleteID string, want int) bool {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		report, err := svc.AthleteAnalysis(ctx, athleteID)
		if err == nil && report.Measurements == want {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a service built with defaults", t, func() {
		ctx := context.Background()
		svc := service.New(
			service.WithWorkerCount(2),
			service.WithQueueSize(100),
			service.WithDedupeSize(100),
		)

		Convey("When starting and stopping", func() {
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then stats should reflect the running state", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
				So(stats["workerCount"], ShouldEqual, 2)
				So(stats["queueSize"], ShouldEqual, 100)
				So(stats["store"], ShouldEqual, config.StoreMemory)
				So(stats, ShouldContainKey, "queueLength")
				So(stats, ShouldContainKey, "athletes")
				So(stats, ShouldContainKey, "measurements")
			})

			Convey("Then a second start should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})

			Convey("Then stopping should mark the service down", func() {
				svc.Stop()
				So(svc.GetStats()["started"], ShouldBeFalse)
			})

			Reset(func() {
				svc.Stop()
			})
		})
	})
}

func TestServicePipeline(t *testing.T) {
	Convey("Given a running service over an injected memory store", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()
		svc := service.New(
			service.WithStore(store),
			service.WithWorkerCount(2),
		)
		So(svc.Start(ctx), ShouldBeNil)

		Reset(func() {
			svc.Stop()
		})

		Convey("When enqueueing a measurement series", func() {
			base := time.Date(2023, time.January, 15, 0, 0, 0, 0, time.UTC)
			So(svc.Enqueue(ctx, event("e-1", "athlete-1", base, 140.0)), ShouldBeTrue)
			So(svc.Enqueue(ctx, event("e-2", "athlete-1", base.AddDate(0, 6, 0), 146.0)), ShouldBeTrue)
			So(svc.Enqueue(ctx, event("e-3", "athlete-1", base.AddDate(1, 0, 0), 153.0)), ShouldBeTrue)

			Convey("Then workers should produce an analysis snapshot", func() {
				So(waitForMeasurements(ctx, svc, "athlete-1", 3), ShouldBeTrue)

				report, err := svc.AthleteAnalysis(ctx, "athlete-1")
				So(err, ShouldBeNil)
				So(report.Verdict.Valid, ShouldBeTrue)
				So(report.PHV, ShouldNotBeNil)
				So(report.Prediction, ShouldNotBeNil)
			})
		})

		Convey("When no snapshot exists but measurements do", func() {
			m := event("e-9", "athlete-2", time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), 150.0)
			So(store.PutAthlete(ctx, model.Athlete{ID: "athlete-2", BirthDate: m.BirthDate}), ShouldBeNil)
			So(store.AddMeasurement(ctx, m.Measurement), ShouldBeNil)

			Convey("Then the analysis should be computed on demand and persisted", func() {
				report, err := svc.AthleteAnalysis(ctx, "athlete-2")
				So(err, ShouldBeNil)
				So(report.Measurements, ShouldEqual, 1)

				saved, err := store.Analysis(ctx, "athlete-2")
				So(err, ShouldBeNil)
				So(saved.Measurements, ShouldEqual, 1)
			})
		})

		Convey("When asking for an unknown athlete", func() {
			_, err := svc.AthleteAnalysis(ctx, "ghost")
			So(err, ShouldEqual, repository.ErrNotFound)
		})

		Convey("When tracking event ids", func() {
			So(svc.SeenAndRecord(ctx, "dup-1"), ShouldBeFalse)
			So(svc.SeenAndRecord(ctx, "dup-1"), ShouldBeTrue)
			So(svc.Size(), ShouldEqual, 1)

			svc.Unrecord(ctx, "dup-1")
			So(svc.Size(), ShouldEqual, 0)
			So(svc.SeenAndRecord(ctx, "dup-1"), ShouldBeFalse)
		})

		Convey("When analyzing a caller-supplied series", func() {
			series := []model.Measurement{
				{ID: "0", Date: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), HeightCM: model.Float64Ptr(160.0)},
			}
			report := svc.Analyze(ctx, series, time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC))

			Convey("Then the report should not touch the store", func() {
				So(report.Measurements, ShouldEqual, 1)
				So(report.AthleteID, ShouldBeEmpty)
				So(store.AthleteCount(ctx), ShouldEqual, 0)
			})
		})
	})
}
