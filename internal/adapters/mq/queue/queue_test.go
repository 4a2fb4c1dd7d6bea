package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/athlytics/stature/internal/adapters/mq/queue"
	"github.com/athlytics/stature/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func event(id, athleteID string) queue.Event {
	return model.MeasurementEvent{
		EventID:   id,
		AthleteID: athleteID,
		Measurement: model.Measurement{
			ID:        id,
			AthleteID: athleteID,
			Date:      time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			HeightCM:  model.Float64Ptr(150.0),
		},
	}
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a new in-memory queue", t, func() {
		ctx := context.Background()

		Convey("When enqueuing an event", func() {
			q := queue.NewInMemoryQueue()
			defer q.Close()

			ok := q.Enqueue(ctx, event("e-1", "a-1"))

			Convey("Then the event should be accepted and counted", func() {
				So(ok, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 1)
			})
		})

		Convey("When dequeuing", func() {
			q := queue.NewInMemoryQueue()
			defer q.Close()

			q.Enqueue(ctx, event("e-1", "a-1"))
			q.Enqueue(ctx, event("e-2", "a-1"))

			out := q.Dequeue(ctx)

			Convey("Then events should arrive in order", func() {
				first := <-out
				second := <-out
				So(first.EventID, ShouldEqual, "e-1")
				So(second.EventID, ShouldEqual, "e-2")
				So(q.Len(ctx), ShouldEqual, 0)
			})
		})

		Convey("When the queue is at capacity", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(2), queue.WithBufferSize(2))
			defer q.Close()

			So(q.Enqueue(ctx, event("e-1", "a-1")), ShouldBeTrue)
			So(q.Enqueue(ctx, event("e-2", "a-1")), ShouldBeTrue)

			Convey("Then further enqueues should report backpressure", func() {
				So(q.Enqueue(ctx, event("e-3", "a-1")), ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})

		Convey("When the queue is closed", func() {
			q := queue.NewInMemoryQueue()
			q.Enqueue(ctx, event("e-1", "a-1"))
			So(q.Close(), ShouldBeNil)

			Convey("Then it should report closed and refuse new events", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, event("e-2", "a-1")), ShouldBeFalse)
			})

			Convey("Then buffered events should drain before the channel closes", func() {
				out := q.Dequeue(ctx)
				e, ok := <-out
				So(ok, ShouldBeTrue)
				So(e.EventID, ShouldEqual, "e-1")
				_, ok = <-out
				So(ok, ShouldBeFalse)
			})

			Convey("Then closing again should be a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})

		Convey("When the consumer context is cancelled", func() {
			q := queue.NewInMemoryQueue()
			defer q.Close()

			cancelCtx, cancel := context.WithCancel(ctx)
			out := q.Dequeue(cancelCtx)
			cancel()
			q.Enqueue(ctx, event("e-1", "a-1"))

			// Give the consumer goroutine time to observe the cancel.
			time.Sleep(50 * time.Millisecond)

			Convey("Then the dequeue channel should close without delivering", func() {
				select {
				case _, ok := <-out:
					So(ok, ShouldBeFalse)
				case <-time.After(time.Second):
					So("timed out waiting for channel close", ShouldBeEmpty)
				}
			})
		})
	})
}
