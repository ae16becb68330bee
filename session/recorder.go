// session/recorder.go
package session

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// AttemptSink receives judged answer attempts. The content client satisfies
// this interface.
type AttemptSink interface {
	RecordAttempt(ctx context.Context, activityID string, correct bool, points int) error
}

// Recorder reports every answer attempt to the content service. Recording
// is a non-critical side effect: Record has no error return, never blocks
// the caller, and never retries. A failed write is logged and dropped;
// losing an analytics-grade attempt record must never stop a learner.
type Recorder struct {
	sink    AttemptSink
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewRecorder(sink AttemptSink) *Recorder {
	return &Recorder{
		sink:    sink,
		timeout: 10 * time.Second,
	}
}

// Record dispatches the attempt in the background. In-flight recordings are
// allowed to finish even after the learner navigates away, so the call is
// detached from any request context.
func (r *Recorder) Record(activityID string, correct bool, points int) {
	if r == nil || r.sink == nil {
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := r.sink.RecordAttempt(ctx, activityID, correct, points); err != nil {
			log.WithError(err).WithField("activity_id", activityID).Warn("Failed to record attempt")
		}
	}()
}

// Wait blocks until every dispatched recording has settled. Used on
// shutdown and in tests.
func (r *Recorder) Wait() {
	r.wg.Wait()
}
