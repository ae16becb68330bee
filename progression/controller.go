// progression/controller.go
package progression

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/avesguide/academy_api/activity"
	"github.com/avesguide/academy_api/dto"
	"github.com/avesguide/academy_api/session"
	"github.com/avesguide/academy_api/shared"
)

// Outcome classifies the result of an Advance call.
type Outcome int

const (
	// OutcomeAdvanced: the next lesson is now active.
	OutcomeAdvanced Outcome = iota
	// OutcomeFinished: the current lesson was the course's last.
	OutcomeFinished
	// OutcomeBlocked: completion rejected because activities are
	// incomplete. Surfaced as a blocking, dismissible notice; the learner
	// stays on the lesson.
	OutcomeBlocked
	// OutcomeRetry: completion failed for another reason (network/server).
	// Surfaced as a generic retry notice; no navigation.
	OutcomeRetry
)

var (
	ErrNotLoaded = errors.New("course not loaded")
	// ErrAdvanceInFlight rejects a second Advance while one is still
	// resolving (the disabled-button affordance during "Processing…").
	ErrAdvanceInFlight = errors.New("completion already in progress")
	ErrLessonLocked    = errors.New("lesson is locked")
)

// Controller is the outer state machine: it holds the read-mostly course
// snapshot, derives lock state, drives the remote completion call and owns
// the per-lesson activity session. All mutable state belongs to the active
// lesson's view; switching lessons discards and recreates it.
type Controller struct {
	client ContentClient

	mu       sync.Mutex
	course   *dto.CourseResponse
	active   int
	session  *session.Session
	recorder *session.Recorder
	inFlight bool
}

func NewController(client ContentClient) *Controller {
	return &Controller{
		client:   client,
		recorder: session.NewRecorder(client),
	}
}

// Load fetches the course aggregate and activates the first lesson the
// learner can work on: the first non-completed unlocked lesson, or the last
// lesson when everything is done.
func (c *Controller) Load(ctx context.Context, courseID string) error {
	course, err := c.client.GetCourse(ctx, courseID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.course = course
	c.active = 0
	for i := range course.Lessons {
		if LessonStatus(course, i) != shared.LessonStatusCompleted {
			c.active = i
			break
		}
		c.active = i
	}
	c.resetSession()
	return nil
}

// resetSession rebuilds session state for the active lesson from the
// snapshot. Caller holds the lock.
func (c *Controller) resetSession() {
	if c.course == nil || c.active >= len(c.course.Lessons) {
		c.session = nil
		return
	}
	c.session = session.New(c.course.Lessons[c.active], c.course.CompletedActivities, c.recorder)
}

func (c *Controller) Course() *dto.CourseResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.course
}

func (c *Controller) ActiveLesson() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

func (c *Controller) Session() *session.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// SelectLesson navigates to another lesson. Locked lessons are not
// reachable; switching discards the current session state.
func (c *Controller) SelectLesson(ctx context.Context, i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.course == nil {
		return ErrNotLoaded
	}
	if i < 0 || i >= len(c.course.Lessons) {
		return ErrLessonLocked
	}
	if LessonStatus(c.course, i) == shared.LessonStatusLocked {
		return ErrLessonLocked
	}
	c.active = i
	c.resetSession()
	return nil
}

// SubmitActivity judges the learner's response locally, then persists a
// correct completion remotely and refreshes the course copy so the local
// snapshot cannot drift from the authoritative completed set. A failed
// persistence is logged and left for the completion call to catch; the
// learner's local progress stands.
func (c *Controller) SubmitActivity(ctx context.Context, r activity.Response) (session.Result, error) {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()
	if sess == nil {
		return session.Result{}, ErrNotLoaded
	}

	judged := sess.Activity(sess.CurrentIndex())
	result, err := sess.Submit(r)
	if err != nil || !result.Correct {
		return result, err
	}

	if _, err := c.client.CompleteActivity(ctx, judged.ID, r); err != nil {
		log.WithError(err).WithField("activity_id", judged.ID).Warn("Failed to persist activity completion")
		return result, nil
	}
	if err := c.refreshCourse(ctx); err != nil {
		log.WithError(err).Warn("Failed to refresh course after activity completion")
	}
	return result, nil
}

func (c *Controller) refreshCourse(ctx context.Context) error {
	c.mu.Lock()
	courseID := ""
	if c.course != nil {
		courseID = c.course.ID
	}
	c.mu.Unlock()
	if courseID == "" {
		return ErrNotLoaded
	}

	course, err := c.client.GetCourse(ctx, courseID)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.course = course
	c.mu.Unlock()
	return nil
}

// Advance moves the learner to the next lesson.
//
// An already-completed lesson skips the remote call entirely: remote
// completion is not guaranteed idempotent, so the skip is load-bearing, not
// an optimization. Otherwise the lesson is completed remotely; on success
// the course aggregate is reloaded so every lesson status is recomputed from
// authoritative data. A rejection for incomplete activities blocks without
// navigating; any other failure asks the learner to retry.
func (c *Controller) Advance(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.course == nil {
		c.mu.Unlock()
		return OutcomeRetry, ErrNotLoaded
	}
	if c.inFlight {
		c.mu.Unlock()
		return OutcomeRetry, ErrAdvanceInFlight
	}
	c.inFlight = true
	course := c.course
	active := c.active
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	if LessonStatus(course, active) != shared.LessonStatusCompleted {
		if err := c.client.CompleteLesson(ctx, course.Lessons[active].ID); err != nil {
			if errors.Is(err, shared.ErrActivitiesIncomplete) {
				return OutcomeBlocked, err
			}
			return OutcomeRetry, err
		}
		if err := c.refreshCourse(ctx); err != nil {
			// The completion stuck remotely; the next load converges.
			log.WithError(err).Warn("Failed to reload course after lesson completion")
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active+1 >= len(c.course.Lessons) {
		return OutcomeFinished, nil
	}
	c.active++
	c.resetSession()
	return OutcomeAdvanced, nil
}
