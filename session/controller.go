// session/controller.go
package session

import (
	"errors"

	"github.com/avesguide/academy_api/activity"
	"github.com/avesguide/academy_api/dto"
)

var (
	// ErrNotReady rejects a submission before the response has enough
	// input to judge (gates the submit control for drag_drop/matching).
	ErrNotReady = errors.New("response incomplete")
	// ErrCompleted rejects re-judging of a completed activity; revisiting
	// one is read-only review.
	ErrCompleted = errors.New("activity already completed")
	// ErrLockedAhead rejects selecting an activity past the first
	// incomplete one.
	ErrLockedAhead = errors.New("activity not yet reachable")
)

// Activity is one normalized exercise inside the running session.
type Activity struct {
	ID        string
	Type      string
	Prompt    string
	MaxPoints int
	Badge     string
	Payload   activity.Payload

	seed int64
}

// Order returns the shuffled presentation order for the current visit.
// Stable across retries, regenerated by Revisit.
func (a *Activity) Order() []int {
	switch p := a.Payload.(type) {
	case activity.DragDrop:
		return activity.ShuffleOrder(len(p.Pairs), a.seed)
	case activity.Matching:
		return activity.ShuffleOrder(len(p.Pairs), a.seed)
	default:
		return nil
	}
}

// Result reports the outcome of one judged submission.
type Result struct {
	Correct          bool
	PointsAwarded    int
	Badge            string
	Totals           Totals
	ActivityComplete bool
	AllComplete      bool
}

// Session orchestrates one lesson's activity sequence: which activities are
// completed, which is active, and the running reward totals. It is owned by
// the active lesson's view; switching lessons discards it and builds a new
// one from the authoritative course snapshot.
type Session struct {
	activities []Activity
	completed  map[int]bool
	active     int // smallest incomplete index; len(activities) when all done
	current    int // index the learner is looking at
	rewards    Rewards
	recorder   *Recorder
}

// New builds a session for one lesson. completedIDs is the authoritative
// completed-activity set from the course snapshot; activities already in it
// start completed.
func New(lesson dto.LessonResponse, completedIDs []string, recorder *Recorder) *Session {
	done := make(map[string]bool, len(completedIDs))
	for _, id := range completedIDs {
		done[id] = true
	}

	s := &Session{
		completed: map[int]bool{},
		recorder:  recorder,
	}
	for i, act := range lesson.Activities {
		s.activities = append(s.activities, Activity{
			ID:        act.ID,
			Type:      act.Type,
			Prompt:    act.Prompt,
			MaxPoints: act.MaxPoints,
			Badge:     act.Badge,
			Payload:   activity.Normalize(act.Type, act.Payload),
			seed:      activity.NewVisitSeed(),
		})
		if done[act.ID] {
			s.completed[i] = true
		}
	}
	s.active = s.nextIncomplete()
	s.current = s.active
	if s.current >= len(s.activities) && len(s.activities) > 0 {
		s.current = len(s.activities) - 1
	}
	return s
}

func (s *Session) nextIncomplete() int {
	for i := range s.activities {
		if !s.completed[i] {
			return i
		}
	}
	return len(s.activities)
}

func (s *Session) Len() int { return len(s.activities) }

func (s *Session) Activity(i int) *Activity {
	if i < 0 || i >= len(s.activities) {
		return nil
	}
	return &s.activities[i]
}

// ActiveIndex is the smallest index not yet completed.
func (s *Session) ActiveIndex() int { return s.active }

// CurrentIndex is the activity the learner is viewing.
func (s *Session) CurrentIndex() int { return s.current }

func (s *Session) IsCompleted(i int) bool { return s.completed[i] }

// AllComplete is vacuously true for a lesson without activities; such a
// lesson can be completed on first visit.
func (s *Session) AllComplete() bool {
	return s.active >= len(s.activities)
}

func (s *Session) Totals() Totals { return s.rewards.Totals() }

// Select moves the learner's view. Completed activities are always open for
// review; otherwise nothing past the active index is reachable.
func (s *Session) Select(i int) error {
	if i < 0 || i >= len(s.activities) {
		return ErrLockedAhead
	}
	if i > s.active && !s.completed[i] {
		return ErrLockedAhead
	}
	s.current = i
	return nil
}

// Revisit re-enters an activity from navigation, regenerating its shuffle
// seed. In-place retries never come through here and keep their order.
func (s *Session) Revisit(i int) error {
	if err := s.Select(i); err != nil {
		return err
	}
	s.activities[i].seed = activity.NewVisitSeed()
	return nil
}

// Submit judges the learner's response against the current activity. On a
// correct answer the activity settles to completed, rewards accumulate, the
// attempt is recorded and the cursor advances; on an incorrect answer the
// attempt is recorded with zero points and the activity moves to its retry
// state (the caller clears the learner's response; completion state and
// shuffle order are untouched).
func (s *Session) Submit(r activity.Response) (Result, error) {
	if s.current >= len(s.activities) {
		return Result{}, ErrCompleted
	}
	if s.completed[s.current] {
		return Result{}, ErrCompleted
	}

	act := &s.activities[s.current]
	if !act.Payload.Ready(r) {
		return Result{}, ErrNotReady
	}

	if !act.Payload.Judge(r) {
		s.recorder.Record(act.ID, false, 0)
		return Result{
			Totals:      s.rewards.Totals(),
			AllComplete: s.AllComplete(),
		}, nil
	}

	// Once correct, never un-completed within the session.
	s.completed[s.current] = true
	totals := s.rewards.Add(act.MaxPoints, act.Badge)
	s.recorder.Record(act.ID, true, act.MaxPoints)

	followCursor := s.current == s.active
	s.active = s.nextIncomplete()
	if followCursor && s.active < len(s.activities) {
		s.current = s.active
	}

	return Result{
		Correct:          true,
		PointsAwarded:    act.MaxPoints,
		Badge:            act.Badge,
		Totals:           totals,
		ActivityComplete: true,
		AllComplete:      s.AllComplete(),
	}, nil
}

// CompletedIDs returns the ids of activities completed so far, used when
// requesting lesson completion.
func (s *Session) CompletedIDs() []string {
	var ids []string
	for i, act := range s.activities {
		if s.completed[i] {
			ids = append(ids, act.ID)
		}
	}
	return ids
}
