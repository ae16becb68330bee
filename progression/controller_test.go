package progression

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avesguide/academy_api/activity"
	"github.com/avesguide/academy_api/dto"
	"github.com/avesguide/academy_api/shared"
)

// stubClient simulates the content service: completing a lesson flips its
// progress row in the snapshot the next GetCourse returns.
type stubClient struct {
	mu sync.Mutex

	course *dto.CourseResponse

	// When set, CompleteLesson signals completeStarted and parks on
	// completeGate before touching state.
	completeGate    chan struct{}
	completeStarted chan struct{}

	completeErr       error
	getCalls          int
	completeCalls     int
	attemptCalls      int
	activityCompletes []string
}

func (c *stubClient) GetCourse(ctx context.Context, courseID string) (*dto.CourseResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.getCalls++
	clone, err := cloneCourse(c.course)
	if err != nil {
		return nil, err
	}
	return clone, nil
}

func (c *stubClient) RecordAttempt(ctx context.Context, activityID string, correct bool, points int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attemptCalls++
	return nil
}

func (c *stubClient) CompleteActivity(ctx context.Context, activityID string, response activity.Response) (*dto.CompleteActivityResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activityCompletes = append(c.activityCompletes, activityID)
	c.course.CompletedActivities = append(c.course.CompletedActivities, activityID)
	return &dto.CompleteActivityResponse{Correct: true}, nil
}

func (c *stubClient) CompleteLesson(ctx context.Context, lessonID string) error {
	if c.completeStarted != nil {
		close(c.completeStarted)
	}
	if c.completeGate != nil {
		<-c.completeGate
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.completeCalls++
	if c.completeErr != nil {
		return c.completeErr
	}
	if c.course.Enrollment.LessonProgress == nil {
		c.course.Enrollment.LessonProgress = map[string]dto.LessonProgressResponse{}
	}
	c.course.Enrollment.LessonProgress[lessonID] = dto.LessonProgressResponse{Status: shared.ProgressStatusCompleted}
	return nil
}

func cloneCourse(course *dto.CourseResponse) (*dto.CourseResponse, error) {
	raw, err := json.Marshal(course)
	if err != nil {
		return nil, err
	}
	var clone dto.CourseResponse
	if err := json.Unmarshal(raw, &clone); err != nil {
		return nil, err
	}
	return &clone, nil
}

func threeSimpleLessons() *dto.CourseResponse {
	return &dto.CourseResponse{
		ID: "course-1",
		Lessons: []dto.LessonResponse{
			{ID: "lesson-a", Title: "A"},
			{ID: "lesson-b", Title: "B"},
			{ID: "lesson-c", Title: "C"},
		},
		Enrollment: dto.EnrollmentResponse{LessonProgress: map[string]dto.LessonProgressResponse{}},
	}
}

func TestLessonStatus_LockingLadder(t *testing.T) {
	course := threeSimpleLessons()

	assert.Equal(t, []string{
		shared.LessonStatusUnlocked,
		shared.LessonStatusLocked,
		shared.LessonStatusLocked,
	}, LessonStatuses(course))

	course.Enrollment.LessonProgress["lesson-a"] = dto.LessonProgressResponse{Status: shared.ProgressStatusCompleted}
	assert.Equal(t, []string{
		shared.LessonStatusCompleted,
		shared.LessonStatusUnlocked,
		shared.LessonStatusLocked,
	}, LessonStatuses(course))

	course.Enrollment.LessonProgress["lesson-b"] = dto.LessonProgressResponse{Status: shared.ProgressStatusCompleted}
	assert.Equal(t, []string{
		shared.LessonStatusCompleted,
		shared.LessonStatusCompleted,
		shared.LessonStatusUnlocked,
	}, LessonStatuses(course))
}

func TestLessonStatus_InProgress(t *testing.T) {
	course := &dto.CourseResponse{
		ID: "course-1",
		Lessons: []dto.LessonResponse{
			{ID: "lesson-a", Activities: []dto.ActivityResponse{{ID: "act-1"}, {ID: "act-2"}}},
		},
		Enrollment:          dto.EnrollmentResponse{LessonProgress: map[string]dto.LessonProgressResponse{}},
		CompletedActivities: []string{"act-1"},
	}
	assert.Equal(t, shared.LessonStatusInProgress, LessonStatus(course, 0))
}

func TestAdvance_CompletesAndMovesOn(t *testing.T) {
	client := &stubClient{course: threeSimpleLessons()}
	ctrl := NewController(client)
	require.NoError(t, ctrl.Load(context.Background(), "course-1"))
	require.Equal(t, 0, ctrl.ActiveLesson())

	outcome, err := ctrl.Advance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeAdvanced, outcome)
	assert.Equal(t, 1, ctrl.ActiveLesson())
	assert.Equal(t, 1, client.completeCalls)

	// The reload carried the authoritative progress back in.
	assert.Equal(t, shared.LessonStatusCompleted, LessonStatus(ctrl.Course(), 0))
}

// An already-completed lesson skips the remote call: remote completion is
// not guaranteed idempotent.
func TestAdvance_IdempotentOnCompletedLesson(t *testing.T) {
	course := threeSimpleLessons()
	course.Enrollment.LessonProgress["lesson-a"] = dto.LessonProgressResponse{Status: shared.ProgressStatusCompleted}
	client := &stubClient{course: course}

	ctrl := NewController(client)
	require.NoError(t, ctrl.Load(context.Background(), "course-1"))
	// Walk back to the completed lesson and advance over it.
	require.NoError(t, ctrl.SelectLesson(context.Background(), 0))

	outcome, err := ctrl.Advance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeAdvanced, outcome)
	assert.Equal(t, 0, client.completeCalls)

	require.NoError(t, ctrl.SelectLesson(context.Background(), 0))
	_, err = ctrl.Advance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, client.completeCalls)
}

func TestAdvance_BlockedOnIncompleteActivities(t *testing.T) {
	client := &stubClient{
		course:      threeSimpleLessons(),
		completeErr: shared.ActivitiesIncompleteError([]string{"act-9"}),
	}
	ctrl := NewController(client)
	require.NoError(t, ctrl.Load(context.Background(), "course-1"))

	outcome, err := ctrl.Advance(context.Background())
	assert.Equal(t, OutcomeBlocked, outcome)
	assert.ErrorIs(t, err, shared.ErrActivitiesIncomplete)
	// No navigation, no state corruption: retry stays possible.
	assert.Equal(t, 0, ctrl.ActiveLesson())

	client.mu.Lock()
	client.completeErr = nil
	client.mu.Unlock()

	outcome, err = ctrl.Advance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeAdvanced, outcome)
}

func TestAdvance_GenericFailure(t *testing.T) {
	client := &stubClient{
		course:      threeSimpleLessons(),
		completeErr: errors.New("upstream timeout"),
	}
	ctrl := NewController(client)
	require.NoError(t, ctrl.Load(context.Background(), "course-1"))

	outcome, err := ctrl.Advance(context.Background())
	assert.Equal(t, OutcomeRetry, outcome)
	assert.Error(t, err)
	assert.Equal(t, 0, ctrl.ActiveLesson())
}

// Only one completion may be outstanding at a time; the second Advance is
// rejected without touching the remote at all.
func TestAdvance_SecondCallRejectedWhileOutstanding(t *testing.T) {
	client := &stubClient{
		course:          threeSimpleLessons(),
		completeGate:    make(chan struct{}),
		completeStarted: make(chan struct{}),
	}
	ctrl := NewController(client)
	require.NoError(t, ctrl.Load(context.Background(), "course-1"))

	type advanceResult struct {
		outcome Outcome
		err     error
	}
	firstDone := make(chan advanceResult, 1)
	go func() {
		outcome, err := ctrl.Advance(context.Background())
		firstDone <- advanceResult{outcome, err}
	}()

	// First Advance is parked inside CompleteLesson.
	<-client.completeStarted

	outcome, err := ctrl.Advance(context.Background())
	assert.Equal(t, OutcomeRetry, outcome)
	assert.ErrorIs(t, err, ErrAdvanceInFlight)

	close(client.completeGate)
	first := <-firstDone
	require.NoError(t, first.err)
	assert.Equal(t, OutcomeAdvanced, first.outcome)

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Equal(t, 1, client.completeCalls)
}

func TestAdvance_CourseFinished(t *testing.T) {
	course := threeSimpleLessons()
	course.Enrollment.LessonProgress["lesson-a"] = dto.LessonProgressResponse{Status: shared.ProgressStatusCompleted}
	course.Enrollment.LessonProgress["lesson-b"] = dto.LessonProgressResponse{Status: shared.ProgressStatusCompleted}
	client := &stubClient{course: course}

	ctrl := NewController(client)
	require.NoError(t, ctrl.Load(context.Background(), "course-1"))
	require.Equal(t, 2, ctrl.ActiveLesson())

	outcome, err := ctrl.Advance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeFinished, outcome)
	assert.Equal(t, 1, client.completeCalls)
}

func TestSelectLesson_LockedIsUnreachable(t *testing.T) {
	client := &stubClient{course: threeSimpleLessons()}
	ctrl := NewController(client)
	require.NoError(t, ctrl.Load(context.Background(), "course-1"))

	assert.ErrorIs(t, ctrl.SelectLesson(context.Background(), 2), ErrLessonLocked)
}

func TestSubmitActivity_PersistsAndRefreshes(t *testing.T) {
	course := threeSimpleLessons()
	course.Lessons[0].Activities = []dto.ActivityResponse{{
		ID:        "act-1",
		Type:      shared.ActivityTypeQuizMultiple,
		Payload:   json.RawMessage(`{"options":[{"id":"a","text":"no"},{"id":"b","text":"yes","isCorrect":true}]}`),
		MaxPoints: 10,
	}}
	client := &stubClient{course: course}
	ctrl := NewController(client)
	require.NoError(t, ctrl.Load(context.Background(), "course-1"))

	result, err := ctrl.SubmitActivity(context.Background(), activity.Response{OptionID: "b"})
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Equal(t, []string{"act-1"}, client.activityCompletes)
	assert.Contains(t, ctrl.Course().CompletedActivities, "act-1")
}
