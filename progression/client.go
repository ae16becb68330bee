// progression/client.go
package progression

import (
	"context"

	"github.com/avesguide/academy_api/activity"
	"github.com/avesguide/academy_api/dto"
)

// ContentClient is the minimal contract the engine consumes from the content
// service. Implementations classify the "incomplete activities" rejection of
// CompleteLesson so that errors.Is(err, shared.ErrActivitiesIncomplete)
// holds; every other failure is treated as retryable by the caller.
type ContentClient interface {
	// GetCourse returns the full aggregate: ordered lessons with ordered
	// activities, the learner's enrollment and the completed-activity set.
	GetCourse(ctx context.Context, courseID string) (*dto.CourseResponse, error)

	// RecordAttempt persists one analytics-grade attempt. Best-effort:
	// callers swallow failures.
	RecordAttempt(ctx context.Context, activityID string, correct bool, points int) error

	// CompleteActivity persists a correct answer into the learner's
	// completed set. The service re-judges the response server-side.
	CompleteActivity(ctx context.Context, activityID string, response activity.Response) (*dto.CompleteActivityResponse, error)

	// CompleteLesson marks the lesson finished, or rejects with the
	// activities-incomplete error. Not guaranteed idempotent.
	CompleteLesson(ctx context.Context, lessonID string) error
}
