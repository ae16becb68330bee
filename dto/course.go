package dto

import "encoding/json"

// Course aggregate DTOs. GetCourse returns the full aggregate the engine
// works from: ordered lessons with ordered activities, the learner's
// enrollment, and the authoritative completed-activity set.

type ActivityResponse struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Order     int             `json:"order"`
	Prompt    string          `json:"prompt"`
	Payload   json.RawMessage `json:"payload"`
	MaxPoints int             `json:"max_points"`
	Badge     string          `json:"badge,omitempty"`
}

type LessonResponse struct {
	ID                string             `json:"id"`
	Slug              string             `json:"slug"`
	Title             string             `json:"title"`
	Order             int                `json:"order"`
	Body              string             `json:"body"`
	EstimatedDuration int                `json:"estimated_duration"`
	AudioURL          string             `json:"audio_url,omitempty"`
	Activities        []ActivityResponse `json:"activities"`
}

type LessonProgressResponse struct {
	Status      string `json:"status"`
	CompletedAt string `json:"completed_at,omitempty"`
}

type EnrollmentResponse struct {
	ProgressPercentage int                               `json:"progress_percentage"`
	Points             int                               `json:"points"`
	LessonProgress     map[string]LessonProgressResponse `json:"lesson_progress"`
}

type CourseResponse struct {
	ID                  string             `json:"id"`
	Slug                string             `json:"slug"`
	Title               string             `json:"title"`
	Description         string             `json:"description"`
	Lessons             []LessonResponse   `json:"lessons"`
	Enrollment          EnrollmentResponse `json:"enrollment"`
	CompletedActivities []string           `json:"completed_activities"`
}

type CourseListItemResponse struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CoverURL    string `json:"cover_url,omitempty"`
	LessonCount int    `json:"lesson_count"`
}

type CourseCollectionResponse struct {
	Courses []CourseListItemResponse `json:"courses"`
	Total   int                      `json:"total"`
}

// Attempt recording (analytics-grade, best-effort)
type RecordAttemptRequest struct {
	ActivityID string `json:"activity_id" validate:"required"`
	Correct    bool   `json:"correct"`
	Points     int    `json:"points" validate:"min=0"`
}

// Activity completion: the server re-judges the learner response with the
// same activity package the client uses, then persists the completion.
type CompleteActivityRequest struct {
	ActivityID string          `json:"activity_id" validate:"required"`
	Response   json.RawMessage `json:"response" validate:"required"`
}

type CompleteActivityResponse struct {
	Correct      bool     `json:"correct"`
	Points       int      `json:"points"`
	Badge        string   `json:"badge,omitempty"`
	TotalPoints  int      `json:"total_points"`
	EarnedBadges []string `json:"earned_badges,omitempty"`
}

type CompleteLessonRequest struct {
	LessonID string `json:"lesson_id" validate:"required"`
}

type CompleteLessonResponse struct {
	LessonID           string `json:"lesson_id"`
	Status             string `json:"status"`
	ProgressPercentage int    `json:"progress_percentage"`
}

// Admin authoring DTOs
type CreateCourseRequest struct {
	Slug        string `json:"slug" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	CoverURL    string `json:"cover_url"`
}

type CreateLessonRequest struct {
	CourseID          string                  `json:"course_id" validate:"required"`
	Slug              string                  `json:"slug" validate:"required"`
	Title             string                  `json:"title" validate:"required"`
	Order             int                     `json:"order" validate:"min=0"`
	Body              string                  `json:"body"`
	EstimatedDuration int                     `json:"estimated_duration"`
	Activities        []CreateActivityRequest `json:"activities"`
}

type CreateActivityRequest struct {
	ID        string          `json:"id"`
	Type      string          `json:"type" validate:"required,oneof=quiz_multiple quiz_true_false drag_drop matching"`
	Order     int             `json:"order"`
	Prompt    string          `json:"prompt"`
	Payload   json.RawMessage `json:"payload" validate:"required"`
	MaxPoints int             `json:"max_points" validate:"min=0"`
	Badge     string          `json:"badge"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors"`
}

func (r RecordAttemptRequest) Validate() error    { return GetValidator().Struct(r) }
func (r CompleteActivityRequest) Validate() error { return GetValidator().Struct(r) }
func (r CompleteLessonRequest) Validate() error   { return GetValidator().Struct(r) }
func (r CreateCourseRequest) Validate() error     { return GetValidator().Struct(r) }

func (r CreateLessonRequest) Validate() error {
	if err := GetValidator().Struct(r); err != nil {
		return err
	}
	for _, act := range r.Activities {
		if err := GetValidator().Struct(act); err != nil {
			return err
		}
	}
	return nil
}
