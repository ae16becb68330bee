package shared

const (
	UserID = "user_id"

	// UserIDHeader carries the learner identity resolved by the edge
	// gateway. Auth itself happens upstream of this service.
	UserIDHeader = "X-User-ID"

	ActivityTypeQuizMultiple  = "quiz_multiple"
	ActivityTypeQuizTrueFalse = "quiz_true_false"
	ActivityTypeDragDrop      = "drag_drop"
	ActivityTypeMatching      = "matching"

	LessonStatusLocked     = "locked"
	LessonStatusUnlocked   = "unlocked"
	LessonStatusInProgress = "in_progress"
	LessonStatusCompleted  = "completed"

	// Wire value the content service stores for a finished lesson. Kept in
	// Spanish for compatibility with existing enrollment rows.
	ProgressStatusCompleted  = "completada"
	ProgressStatusInProgress = "en_progreso"
)
