// model/content.go
package model

import (
	"encoding/json"
	"time"
)

// Course is the unit of enrollment: an ordered set of lessons belonging to
// the species-watching academy.
type Course struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;not null"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	CoverURL    string    `json:"cover_url"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationship
	Lessons []Lesson `json:"lessons" gorm:"foreignKey:CourseID"`
}

// Lesson is the unit of locking. Lessons without activities are "simple"
// and can be completed on first visit.
type Lesson struct {
	ID                string    `json:"id" gorm:"primaryKey"`
	CourseID          string    `json:"course_id" gorm:"not null;index"`
	Slug              string    `json:"slug" gorm:"not null"`
	Title             string    `json:"title" gorm:"not null"`
	Order             int       `json:"order" gorm:"not null"` // Lesson order within course
	Body              string    `json:"body" gorm:"type:text"`
	EstimatedDuration int       `json:"estimated_duration"` // in minutes
	AudioURL          string    `json:"audio_url"`
	IsActive          bool      `json:"is_active" gorm:"default:true"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Relationship
	Activities []Activity `json:"activities" gorm:"foreignKey:LessonID"`
}

// Activity is one gamified exercise inside a lesson. Payload carries the
// type-specific JSON document; historical rows use more than one shape per
// type, which the activity package normalizes.
type Activity struct {
	ID        string          `json:"id" gorm:"primaryKey"`
	LessonID  string          `json:"lesson_id" gorm:"not null;index"`
	Type      string          `json:"type" gorm:"not null"` // quiz_multiple, quiz_true_false, drag_drop, matching
	Order     int             `json:"order" gorm:"not null"`
	Prompt    string          `json:"prompt" gorm:"type:text"`
	Payload   json.RawMessage `json:"payload" gorm:"type:text"`
	MaxPoints int             `json:"max_points" gorm:"default:0"`
	Badge     string          `json:"badge"` // opaque display token, e.g. an emoji
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Enrollment is a learner's progress record against one course.
type Enrollment struct {
	ID                 string          `json:"id" gorm:"primaryKey"`
	UserID             string          `json:"user_id" gorm:"not null;index:idx_enrollment_user_course,unique"`
	CourseID           string          `json:"course_id" gorm:"not null;index:idx_enrollment_user_course,unique"`
	ProgressPercentage int             `json:"progress_percentage" gorm:"default:0"`
	Points             int             `json:"points" gorm:"default:0"`
	CompletedActivity  json.RawMessage `json:"completed_activity" gorm:"type:text"` // JSON array of activity ids
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// LessonProgress is one row per (enrollment, lesson). Status holds the wire
// value ("completada"); runtime lock state is always derived, never stored.
type LessonProgress struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	EnrollmentID string     `json:"enrollment_id" gorm:"not null;index:idx_progress_enrollment_lesson,unique"`
	LessonID     string     `json:"lesson_id" gorm:"not null;index:idx_progress_enrollment_lesson,unique"`
	Status       string     `json:"status" gorm:"not null"`
	CompletedAt  *time.Time `json:"completed_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ActivityAttempt is the analytics-grade record of one judged answer.
// Losing one must never block a learner, so writes are best-effort.
type ActivityAttempt struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"not null;index"`
	ActivityID string    `json:"activity_id" gorm:"not null;index"`
	Correct    bool      `json:"correct" gorm:"not null"`
	Points     int       `json:"points" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null"`
}
