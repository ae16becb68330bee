package repositories

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avesguide/academy_api/model"
	"github.com/avesguide/academy_api/shared"
)

type CourseRepository struct {
	BaseRepository
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *CourseRepository) GetCourses() ([]model.Course, error) {
	var courses []model.Course
	if err := ds.db.Where("is_active = ?", true).Order("title").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// GetCourse loads the course with its lessons and activities in their
// declared order.
func (ds *CourseRepository) GetCourse(courseID string) (*model.Course, error) {
	var course model.Course
	err := ds.db.
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order(`"order"`)
		}).
		Preload("Lessons.Activities", func(db *gorm.DB) *gorm.DB {
			return db.Order(`"order"`)
		}).
		Where("id = ? OR slug = ?", courseID, courseID).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (ds *CourseRepository) GetLesson(lessonID string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := ds.db.
		Preload("Activities", func(db *gorm.DB) *gorm.DB {
			return db.Order(`"order"`)
		}).
		Where("id = ?", lessonID).
		First(&lesson).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (ds *CourseRepository) GetActivity(activityID string) (*model.Activity, error) {
	var act model.Activity
	if err := ds.db.Where("id = ?", activityID).First(&act).Error; err != nil {
		return nil, err
	}
	return &act, nil
}

func (ds *CourseRepository) GetLessonCount(courseID string) (int64, error) {
	var count int64
	err := ds.db.Model(&model.Lesson{}).
		Where("course_id = ? AND is_active = ?", courseID, true).
		Count(&count).Error
	return count, err
}

func (ds *CourseRepository) CreateCourse(course *model.Course) (*model.Course, error) {
	if course.ID == "" {
		id, _ := uuid.NewV7()
		course.ID = id.String()
	}
	course.CreatedAt = time.Now()
	if err := ds.db.Create(course).Error; err != nil {
		return nil, err
	}
	return course, nil
}

func (ds *CourseRepository) CreateLesson(lesson *model.Lesson) (*model.Lesson, error) {
	if lesson.ID == "" {
		id, _ := uuid.NewV7()
		lesson.ID = id.String()
	}
	lesson.CreatedAt = time.Now()
	if err := ds.db.Create(lesson).Error; err != nil {
		return nil, err
	}
	return lesson, nil
}

func (ds *CourseRepository) CreateActivity(act *model.Activity) (*model.Activity, error) {
	if act.ID == "" {
		id, _ := uuid.NewV7()
		act.ID = id.String()
	}
	act.CreatedAt = time.Now()
	if err := ds.db.Create(act).Error; err != nil {
		return nil, err
	}
	return act, nil
}

func (ds *CourseRepository) UpdateLessonAudio(lessonID, audioURL string) error {
	return ds.db.Model(&model.Lesson{}).
		Where("id = ?", lessonID).
		Update("audio_url", audioURL).Error
}

// GetOrCreateEnrollment returns the learner's enrollment for the course,
// creating an empty one on first access.
func (ds *CourseRepository) GetOrCreateEnrollment(userID, courseID string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := ds.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if err == nil {
		return &enrollment, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	id, _ := uuid.NewV7()
	enrollment = model.Enrollment{
		ID:                id.String(),
		UserID:            userID,
		CourseID:          courseID,
		CompletedActivity: json.RawMessage("[]"),
		CreatedAt:         time.Now(),
	}
	if err := ds.db.Create(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (ds *CourseRepository) UpdateEnrollment(enrollment *model.Enrollment) error {
	enrollment.UpdatedAt = time.Now()
	return ds.db.Save(enrollment).Error
}

func (ds *CourseRepository) GetLessonProgress(enrollmentID string) ([]model.LessonProgress, error) {
	var rows []model.LessonProgress
	if err := ds.db.Where("enrollment_id = ?", enrollmentID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkLessonCompleted upserts the (enrollment, lesson) progress row with
// the completed wire status.
func (ds *CourseRepository) MarkLessonCompleted(enrollmentID, lessonID string) error {
	now := time.Now()
	var row model.LessonProgress
	err := ds.db.Where("enrollment_id = ? AND lesson_id = ?", enrollmentID, lessonID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		id, _ := uuid.NewV7()
		row = model.LessonProgress{
			ID:           id.String(),
			EnrollmentID: enrollmentID,
			LessonID:     lessonID,
			Status:       shared.ProgressStatusCompleted,
			CompletedAt:  &now,
			CreatedAt:    now,
		}
		return ds.db.Create(&row).Error
	}
	if err != nil {
		return err
	}

	row.Status = shared.ProgressStatusCompleted
	row.CompletedAt = &now
	row.UpdatedAt = now
	return ds.db.Save(&row).Error
}

func (ds *CourseRepository) CreateAttempt(attempt *model.ActivityAttempt) error {
	id, _ := uuid.NewV7()
	attempt.ID = id.String()
	attempt.CreatedAt = time.Now()
	return ds.db.Create(attempt).Error
}
