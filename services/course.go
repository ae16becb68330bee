package services

import (
	gocontext "context"
	"errors"
	"os"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/avesguide/academy_api/activity"
	"github.com/avesguide/academy_api/dto"
	"github.com/avesguide/academy_api/model"
	"github.com/avesguide/academy_api/services/repositories"
	"github.com/avesguide/academy_api/shared"
)

// CourseService owns the server side of the learning flow: course
// aggregates, attempt recording, activity completion (with a server-side
// re-judge) and lesson completion gating.
type CourseService struct {
	context.DefaultService
	db       *gorm.DB
	courses  *repositories.CourseRepository
	redisSvc *RedisService
	monSvc   *MonitoringService
}

const COURSE_SVC = "course_svc"

func (svc CourseService) Id() string {
	return COURSE_SVC
}

func (svc *CourseService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *CourseService) Start() error {
	if os.Getenv("DB_DRIVER") == "sqlite" {
		svc.db = svc.Service(SQLITE_SVC).(*SqliteService).Db()
	} else {
		svc.db = svc.Service(POSTGRES_SVC).(*PostgresService).Db()
	}
	svc.courses = repositories.NewCourseRepository(svc.db)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.monSvc = svc.Service(MONITORING_SVC).(*MonitoringService)
	return nil
}

// ==================== COURSE CATALOG ====================

func (svc *CourseService) GetCourses() (*dto.CourseCollectionResponse, error) {
	courses, err := svc.courses.GetCourses()
	if err != nil {
		return nil, err
	}

	items := make([]dto.CourseListItemResponse, len(courses))
	for i, course := range courses {
		count, err := svc.courses.GetLessonCount(course.ID)
		if err != nil {
			return nil, err
		}
		items[i] = dto.CourseListItemResponse{
			ID:          course.ID,
			Slug:        course.Slug,
			Title:       course.Title,
			Description: course.Description,
			CoverURL:    course.CoverURL,
			LessonCount: int(count),
		}
	}

	return &dto.CourseCollectionResponse{Courses: items, Total: len(items)}, nil
}

// GetCourse assembles the aggregate the client engine runs from: ordered
// lessons with ordered activities, the learner's enrollment and the
// completed-activity set. The aggregate is cached per (course, user).
func (svc *CourseService) GetCourse(ctx gocontext.Context, userID, courseID string) (*dto.CourseResponse, error) {
	var cached dto.CourseResponse
	if svc.redisSvc.GetCachedCourse(ctx, userID, courseID, &cached) {
		return &cached, nil
	}

	course, err := svc.courses.GetCourse(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFoundError("course not found")
		}
		return nil, err
	}

	enrollment, err := svc.courses.GetOrCreateEnrollment(userID, course.ID)
	if err != nil {
		return nil, err
	}

	progress, err := svc.courses.GetLessonProgress(enrollment.ID)
	if err != nil {
		return nil, err
	}

	resp := svc.buildCourseResponse(course, enrollment, progress)

	if err := svc.redisSvc.CacheCourse(ctx, userID, course.ID, resp); err != nil {
		log.WithError(err).Warn("Failed to cache course aggregate")
	}
	return resp, nil
}

func (svc *CourseService) buildCourseResponse(course *model.Course, enrollment *model.Enrollment, progress []model.LessonProgress) *dto.CourseResponse {
	lessons := make([]dto.LessonResponse, len(course.Lessons))
	for i, lesson := range course.Lessons {
		activities := make([]dto.ActivityResponse, len(lesson.Activities))
		for j, act := range lesson.Activities {
			activities[j] = dto.ActivityResponse{
				ID:        act.ID,
				Type:      act.Type,
				Order:     act.Order,
				Prompt:    act.Prompt,
				Payload:   act.Payload,
				MaxPoints: act.MaxPoints,
				Badge:     act.Badge,
			}
		}
		lessons[i] = dto.LessonResponse{
			ID:                lesson.ID,
			Slug:              lesson.Slug,
			Title:             lesson.Title,
			Order:             lesson.Order,
			Body:              lesson.Body,
			EstimatedDuration: lesson.EstimatedDuration,
			AudioURL:          lesson.AudioURL,
			Activities:        activities,
		}
	}

	lessonProgress := make(map[string]dto.LessonProgressResponse, len(progress))
	for _, row := range progress {
		entry := dto.LessonProgressResponse{Status: row.Status}
		if row.CompletedAt != nil {
			entry.CompletedAt = row.CompletedAt.UTC().Format(time.RFC3339)
		}
		lessonProgress[row.LessonID] = entry
	}

	return &dto.CourseResponse{
		ID:          course.ID,
		Slug:        course.Slug,
		Title:       course.Title,
		Description: course.Description,
		Lessons:     lessons,
		Enrollment: dto.EnrollmentResponse{
			ProgressPercentage: enrollment.ProgressPercentage,
			Points:             enrollment.Points,
			LessonProgress:     lessonProgress,
		},
		CompletedActivities: decodeCompletedSet(enrollment),
	}
}

// ==================== ATTEMPTS ====================

// RecordAttempt persists one analytics-grade attempt row. Callers treat
// this as best-effort; a failed insert never blocks the learner.
func (svc *CourseService) RecordAttempt(userID string, req dto.RecordAttemptRequest) error {
	err := svc.courses.CreateAttempt(&model.ActivityAttempt{
		UserID:     userID,
		ActivityID: req.ActivityID,
		Correct:    req.Correct,
		Points:     req.Points,
	})
	if err != nil {
		return err
	}
	svc.monSvc.RecordAttempt(req.Correct)
	return nil
}

// ==================== ACTIVITY COMPLETION ====================

// CompleteActivity re-judges the learner response against the activity's
// normalized payload and, when correct, adds the activity to the learner's
// completed set. Re-completing an already completed activity is a no-op
// for points.
func (svc *CourseService) CompleteActivity(ctx gocontext.Context, userID string, req dto.CompleteActivityRequest) (*dto.CompleteActivityResponse, error) {
	act, err := svc.courses.GetActivity(req.ActivityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFoundError("activity not found")
		}
		return nil, err
	}

	var response activity.Response
	if err := shared.UnmarshalJSON(req.Response, &response); err != nil {
		return nil, shared.RequestValidationError("malformed activity response", nil)
	}

	payload := activity.Normalize(act.Type, act.Payload)
	correct := payload.Judge(response)

	lesson, err := svc.courses.GetLesson(act.LessonID)
	if err != nil {
		return nil, err
	}

	enrollment, err := svc.courses.GetOrCreateEnrollment(userID, lesson.CourseID)
	if err != nil {
		return nil, err
	}

	if !correct {
		return &dto.CompleteActivityResponse{
			Correct:      false,
			Points:       0,
			TotalPoints:  enrollment.Points,
			EarnedBadges: svc.earnedBadges(enrollment),
		}, nil
	}

	completed := decodeCompletedSet(enrollment)
	alreadyDone := false
	for _, id := range completed {
		if id == act.ID {
			alreadyDone = true
			break
		}
	}

	points := 0
	if !alreadyDone {
		completed = append(completed, act.ID)
		raw, err := shared.MarshalJSON(completed)
		if err != nil {
			return nil, err
		}
		enrollment.CompletedActivity = raw
		enrollment.Points += act.MaxPoints
		points = act.MaxPoints
		if err := svc.courses.UpdateEnrollment(enrollment); err != nil {
			return nil, err
		}
		if err := svc.redisSvc.InvalidateCourse(ctx, userID, lesson.CourseID); err != nil {
			log.WithError(err).Warn("Failed to invalidate course cache")
		}
	}

	return &dto.CompleteActivityResponse{
		Correct:      true,
		Points:       points,
		Badge:        act.Badge,
		TotalPoints:  enrollment.Points,
		EarnedBadges: svc.earnedBadges(enrollment),
	}, nil
}

// earnedBadges resolves the badges of every completed activity that
// carries one, in completion order.
func (svc *CourseService) earnedBadges(enrollment *model.Enrollment) []string {
	var badges []string
	for _, activityID := range decodeCompletedSet(enrollment) {
		act, err := svc.courses.GetActivity(activityID)
		if err != nil {
			continue
		}
		if act.Badge != "" {
			badges = append(badges, act.Badge)
		}
	}
	return badges
}

// ==================== LESSON COMPLETION ====================

// CompleteLesson marks the lesson finished once every one of its
// activities is in the learner's completed set. Simple lessons (no
// activities) pass the gate trivially. Rejections carry the ids of the
// missing activities so the client can surface them.
func (svc *CourseService) CompleteLesson(ctx gocontext.Context, userID, lessonID string) (*dto.CompleteLessonResponse, error) {
	lesson, err := svc.courses.GetLesson(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFoundError("lesson not found")
		}
		return nil, err
	}

	enrollment, err := svc.courses.GetOrCreateEnrollment(userID, lesson.CourseID)
	if err != nil {
		return nil, err
	}

	completed := make(map[string]bool)
	for _, id := range decodeCompletedSet(enrollment) {
		completed[id] = true
	}

	var missing []string
	for _, act := range lesson.Activities {
		if !completed[act.ID] {
			missing = append(missing, act.ID)
		}
	}
	if len(missing) > 0 {
		return nil, shared.ActivitiesIncompleteError(missing)
	}

	if err := svc.courses.MarkLessonCompleted(enrollment.ID, lesson.ID); err != nil {
		return nil, err
	}

	progressPct, err := svc.recomputeProgress(enrollment, lesson.CourseID)
	if err != nil {
		return nil, err
	}

	if err := svc.redisSvc.InvalidateCourse(ctx, userID, lesson.CourseID); err != nil {
		log.WithError(err).Warn("Failed to invalidate course cache")
	}
	svc.monSvc.RecordLessonCompleted()

	return &dto.CompleteLessonResponse{
		LessonID:           lesson.ID,
		Status:             shared.ProgressStatusCompleted,
		ProgressPercentage: progressPct,
	}, nil
}

func (svc *CourseService) recomputeProgress(enrollment *model.Enrollment, courseID string) (int, error) {
	total, err := svc.courses.GetLessonCount(courseID)
	if err != nil {
		return 0, err
	}

	progress, err := svc.courses.GetLessonProgress(enrollment.ID)
	if err != nil {
		return 0, err
	}

	completedLessons := 0
	for _, row := range progress {
		if row.Status == shared.ProgressStatusCompleted {
			completedLessons++
		}
	}

	pct := 100
	if total > 0 {
		pct = completedLessons * 100 / int(total)
	}
	enrollment.ProgressPercentage = pct
	if err := svc.courses.UpdateEnrollment(enrollment); err != nil {
		return 0, err
	}
	return pct, nil
}

// ==================== AUTHORING ====================

func (svc *CourseService) CreateCourse(req dto.CreateCourseRequest) (*model.Course, error) {
	return svc.courses.CreateCourse(&model.Course{
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		IsActive:    true,
	})
}

func (svc *CourseService) CreateLesson(req dto.CreateLessonRequest) (*model.Lesson, error) {
	lesson, err := svc.courses.CreateLesson(&model.Lesson{
		CourseID:          req.CourseID,
		Slug:              req.Slug,
		Title:             req.Title,
		Order:             req.Order,
		Body:              req.Body,
		EstimatedDuration: req.EstimatedDuration,
		IsActive:          true,
	})
	if err != nil {
		return nil, err
	}

	for _, actReq := range req.Activities {
		act, err := svc.courses.CreateActivity(&model.Activity{
			ID:        actReq.ID,
			LessonID:  lesson.ID,
			Type:      actReq.Type,
			Order:     actReq.Order,
			Prompt:    actReq.Prompt,
			Payload:   actReq.Payload,
			MaxPoints: actReq.MaxPoints,
			Badge:     actReq.Badge,
		})
		if err != nil {
			return nil, err
		}
		lesson.Activities = append(lesson.Activities, *act)
	}
	return lesson, nil
}

func decodeCompletedSet(enrollment *model.Enrollment) []string {
	completed := []string{}
	if len(enrollment.CompletedActivity) > 0 {
		if err := shared.UnmarshalJSON(enrollment.CompletedActivity, &completed); err != nil {
			log.WithError(err).Warn("Malformed completed activity set, treating as empty")
			completed = []string{}
		}
	}
	return completed
}
