package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avesguide/academy_api/dto"
	"github.com/avesguide/academy_api/model"
	"github.com/avesguide/academy_api/shared"
)

type stubCourseService struct {
	course       *dto.CourseResponse
	completeResp *dto.CompleteActivityResponse
	lessonResp   *dto.CompleteLessonResponse
	err          error

	attempts []dto.RecordAttemptRequest
	lastUser string
}

func (s *stubCourseService) GetCourses() (*dto.CourseCollectionResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.CourseCollectionResponse{Total: 0}, nil
}

func (s *stubCourseService) GetCourse(_ context.Context, userID, courseID string) (*dto.CourseResponse, error) {
	s.lastUser = userID
	if s.err != nil {
		return nil, s.err
	}
	return s.course, nil
}

func (s *stubCourseService) RecordAttempt(userID string, req dto.RecordAttemptRequest) error {
	s.lastUser = userID
	s.attempts = append(s.attempts, req)
	return s.err
}

func (s *stubCourseService) CompleteActivity(_ context.Context, userID string, req dto.CompleteActivityRequest) (*dto.CompleteActivityResponse, error) {
	s.lastUser = userID
	if s.err != nil {
		return nil, s.err
	}
	return s.completeResp, nil
}

func (s *stubCourseService) CompleteLesson(_ context.Context, userID, lessonID string) (*dto.CompleteLessonResponse, error) {
	s.lastUser = userID
	if s.err != nil {
		return nil, s.err
	}
	return s.lessonResp, nil
}

func (s *stubCourseService) CreateCourse(req dto.CreateCourseRequest) (*model.Course, error) {
	return &model.Course{Slug: req.Slug, Title: req.Title}, s.err
}

func (s *stubCourseService) CreateLesson(req dto.CreateLessonRequest) (*model.Lesson, error) {
	return nil, s.err
}

func newTestApp(svc CourseServiceInterface) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if appErr, ok := shared.GetAppError(err); ok {
				return c.Status(appErr.StatusCode).JSON(appErr)
			}
			return shared.ResponseInternalError(c, err)
		},
	})

	withUser := func(c *fiber.Ctx) error {
		userID := c.Get(shared.UserIDHeader)
		if userID == "" {
			return shared.NewAppError(http.StatusUnauthorized, "missing_user", "missing identity header")
		}
		c.Locals(shared.UserID, userID)
		return c.Next()
	}

	h := NewCourseHandler(svc)
	app.Get("/api/v1/courses/:courseId", withUser, h.GetCourse)
	app.Post("/api/v1/attempts", withUser, h.RecordAttempt)
	app.Post("/api/v1/activities/complete", withUser, h.CompleteActivity)
	app.Post("/api/v1/lessons/:lessonId/complete", withUser, h.CompleteLesson)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(shared.UserIDHeader, "user-1")

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return resp, parsed
}

func TestGetCourse_ResolvesCallerIdentity(t *testing.T) {
	svc := &stubCourseService{course: &dto.CourseResponse{ID: "course-1", Title: "Birds"}}
	app := newTestApp(svc)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/courses/course-1", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "user-1", svc.lastUser)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "course-1", data["id"])
}

func TestGetCourse_MissingIdentityHeader(t *testing.T) {
	app := newTestApp(&stubCourseService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courses/course-1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRecordAttempt_Validates(t *testing.T) {
	svc := &stubCourseService{}
	app := newTestApp(svc)

	// Missing activity_id fails validation before reaching the service.
	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/attempts", map[string]interface{}{
		"correct": true,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, svc.attempts)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/attempts", dto.RecordAttemptRequest{
		ActivityID: "act-1",
		Correct:    true,
		Points:     10,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, svc.attempts, 1)
	assert.Equal(t, "act-1", svc.attempts[0].ActivityID)
}

func TestCompleteLesson_IncompleteActivitiesConflict(t *testing.T) {
	svc := &stubCourseService{err: shared.ActivitiesIncompleteError([]string{"act-2", "act-3"})}
	app := newTestApp(svc)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/lessons/lesson-1/complete", nil)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, shared.CodeActivitiesIncomplete, body["code"])

	missing := body["data"].([]interface{})
	assert.Len(t, missing, 2)
}

func TestCompleteLesson_Success(t *testing.T) {
	svc := &stubCourseService{lessonResp: &dto.CompleteLessonResponse{
		LessonID:           "lesson-1",
		Status:             shared.ProgressStatusCompleted,
		ProgressPercentage: 25,
	}}
	app := newTestApp(svc)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/lessons/lesson-1/complete", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, shared.ProgressStatusCompleted, data["status"])
}

func TestCompleteActivity_ServiceFailure(t *testing.T) {
	svc := &stubCourseService{err: errors.New("boom")}
	app := newTestApp(svc)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/activities/complete", dto.CompleteActivityRequest{
		ActivityID: "act-1",
		Response:   json.RawMessage(`{"option_id":"opt-1"}`),
	})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
