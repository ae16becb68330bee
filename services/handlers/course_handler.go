package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/avesguide/academy_api/dto"
	"github.com/avesguide/academy_api/shared"
)

type CourseHandler struct {
	courseSvc CourseServiceInterface
}

func NewCourseHandler(courseSvc CourseServiceInterface) *CourseHandler {
	return &CourseHandler{
		courseSvc: courseSvc,
	}
}

// @Summary List Courses
// @Description Get the course catalog with lesson counts
// @Tags courses
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=dto.CourseCollectionResponse}
// @Router /api/v1/courses [get]
func (h *CourseHandler) GetCourses(c *fiber.Ctx) error {
	courses, err := h.courseSvc.GetCourses()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", courses)
}

// @Summary Get Course
// @Description Get the full course aggregate: ordered lessons with activities, the caller's enrollment and completed activities
// @Tags courses
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID or slug"
// @Success 200 {object} shared.Response{data=dto.CourseResponse}
// @Router /api/v1/courses/{courseId} [get]
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	courseID := c.Params("courseId")

	course, err := h.courseSvc.GetCourse(c.Context(), userID, courseID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", course)
}

// @Summary Record Attempt
// @Description Record one judged activity attempt (best-effort analytics)
// @Tags progression
// @Accept json
// @Produce json
// @Param attemptRequest body dto.RecordAttemptRequest true "Attempt details"
// @Success 201 {object} shared.Response{data=string}
// @Router /api/v1/attempts [post]
func (h *CourseHandler) RecordAttempt(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.RecordAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	if err := h.courseSvc.RecordAttempt(userID, req); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Attempt recorded", nil)
}

// @Summary Complete Activity
// @Description Re-judge the learner response server-side and persist the completion when correct
// @Tags progression
// @Accept json
// @Produce json
// @Param completeRequest body dto.CompleteActivityRequest true "Activity response"
// @Success 200 {object} shared.Response{data=dto.CompleteActivityResponse}
// @Router /api/v1/activities/complete [post]
func (h *CourseHandler) CompleteActivity(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.CompleteActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.courseSvc.CompleteActivity(c.Context(), userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Complete Lesson
// @Description Mark a lesson completed once all its activities are done. Returns 409 with the missing activity ids otherwise
// @Tags progression
// @Accept json
// @Produce json
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=dto.CompleteLessonResponse}
// @Failure 409 {object} shared.AppError
// @Router /api/v1/lessons/{lessonId}/complete [post]
func (h *CourseHandler) CompleteLesson(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	lessonID := c.Params("lessonId")

	resp, err := h.courseSvc.CompleteLesson(c.Context(), userID, lessonID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Lesson completed", resp)
}

// @Summary Create Course
// @Description Create a new course
// @Tags admin
// @Accept json
// @Produce json
// @Param courseRequest body dto.CreateCourseRequest true "Course details"
// @Success 201 {object} shared.Response{data=model.Course}
// @Router /api/v1/admin/courses [post]
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	var req dto.CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	course, err := h.courseSvc.CreateCourse(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Course created", course)
}

// @Summary Create Lesson
// @Description Create a lesson with its activities
// @Tags admin
// @Accept json
// @Produce json
// @Param lessonRequest body dto.CreateLessonRequest true "Lesson details"
// @Success 201 {object} shared.Response{data=model.Lesson}
// @Router /api/v1/admin/lessons [post]
func (h *CourseHandler) CreateLesson(c *fiber.Ctx) error {
	var req dto.CreateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	lesson, err := h.courseSvc.CreateLesson(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Lesson created", lesson)
}
