package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/avesguide/academy_api/shared"
)

type MediaHandler struct {
	mediaSvc MediaServiceInterface
}

func NewMediaHandler(mediaSvc MediaServiceInterface) *MediaHandler {
	return &MediaHandler{
		mediaSvc: mediaSvc,
	}
}

// @Summary Upload Lesson Audio
// @Description Upload the narration audio for a lesson
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param lessonId path string true "Lesson ID"
// @Param audio formData file true "Audio file (MP3, WAV, AAC, M4A, OGG)"
// @Success 201 {object} shared.Response{data=dto.MediaUploadResponse}
// @Router /api/v1/admin/lessons/{lessonId}/audio [post]
func (h *MediaHandler) UploadLessonAudio(c *fiber.Ctx) error {
	lessonID := c.Params("lessonId")

	file, err := c.FormFile("audio")
	if err != nil {
		return shared.RequestValidationError("Audio file is required", nil)
	}

	resp, err := h.mediaSvc.UploadLessonAudio(lessonID, file)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Audio uploaded", resp)
}

// @Summary Get Lesson Audio Stream
// @Description Get a presigned URL for streaming the lesson narration
// @Tags media
// @Accept json
// @Produce json
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=dto.AudioStreamResponse}
// @Router /api/v1/lessons/{lessonId}/audio [get]
func (h *MediaHandler) GetAudioStream(c *fiber.Ctx) error {
	lessonID := c.Params("lessonId")

	resp, err := h.mediaSvc.GetAudioStreamURL(lessonID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Delete Lesson Audio
// @Description Remove the narration audio from a lesson
// @Tags media
// @Accept json
// @Produce json
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=string}
// @Router /api/v1/admin/lessons/{lessonId}/audio [delete]
func (h *MediaHandler) DeleteLessonAudio(c *fiber.Ctx) error {
	lessonID := c.Params("lessonId")

	if err := h.mediaSvc.DeleteLessonAudio(lessonID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Audio deleted", nil)
}
