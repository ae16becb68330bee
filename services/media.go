package services

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/avesguide/academy_api/dto"
	"github.com/avesguide/academy_api/services/repositories"
	"github.com/avesguide/academy_api/shared"
)

// audioStreamExpiry is how long a presigned narration URL stays valid.
// Long enough for a lesson replay, short enough to keep links private.
const audioStreamExpiry = 6 * time.Hour

// MediaService handles lesson narration audio: upload by authors, presigned
// streaming URLs for learners.
type MediaService struct {
	context.DefaultService
	minioSvc *MinIOService
	courses  *repositories.CourseRepository
	baseURL  string
}

const MEDIA_SVC = "media_svc"

func (svc MediaService) Id() string {
	return MEDIA_SVC
}

func (svc *MediaService) Configure(ctx *context.Context) error {
	svc.baseURL = os.Getenv("BASE_URL")
	if svc.baseURL == "" {
		svc.baseURL = "http://localhost:8000"
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *MediaService) Start() error {
	svc.minioSvc = svc.Service(MINIO_SVC).(*MinIOService)

	if os.Getenv("DB_DRIVER") == "sqlite" {
		svc.courses = repositories.NewCourseRepository(svc.Service(SQLITE_SVC).(*SqliteService).Db())
	} else {
		svc.courses = repositories.NewCourseRepository(svc.Service(POSTGRES_SVC).(*PostgresService).Db())
	}
	return nil
}

// ==================== UPLOAD ====================

// UploadLessonAudio stores a narration file and records its object path on
// the lesson.
func (svc *MediaService) UploadLessonAudio(lessonID string, file *multipart.FileHeader) (*dto.MediaUploadResponse, error) {
	if _, err := svc.courses.GetLesson(lessonID); err != nil {
		return nil, shared.NotFoundError("lesson not found")
	}

	if !svc.isValidAudioFile(file.Filename) {
		return nil, shared.RequestValidationError("Invalid audio file format. Supported: MP3, WAV, AAC, M4A, OGG", nil)
	}

	if file.Size > 20*1024*1024 {
		return nil, shared.RequestValidationError("Audio file too large. Maximum size: 20MB", nil)
	}

	ext := filepath.Ext(file.Filename)
	objectName := fmt.Sprintf("audio/%s_%d%s", lessonID, time.Now().Unix(), ext)

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	uploadInfo, err := svc.minioSvc.UploadFile(objectName, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	if err := svc.courses.UpdateLessonAudio(lessonID, objectName); err != nil {
		// Orphaned object; remove it so the bucket stays consistent.
		if delErr := svc.minioSvc.DeleteFile(objectName); delErr != nil {
			log.Printf("Failed to clean up orphaned audio %s: %v", objectName, delErr)
		}
		return nil, err
	}

	log.Printf("Uploaded lesson audio %s (%d bytes)", uploadInfo.Key, file.Size)

	return &dto.MediaUploadResponse{
		LessonID: lessonID,
		URL:      objectName,
		FileName: filepath.Base(objectName),
		FileType: "audio",
		FileSize: file.Size,
	}, nil
}

// ==================== STREAMING ====================

// GetAudioStreamURL resolves the lesson's narration into a presigned URL
// the client streams directly from the object store.
func (svc *MediaService) GetAudioStreamURL(lessonID string) (*dto.AudioStreamResponse, error) {
	lesson, err := svc.courses.GetLesson(lessonID)
	if err != nil {
		return nil, shared.NotFoundError("lesson not found")
	}

	if lesson.AudioURL == "" {
		return nil, shared.NotFoundError("lesson has no audio narration")
	}

	url, err := svc.minioSvc.GetFileURL(lesson.AudioURL, audioStreamExpiry)
	if err != nil {
		return nil, err
	}

	return &dto.AudioStreamResponse{
		LessonID:  lessonID,
		URL:       url,
		ExpiresIn: int(audioStreamExpiry.Seconds()),
	}, nil
}

func (svc *MediaService) DeleteLessonAudio(lessonID string) error {
	lesson, err := svc.courses.GetLesson(lessonID)
	if err != nil {
		return shared.NotFoundError("lesson not found")
	}
	if lesson.AudioURL == "" {
		return nil
	}

	if err := svc.minioSvc.DeleteFile(lesson.AudioURL); err != nil {
		log.Printf("Failed to delete audio object %s: %v", lesson.AudioURL, err)
	}
	return svc.courses.UpdateLessonAudio(lessonID, "")
}

// ==================== VALIDATION ====================

func (svc *MediaService) isValidAudioFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	validExts := []string{".mp3", ".wav", ".aac", ".m4a", ".ogg"}

	for _, validExt := range validExts {
		if ext == validExt {
			return true
		}
	}
	return false
}
