package handlers

import (
	"context"
	"mime/multipart"

	"github.com/avesguide/academy_api/dto"
	"github.com/avesguide/academy_api/model"
)

type CourseServiceInterface interface {
	GetCourses() (*dto.CourseCollectionResponse, error)
	GetCourse(ctx context.Context, userID, courseID string) (*dto.CourseResponse, error)
	RecordAttempt(userID string, req dto.RecordAttemptRequest) error
	CompleteActivity(ctx context.Context, userID string, req dto.CompleteActivityRequest) (*dto.CompleteActivityResponse, error)
	CompleteLesson(ctx context.Context, userID, lessonID string) (*dto.CompleteLessonResponse, error)
	CreateCourse(req dto.CreateCourseRequest) (*model.Course, error)
	CreateLesson(req dto.CreateLessonRequest) (*model.Lesson, error)
}

type MediaServiceInterface interface {
	UploadLessonAudio(lessonID string, file *multipart.FileHeader) (*dto.MediaUploadResponse, error)
	GetAudioStreamURL(lessonID string) (*dto.AudioStreamResponse, error)
	DeleteLessonAudio(lessonID string) error
}
