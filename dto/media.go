package dto

// Media Upload DTOs
type MediaUploadResponse struct {
	LessonID string `json:"lesson_id"`
	URL      string `json:"url"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`
}

type AudioStreamResponse struct {
	LessonID  string `json:"lesson_id"`
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"` // seconds
}
