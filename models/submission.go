package models

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// TaskSubmission records one file handed in against a task. Many submissions
// may exist per task.
type TaskSubmission struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"taskId"`
	FileName    string    `json:"fileName"`
	FileURL     string    `json:"fileUrl"`
	FileSize    int64     `json:"fileSize"`
	SubmittedBy string    `json:"submittedBy"`
	SubmittedAt time.Time `json:"submittedAt"`
	IsCompleted bool      `json:"isCompleted"`
}

// FormattedFileSize renders FileSize as a human readable string.
func (s *TaskSubmission) FormattedFileSize() string {
	sizes := []string{"B", "KB", "MB", "GB"}
	order := 0
	length := float64(s.FileSize)
	for length >= 1024 && order < len(sizes)-1 {
		order++
		length /= 1024
	}
	return fmt.Sprintf("%.2f %s", length, sizes[order])
}

func (s *TaskSubmission) FileExtension() string {
	return strings.ToLower(filepath.Ext(s.FileName))
}

func (s *TaskSubmission) IsImageFile() bool {
	switch s.FileExtension() {
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp":
		return true
	}
	return false
}

func (s *TaskSubmission) IsDocumentFile() bool {
	switch s.FileExtension() {
	case ".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx":
		return true
	}
	return false
}
