package stream

import (
	"fmt"
	"strconv"

	"github.com/devarajan8/veritas/internal/models"
)

// StreamMessage is one raw entry read from the Redis stream.
type StreamMessage struct {
	ID     string
	Fields map[string]string
}

// ParseSubmission validates and converts a stream message into a submission.
func ParseSubmission(msg *StreamMessage) (*models.Submission, error) {
	assignmentID := msg.Fields["assignmentId"]
	if assignmentID == "" {
		return nil, fmt.Errorf("message %s is missing assignmentId", msg.ID)
	}

	subject := msg.Fields["subject_name"]
	if subject == "" {
		return nil, fmt.Errorf("message %s is missing subject_name", msg.ID)
	}

	submission := &models.Submission{
		AssignmentID: assignmentID,
		Username:     msg.Fields["username"],
		Subject:      subject,
		FilePath:     msg.Fields["file_path"],
		OCRText:      msg.Fields["ocr_text"],
	}

	if raw, ok := msg.Fields["strict_ai_detection"]; ok && raw != "" {
		strict, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("message %s has invalid strict_ai_detection %q: %w", msg.ID, raw, err)
		}
		submission.StrictMode = strict
	}

	if submission.FilePath == "" && submission.OCRText == "" {
		return nil, fmt.Errorf("message %s has neither file_path nor ocr_text", msg.ID)
	}

	return submission, nil
}
