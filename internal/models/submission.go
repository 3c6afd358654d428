package models

// Submission represents a document submission consumed from the Redis stream
type Submission struct {
	AssignmentID string `json:"assignmentId"`
	Username     string `json:"username"`
	Subject      string `json:"subject_name"`
	FilePath     string `json:"filePath"`
	OCRText      string `json:"ocrText,omitempty"`
	StrictMode   bool   `json:"strict_ai_detection"`
}

// AnalyzeRequest is the request body for the analyze endpoint
type AnalyzeRequest struct {
	AssignmentID string `json:"assignmentId" binding:"required"`
	Username     string `json:"username"`
	Subject      string `json:"subject_name" binding:"required"`
	FilePath     string `json:"filePath"`
	OCRText      string `json:"ocrText"`
	StrictMode   bool   `json:"strict_ai_detection"`
}

// AnalyzeResponse is the response from the analyze endpoint
type AnalyzeResponse struct {
	Step         Step   `json:"step"`
	AssignmentID string `json:"assignmentId"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
