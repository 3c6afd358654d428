package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/devarajan8/veritas/internal/analysis"
	"github.com/devarajan8/veritas/internal/config"
	"github.com/devarajan8/veritas/internal/infra/redis"
	"github.com/devarajan8/veritas/internal/ingest"
	"github.com/devarajan8/veritas/internal/models"
	"github.com/devarajan8/veritas/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler holds dependencies for handlers
type Handler struct {
	cfg             *config.Config
	ingestSvc       *ingest.Service
	resultsRepo     *repository.ResultsRepository
	redisClient     *redis.Client
	analysisSem     chan struct{} // Semaphore for bounded concurrency
	analysisTimeout time.Duration
}

// NewHandler creates a new handler
func NewHandler(
	cfg *config.Config,
	ingestSvc *ingest.Service,
	resultsRepo *repository.ResultsRepository,
	redisClient *redis.Client,
) *Handler {
	sem := make(chan struct{}, cfg.MaxConcurrentAnalyses)

	return &Handler{
		cfg:             cfg,
		ingestSvc:       ingestSvc,
		resultsRepo:     resultsRepo,
		redisClient:     redisClient,
		analysisSem:     sem,
		analysisTimeout: cfg.AnalysisTimeout,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// Analyze accepts a submission and runs the analysis asynchronously.
func (h *Handler) Analyze(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	if err := validateAnalyzePayload(req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_SUBMISSION",
		})
		return
	}

	ctx := c.Request.Context()

	// Acquire semaphore (bounded concurrency)
	select {
	case h.analysisSem <- struct{}{}:
	case <-ctx.Done():
		c.JSON(http.StatusRequestTimeout, models.ErrorResponse{
			Error: "Request cancelled",
			Code:  "REQUEST_TIMEOUT",
		})
		return
	}

	if err := analysis.UpdateStatus(ctx, h.redisClient, req.AssignmentID, models.StepReceived); err != nil {
		log.Warn().Err(err).Str("assignmentId", req.AssignmentID).Msg("Failed to update received status")
	}

	// Return 202 Accepted immediately
	c.JSON(http.StatusAccepted, models.AnalyzeResponse{
		Step:         models.StepReceived,
		AssignmentID: req.AssignmentID,
	})

	submission := &models.Submission{
		AssignmentID: req.AssignmentID,
		Username:     req.Username,
		Subject:      req.Subject,
		FilePath:     req.FilePath,
		OCRText:      req.OCRText,
		StrictMode:   req.StrictMode,
	}

	// Process asynchronously
	go h.processSubmission(submission)
}

// processSubmission runs the ingest flow off the request goroutine.
func (h *Handler) processSubmission(submission *models.Submission) {
	defer func() { <-h.analysisSem }() // Release semaphore

	ctx, cancel := context.WithTimeout(context.Background(), h.analysisTimeout)
	defer cancel()

	if _, err := h.ingestSvc.ProcessSubmission(ctx, submission); err != nil {
		log.Error().Err(err).
			Str("assignmentId", submission.AssignmentID).
			Msg("Analysis failed")
		return
	}

	log.Debug().Str("assignmentId", submission.AssignmentID).Msg("Analysis completed successfully")
}

// GetResult returns the latest stored result for an assignment. While an
// analysis is still in flight it reports the current step instead.
func (h *Handler) GetResult(c *gin.Context) {
	assignmentID := c.Param("assignmentId")
	if assignmentID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "assignmentId is required",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	ctx := c.Request.Context()

	result, err := h.resultsRepo.GetLatestResultByAssignmentID(ctx, assignmentID)
	if err != nil {
		log.Error().Err(err).Str("assignmentId", assignmentID).Msg("Failed to get analysis result")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to fetch analysis result",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	if result != nil {
		c.JSON(http.StatusOK, result)
		return
	}

	step, err := analysis.GetStatus(ctx, h.redisClient, assignmentID)
	if err != nil {
		log.Warn().Err(err).Str("assignmentId", assignmentID).Msg("Failed to read analysis status")
	}

	if step != models.StepIdle {
		c.JSON(http.StatusAccepted, models.AnalyzeResponse{
			Step:         step,
			AssignmentID: assignmentID,
		})
		return
	}

	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error: "No analysis found for assignmentId",
		Code:  "ASSIGNMENT_NOT_FOUND",
	})
}

// GetStatus returns the current pipeline step for an assignment.
func (h *Handler) GetStatus(c *gin.Context) {
	assignmentID := c.Param("assignmentId")
	if assignmentID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "assignmentId is required",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	step, err := analysis.GetStatus(c.Request.Context(), h.redisClient, assignmentID)
	if err != nil {
		log.Error().Err(err).Str("assignmentId", assignmentID).Msg("Failed to read analysis status")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to read analysis status",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, models.AnalyzeResponse{
		Step:         step,
		AssignmentID: assignmentID,
	})
}

func validateAnalyzePayload(req models.AnalyzeRequest) error {
	if req.AssignmentID == "" {
		return fmt.Errorf("assignmentId is required")
	}

	if strings.TrimSpace(req.Subject) == "" {
		return fmt.Errorf("subject_name is required")
	}

	if req.FilePath == "" && strings.TrimSpace(req.OCRText) == "" {
		return fmt.Errorf("either filePath or ocrText is required")
	}

	return nil
}
