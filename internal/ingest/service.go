package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/devarajan8/veritas/internal/analysis"
	"github.com/devarajan8/veritas/internal/infra/redis"
	"github.com/devarajan8/veritas/internal/models"
	"github.com/devarajan8/veritas/internal/ocr"
	"github.com/devarajan8/veritas/internal/reference"
	"github.com/devarajan8/veritas/internal/repository"
	"github.com/rs/zerolog/log"
)

// Service drives one submission through extraction, reference fetch,
// analysis, and persistence. It is shared by the HTTP handler and the
// stream consumer.
type Service struct {
	ocrClient     *ocr.Client
	refClient     *reference.Client
	resultsRepo   *repository.ResultsRepository
	redisClient   *redis.Client
	pool          *analysis.WorkerPool
	scorers       []analysis.ExternalScorer
	strictDefault bool
}

func NewService(
	ocrClient *ocr.Client,
	refClient *reference.Client,
	resultsRepo *repository.ResultsRepository,
	redisClient *redis.Client,
	pool *analysis.WorkerPool,
	scorers []analysis.ExternalScorer,
	strictDefault bool,
) *Service {
	return &Service{
		ocrClient:     ocrClient,
		refClient:     refClient,
		resultsRepo:   resultsRepo,
		redisClient:   redisClient,
		pool:          pool,
		scorers:       scorers,
		strictDefault: strictDefault,
	}
}

// ProcessSubmission runs the full flow for one submission and stores the
// outcome. The returned error marks the submission for retry; results are
// still persisted for terminal analysis errors like an empty subject.
func (s *Service) ProcessSubmission(ctx context.Context, submission *models.Submission) (*models.AnalysisResult, error) {
	s.updateStatus(ctx, submission.AssignmentID, models.StepReceived)

	text, err := s.resolveText(ctx, submission)
	if err != nil {
		s.updateStatus(ctx, submission.AssignmentID, models.StepFailed)
		return nil, fmt.Errorf("failed to resolve submission text: %w", err)
	}

	s.updateStatus(ctx, submission.AssignmentID, models.StepFetching)
	material := s.fetchMaterial(ctx, submission.Subject)

	s.updateStatus(ctx, submission.AssignmentID, models.StepAnalyzing)

	input := analysis.Input{
		AssignmentID: submission.AssignmentID,
		Text:         text,
		Subject:      submission.Subject,
		Scorers:      s.scorers,
	}
	if material != nil {
		input.ReferenceContent = material.Content
		input.Keywords = material.Keywords
	}

	cfg := analysis.NewAnalysisConfig(submission.StrictMode || s.strictDefault)

	result, runErr := s.runAnalysis(ctx, input, cfg)
	if result == nil {
		s.updateStatus(ctx, submission.AssignmentID, models.StepFailed)
		return nil, fmt.Errorf("analysis produced no result: %w", runErr)
	}

	if err := s.resultsRepo.InsertAnalysisResult(ctx, result); err != nil {
		s.updateStatus(ctx, submission.AssignmentID, models.StepFailed)
		return nil, fmt.Errorf("failed to store analysis result: %w", err)
	}

	if result.Status == models.StatusError {
		s.updateStatus(ctx, submission.AssignmentID, models.StepFailed)
	} else {
		s.updateStatus(ctx, submission.AssignmentID, models.StepCompleted)
	}

	return result, nil
}

// resolveText prefers text already extracted upstream and falls back to the
// OCR service for file-backed submissions.
func (s *Service) resolveText(ctx context.Context, submission *models.Submission) (string, error) {
	if strings.TrimSpace(submission.OCRText) != "" {
		return submission.OCRText, nil
	}

	if submission.FilePath == "" {
		return "", fmt.Errorf("submission has neither text nor a file path")
	}

	s.updateStatus(ctx, submission.AssignmentID, models.StepExtracting)

	resp, err := s.ocrClient.ExtractText(ctx, &ocr.ExtractRequest{
		AssignmentID: submission.AssignmentID,
		FilePath:     submission.FilePath,
	})
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}

	return resp.Text, nil
}

// fetchMaterial is best effort. Analysis degrades to built-in lexicons when
// the reference service is down or has no material for the subject.
func (s *Service) fetchMaterial(ctx context.Context, subject string) *reference.Material {
	if s.refClient == nil {
		return nil
	}

	material, err := s.refClient.FetchMaterial(ctx, subject)
	if err != nil {
		log.Warn().Err(err).
			Str("subject", subject).
			Msg("Failed to fetch reference material, continuing without it")
		return nil
	}

	return material
}

func (s *Service) runAnalysis(ctx context.Context, input analysis.Input, cfg analysis.AnalysisConfig) (*models.AnalysisResult, error) {
	resultChan := make(chan *models.AnalysisResult, 1)
	doneChan := make(chan struct{}, 1)

	job := &analysis.AnalysisJob{
		Input:      input,
		Config:     cfg,
		ResultChan: resultChan,
		DoneChan:   doneChan,
	}

	if err := s.pool.Submit(job); err != nil {
		return nil, fmt.Errorf("failed to submit analysis job: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-resultChan:
		return result, nil
	case <-doneChan:
		// The job finished without delivering a result, which happens when
		// the input was structurally invalid.
		select {
		case result := <-resultChan:
			return result, nil
		default:
			return nil, fmt.Errorf("analysis job finished without a result")
		}
	}
}

func (s *Service) updateStatus(ctx context.Context, assignmentID string, step models.Step) {
	if s.redisClient == nil {
		return
	}
	if err := analysis.UpdateStatus(ctx, s.redisClient, assignmentID, step); err != nil {
		log.Warn().Err(err).
			Str("assignmentId", assignmentID).
			Str("step", string(step)).
			Msg("Failed to publish status update")
	}
}
