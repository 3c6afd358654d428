package analysis

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/devarajan8/veritas/internal/models"
	"github.com/rs/zerolog/log"
)

// ErrEmptySubject is the single structurally-invalid-input failure: the
// pipeline degrades gracefully for every missing optional signal, but a
// submission without a declared subject cannot be analyzed at all.
var ErrEmptySubject = fmt.Errorf("declared subject is empty")

// Input bundles everything one analysis run consumes. All fields except Text,
// Subject, and AssignmentID are optional; absent signals are weighted out
// rather than zero-filled.
type Input struct {
	AssignmentID     string
	Text             string
	Subject          string
	ReferenceContent string
	Keywords         []string
	EmbeddingScore   *float64 // cosine similarity in [0,1] vs reference
	Scorers          []ExternalScorer
}

// Run executes the full scoring and decision pipeline for one submission.
// The three upstream computations share no state and run concurrently;
// aggregation joins on all of them. Identical inputs always produce an
// identical result.
func Run(ctx context.Context, in Input, cfg AnalysisConfig) (*models.AnalysisResult, error) {
	if strings.TrimSpace(in.Subject) == "" {
		return &models.AnalysisResult{
			AssignmentID:   in.AssignmentID,
			Timestamp:      time.Now().UTC(),
			Status:         models.StatusError,
			PrimaryReason:  ErrEmptySubject.Error(),
			FailureReasons: []string{ErrEmptySubject.Error()},
		}, ErrEmptySubject
	}

	start := time.Now()

	var (
		features   models.FeatureScores
		patterns   PatternReport
		similarity models.SimilarityResult
		wg         sync.WaitGroup
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		features = ExtractFeatures(in.Text)
	}()
	go func() {
		defer wg.Done()
		patterns = ScanPatterns(in.Text, in.Subject, cfg.Lexicons)
	}()
	go func() {
		defer wg.Done()
		similarity = CompareTexts(in.Text, in.ReferenceContent, in.EmbeddingScore)
	}()
	wg.Wait()

	plagiarism := AggregatePlagiarism(features, similarity, patterns, cfg)
	relevance := EvaluateRelevance(ctx, in.Text, in.Subject, in.Keywords, in.Scorers, cfg)
	decision := Decide(plagiarism, relevance, cfg)

	result := &models.AnalysisResult{
		Subject:        in.Subject,
		AssignmentID:   in.AssignmentID,
		Timestamp:      time.Now().UTC(),
		Status:         decision.Status,
		Plagiarism:     plagiarism,
		Relevance:      relevance,
		PrimaryReason:  decision.PrimaryReason,
		FailureReasons: decision.Reasons,
	}

	log.Info().
		Str("assignmentId", in.AssignmentID).
		Str("subject", in.Subject).
		Str("status", string(decision.Status)).
		Float64("plagiarism", plagiarism.Percentage).
		Float64("relevance", relevance.Score).
		Bool("strict", cfg.StrictMode).
		Dur("elapsed", time.Since(start)).
		Msg("Analysis completed")

	return result, nil
}
