package analysis

import "time"

// Thresholds is a (plagiarism, relevance) pass/fail pair for one mode.
type Thresholds struct {
	Plagiarism float64
	Relevance  float64
}

// Canonical threshold pairs. Strict mode is tighter on both axes: a lower
// plagiarism ceiling and a higher relevance floor.
var (
	StandardThresholds = Thresholds{Plagiarism: 60.0, Relevance: 50.0}
	StrictThresholds   = Thresholds{Plagiarism: 35.0, Relevance: 60.0}
)

// AnalysisConfig carries every knob the scoring and decision functions need.
// It is built once by the caller and threaded through explicitly; nothing in
// this package reads ambient state.
type AnalysisConfig struct {
	StrictMode      bool
	Thresholds      Thresholds
	Lexicons        SubjectLexicons
	Policy          AggregationPolicy
	ExternalTimeout time.Duration
}

// NewAnalysisConfig returns the config for the given mode with the canonical
// thresholds and the built-in subject lexicon table.
func NewAnalysisConfig(strict bool) AnalysisConfig {
	t := StandardThresholds
	if strict {
		t = StrictThresholds
	}
	return AnalysisConfig{
		StrictMode:      strict,
		Thresholds:      t,
		Lexicons:        DefaultSubjectLexicons,
		Policy:          PolicyTop2Avg,
		ExternalTimeout: 10 * time.Second,
	}
}
