package analysis

import (
	"fmt"

	"github.com/devarajan8/veritas/internal/models"
)

// Decision is the outcome of applying the active thresholds to the two
// verdicts plus the discrete tripwires.
type Decision struct {
	Status        models.Status
	PrimaryReason string
	Reasons       []string
}

// Decide applies the ordered decision procedure. All triggered reasons are
// collected; the first is the primary. Pure function, no I/O.
func Decide(plag models.PlagiarismVerdict, rel models.RelevanceVerdict, cfg AnalysisConfig) Decision {
	var reasons []string

	if plag.SubjectMismatch {
		reasons = append(reasons, "subject-content mismatch detected")
	} else if rel.Status == models.StatusFailed {
		reasons = append(reasons, fmt.Sprintf("content not sufficiently relevant (%.0f%% < %.0f%%)",
			rel.Score, cfg.Thresholds.Relevance))
	}

	if plag.Percentage > cfg.Thresholds.Plagiarism {
		reasons = append(reasons, fmt.Sprintf("high plagiarism/AI-confidence detected (%.0f%% > %.0f%%)",
			plag.Percentage, cfg.Thresholds.Plagiarism))
	}

	hasExplicit := false
	for _, hit := range plag.PatternHits {
		if hit.Kind == models.PatternExplicitAI {
			hasExplicit = true
			break
		}
	}
	if hasExplicit {
		reasons = append(reasons, "AI-generated pattern detected")
	}

	if plag.EmojiCount > 0 {
		reasons = append(reasons, "inappropriate marker detected")
	}

	if len(reasons) == 0 {
		return Decision{Status: models.StatusPassed, Reasons: []string{}}
	}
	return Decision{
		Status:        models.StatusFailed,
		PrimaryReason: reasons[0],
		Reasons:       reasons,
	}
}
