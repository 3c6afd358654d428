package analysis

import (
	"math"
	"regexp"
	"strings"

	"github.com/devarajan8/veritas/internal/models"
)

// Calibration constants for the feature extractor. The caps are deliberately
// lenient: naturally uniform human writing should not saturate any single
// feature, so every feature tops out well below 100.
const (
	minAnalyzableChars = 50

	paragraphConsistencyFloor   = 20.0
	paragraphConsistencyCap     = 70.0
	paragraphConsistencyDefault = 30.0

	sentenceVarietyBase    = 30.0
	sentenceVarietyCap     = 70.0
	sentenceVarietyDefault = 40.0

	lexicalDiversityCap     = 75.0
	lexicalDiversityDefault = 50.0

	repetitivePatternsCap = 20.0
	structuralPatternsCap = 20.0

	shingleSize      = 4
	shingleRepeatMin = 2
)

var (
	wordRe         = regexp.MustCompile(`\b\w+\b`)
	alphaWordRe    = regexp.MustCompile(`\b[a-zA-Z]+\b`)
	sentenceEndRe  = regexp.MustCompile(`[.!?]+`)
	bulletLineRe   = regexp.MustCompile(`^\s*[-•*]\s`)
	numberedLineRe = regexp.MustCompile(`^\s*\d+\.\s`)
)

// ExtractFeatures computes the statistical feature scores for a single text.
// Pure function; every score lands in [0,100].
func ExtractFeatures(text string) models.FeatureScores {
	if len(strings.TrimSpace(text)) < minAnalyzableChars {
		return defaultFeatureScores()
	}

	return models.FeatureScores{
		ParagraphConsistency: paragraphConsistency(text),
		SentenceVariety:      sentenceVariety(text),
		LexicalDiversity:     lexicalDiversity(text),
		RepetitivePatterns:   repetitivePatterns(text),
		StructuralPatterns:   structuralPatterns(text),
	}
}

// defaultFeatureScores is the low-confidence bundle for texts too short to
// analyze. Non-zero so terse submissions are not punished outright.
func defaultFeatureScores() models.FeatureScores {
	return models.FeatureScores{
		ParagraphConsistency: paragraphConsistencyDefault,
		SentenceVariety:      sentenceVarietyDefault,
		LexicalDiversity:     lexicalDiversityDefault,
		RepetitivePatterns:   0,
		StructuralPatterns:   0,
	}
}

// paragraphConsistency maps the coefficient of variation of paragraph word
// counts to a score where uniform paragraphs (machine-typical) score high.
func paragraphConsistency(text string) float64 {
	var lengths []float64
	for _, p := range strings.Split(text, "\n\n") {
		if words := len(wordRe.FindAllString(p, -1)); words > 0 {
			lengths = append(lengths, float64(words))
		}
	}
	if len(lengths) < 2 {
		return paragraphConsistencyDefault
	}

	mean, std := meanStd(lengths)
	if mean == 0 {
		return paragraphConsistencyDefault
	}
	cv := std / mean
	score := 100 * (1 - cv)
	return clamp(score, paragraphConsistencyFloor, paragraphConsistencyCap)
}

// sentenceVariety maps sentence-length variability to a score where varied
// lengths (human-typical) score high.
func sentenceVariety(text string) float64 {
	var lengths []float64
	for _, s := range sentenceEndRe.Split(text, -1) {
		words := wordRe.FindAllString(s, -1)
		if len(words) >= 3 {
			lengths = append(lengths, float64(len(words)))
		}
	}
	if len(lengths) < 3 {
		return sentenceVarietyDefault
	}

	mean, std := meanStd(lengths)
	if mean == 0 {
		return sentenceVarietyDefault
	}
	cv := std / mean
	return clamp(cv*100+sentenceVarietyBase, 0, sentenceVarietyCap)
}

// lexicalDiversity is the type-token ratio over alphabetic words, scaled.
func lexicalDiversity(text string) float64 {
	words := alphaWordRe.FindAllString(strings.ToLower(text), -1)
	if len(words) < 20 {
		return lexicalDiversityDefault
	}

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	ratio := float64(len(unique)) / float64(len(words))
	return clamp(ratio*100, 0, lexicalDiversityCap)
}

// repetitivePatterns measures exact phrase repetition via overlapping 4-word
// shingles. Natural word-level repetition is ignored; only whole phrases
// occurring more than twice count.
func repetitivePatterns(text string) float64 {
	words := strings.Fields(strings.ToLower(text))
	if len(words) < 10 {
		return 0
	}

	counts := make(map[string]int)
	total := 0
	for i := 0; i+shingleSize <= len(words); i++ {
		counts[strings.Join(words[i:i+shingleSize], " ")]++
		total++
	}
	if total == 0 {
		return 0
	}

	repeated := 0
	for _, c := range counts {
		if c > shingleRepeatMin {
			repeated++
		}
	}
	return clamp(float64(repeated)/float64(total)*50, 0, repetitivePatternsCap)
}

// structuralPatterns measures list/heading density, a common tell of
// generated text pasted from a chat interface.
func structuralPatterns(text string) float64 {
	lines := strings.Split(text, "\n")
	nonBlank := 0
	structured := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonBlank++
		switch {
		case bulletLineRe.MatchString(line):
			structured++
		case numberedLineRe.MatchString(line):
			structured++
		case strings.HasPrefix(trimmed, "#"):
			structured++
		case trimmed == strings.ToUpper(trimmed) && len(alphaWordRe.FindAllString(trimmed, -1)) > 0:
			structured++
		case strings.HasSuffix(trimmed, ":"):
			structured++
		}
	}
	if nonBlank == 0 {
		return 0
	}
	return clamp(float64(structured)/float64(nonBlank)*50, 0, structuralPatternsCap)
}

func meanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp100(v float64) float64 {
	return clamp(v, 0, 100)
}
