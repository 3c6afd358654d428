package analysis

import (
	"strings"

	"github.com/devarajan8/veritas/internal/models"
)

// Caps keep each similarity channel one signal among several rather than a
// verdict on its own.
const (
	ngramSize         = 3
	ngramScale        = 60.0
	ngramCap          = 30.0
	statisticalScale  = 60.0
	statisticalCap    = 40.0
	minWordsForNgrams = 5
)

// CompareTexts computes whichever similarity sub-scores the available inputs
// allow. embeddingScore is a cosine similarity in [0,1] from an external
// model; nil means no backend was reachable and the semantic channel is
// marked not-computed so aggregation can weight it out.
func CompareTexts(text, reference string, embeddingScore *float64) models.SimilarityResult {
	result := models.SimilarityResult{}

	if strings.TrimSpace(reference) != "" {
		result.NgramSimilarity = ngramSimilarity(text, reference)
		result.NgramComputed = true
		result.StatisticalSimilarity = statisticalSimilarity(text, reference)
		result.StatisticalComputed = true
	}

	if embeddingScore != nil {
		result.SemanticSimilarity = clamp100(*embeddingScore * 100)
		result.SemanticComputed = true
	}

	return result
}

// ngramSimilarity is the Jaccard index over 3-word shingles, scaled and
// capped.
func ngramSimilarity(text, reference string) float64 {
	a := ngramSet(text)
	b := ngramSet(reference)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for g := range a {
		if _, ok := b[g]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return clamp(float64(intersection)/float64(union)*ngramScale, 0, ngramCap)
}

func ngramSet(text string) map[string]struct{} {
	words := wordRe.FindAllString(strings.ToLower(text), -1)
	if len(words) < minWordsForNgrams {
		return nil
	}
	set := make(map[string]struct{})
	for i := 0; i+ngramSize <= len(words); i++ {
		set[strings.Join(words[i:i+ngramSize], " ")] = struct{}{}
	}
	return set
}

// statisticalSimilarity is the overlap of word-frequency distributions: the
// sum of min(weight_a, weight_b) over the shared vocabulary.
func statisticalSimilarity(text, reference string) float64 {
	wordsA := wordRe.FindAllString(strings.ToLower(text), -1)
	wordsB := wordRe.FindAllString(strings.ToLower(reference), -1)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	freqA := make(map[string]int, len(wordsA))
	for _, w := range wordsA {
		freqA[w]++
	}
	freqB := make(map[string]int, len(wordsB))
	for _, w := range wordsB {
		freqB[w]++
	}

	overlap := 0.0
	for w, ca := range freqA {
		cb, ok := freqB[w]
		if !ok {
			continue
		}
		wa := float64(ca) / float64(len(wordsA))
		wb := float64(cb) / float64(len(wordsB))
		if wa < wb {
			overlap += wa
		} else {
			overlap += wb
		}
	}
	return clamp(overlap*statisticalScale, 0, statisticalCap)
}
