package analysis

import (
	"math"
	"testing"
)

func TestCompareTextsNoInputs(t *testing.T) {
	result := CompareTexts("some submission text of reasonable length", "", nil)

	if result.NgramComputed || result.StatisticalComputed || result.SemanticComputed {
		t.Errorf("computed flags = %v/%v/%v, want all false",
			result.NgramComputed, result.StatisticalComputed, result.SemanticComputed)
	}
}

func TestCompareTextsIdentical(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog near the riverbank every morning"

	result := CompareTexts(text, text, nil)
	if !result.NgramComputed || !result.StatisticalComputed {
		t.Fatal("reference channels not computed")
	}
	if result.NgramSimilarity != ngramCap {
		t.Errorf("NgramSimilarity = %v, want cap %v for identical texts", result.NgramSimilarity, ngramCap)
	}
	if result.StatisticalSimilarity != statisticalCap {
		t.Errorf("StatisticalSimilarity = %v, want cap %v for identical texts", result.StatisticalSimilarity, statisticalCap)
	}
	if result.SemanticComputed {
		t.Error("SemanticComputed = true without an embedding score")
	}
}

func TestCompareTextsDisjoint(t *testing.T) {
	text := "alpha beta gamma delta epsilon zeta eta theta iota kappa"
	reference := "uno dos tres cuatro cinco seis siete ocho nueve diez"

	result := CompareTexts(text, reference, nil)
	if result.NgramSimilarity != 0 {
		t.Errorf("NgramSimilarity = %v, want 0 for disjoint texts", result.NgramSimilarity)
	}
	if result.StatisticalSimilarity != 0 {
		t.Errorf("StatisticalSimilarity = %v, want 0 for disjoint texts", result.StatisticalSimilarity)
	}
}

func TestCompareTextsEmbedding(t *testing.T) {
	score := 0.8
	result := CompareTexts("text", "", &score)

	if !result.SemanticComputed {
		t.Fatal("SemanticComputed = false, want true")
	}
	if math.Abs(result.SemanticSimilarity-80) > 1e-9 {
		t.Errorf("SemanticSimilarity = %v, want 80", result.SemanticSimilarity)
	}
	if result.NgramComputed || result.StatisticalComputed {
		t.Error("reference channels computed without a reference")
	}
}

func TestNgramSimilarityShortText(t *testing.T) {
	if got := ngramSimilarity("too few words", "a much longer reference text with plenty of words inside"); got != 0 {
		t.Errorf("ngramSimilarity = %v, want 0 when text is below the n-gram minimum", got)
	}
}

func TestStatisticalSimilarityPartialOverlap(t *testing.T) {
	text := "energy and force appear in this essay about motion"
	reference := "a reference discussing energy force and related ideas of motion"

	got := statisticalSimilarity(text, reference)
	if got <= 0 {
		t.Errorf("statisticalSimilarity = %v, want > 0 for overlapping vocabulary", got)
	}
	if got > statisticalCap {
		t.Errorf("statisticalSimilarity = %v, above cap %v", got, statisticalCap)
	}
}
