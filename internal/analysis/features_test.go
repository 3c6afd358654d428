package analysis

import (
	"strings"
	"testing"
)

func TestExtractFeaturesShortText(t *testing.T) {
	got := ExtractFeatures("too short")

	if got.ParagraphConsistency != paragraphConsistencyDefault {
		t.Errorf("ParagraphConsistency = %v, want %v", got.ParagraphConsistency, paragraphConsistencyDefault)
	}
	if got.SentenceVariety != sentenceVarietyDefault {
		t.Errorf("SentenceVariety = %v, want %v", got.SentenceVariety, sentenceVarietyDefault)
	}
	if got.LexicalDiversity != lexicalDiversityDefault {
		t.Errorf("LexicalDiversity = %v, want %v", got.LexicalDiversity, lexicalDiversityDefault)
	}
	if got.RepetitivePatterns != 0 || got.StructuralPatterns != 0 {
		t.Errorf("pattern scores = %v/%v, want 0/0", got.RepetitivePatterns, got.StructuralPatterns)
	}
}

func TestParagraphConsistencyUniform(t *testing.T) {
	para := "one two three four five six seven eight nine ten"
	uniform := strings.Join([]string{para, para, para, para}, "\n\n")

	got := paragraphConsistency(uniform)
	if got != paragraphConsistencyCap {
		t.Errorf("uniform paragraphs = %v, want cap %v", got, paragraphConsistencyCap)
	}
}

func TestParagraphConsistencyVaried(t *testing.T) {
	varied := strings.Join([]string{
		"one two",
		strings.Repeat("word ", 60),
		"three four five six",
		strings.Repeat("text ", 25),
	}, "\n\n")

	uniformScore := paragraphConsistency(strings.Join([]string{
		"one two three four five six seven eight nine ten",
		"one two three four five six seven eight nine ten",
		"one two three four five six seven eight nine ten",
	}, "\n\n"))

	got := paragraphConsistency(varied)
	if got >= uniformScore {
		t.Errorf("varied paragraphs = %v, want below uniform score %v", got, uniformScore)
	}
	if got < paragraphConsistencyFloor {
		t.Errorf("score %v below floor %v", got, paragraphConsistencyFloor)
	}
}

func TestParagraphConsistencySingleParagraph(t *testing.T) {
	got := paragraphConsistency("just one paragraph of ordinary text here")
	if got != paragraphConsistencyDefault {
		t.Errorf("single paragraph = %v, want default %v", got, paragraphConsistencyDefault)
	}
}

func TestSentenceVariety(t *testing.T) {
	// Fewer than three qualifying sentences falls back to the default.
	if got := sentenceVariety("One short sentence here."); got != sentenceVarietyDefault {
		t.Errorf("too few sentences = %v, want %v", got, sentenceVarietyDefault)
	}

	monotone := "The cat sat down. The dog sat down. The bird sat down. The fish swam away."
	varied := "The rain fell. That particular afternoon the weather turned in a way nobody in the village had predicted. After several hours of walking through the hills they finally found the old stone bridge."

	monotoneScore := sentenceVariety(monotone)
	variedScore := sentenceVariety(varied)
	if variedScore <= monotoneScore {
		t.Errorf("varied = %v, monotone = %v, want varied > monotone", variedScore, monotoneScore)
	}
	if monotoneScore < 0 || variedScore > sentenceVarietyCap {
		t.Errorf("scores out of range: %v, %v", monotoneScore, variedScore)
	}
}

func TestLexicalDiversity(t *testing.T) {
	if got := lexicalDiversity("few words"); got != lexicalDiversityDefault {
		t.Errorf("short text = %v, want %v", got, lexicalDiversityDefault)
	}

	repetitive := strings.Repeat("same word again ", 20)
	diverse := "quick brown foxes jumped over seventeen lazy dogs while curious children watched nearby birds singing cheerful morning songs across quiet village rooftops yesterday"

	low := lexicalDiversity(repetitive)
	high := lexicalDiversity(diverse)
	if low >= high {
		t.Errorf("repetitive = %v, diverse = %v, want repetitive < diverse", low, high)
	}
	if high > lexicalDiversityCap {
		t.Errorf("diversity %v above cap %v", high, lexicalDiversityCap)
	}
}

func TestRepetitivePatterns(t *testing.T) {
	phrase := "the exact same phrase "
	repeated := strings.Repeat(phrase, 10)
	if got := repetitivePatterns(repeated); got <= 0 {
		t.Errorf("repeated phrases = %v, want > 0", got)
	}

	natural := "every single word appearing here differs from all others so no shingle can possibly repeat anywhere in this passage"
	if got := repetitivePatterns(natural); got != 0 {
		t.Errorf("natural text = %v, want 0", got)
	}
}

func TestStructuralPatterns(t *testing.T) {
	structured := strings.Join([]string{
		"# Introduction",
		"- first bullet point",
		"- second bullet point",
		"1. numbered step",
		"KEY TAKEAWAYS",
		"Summary:",
	}, "\n")
	if got := structuralPatterns(structured); got != structuralPatternsCap {
		t.Errorf("structured text = %v, want cap %v", got, structuralPatternsCap)
	}

	prose := "This is an ordinary paragraph written in flowing prose.\nIt continues on a second line without any list markers at all."
	if got := structuralPatterns(prose); got != 0 {
		t.Errorf("prose = %v, want 0", got)
	}
}

func TestExtractFeaturesInRange(t *testing.T) {
	text := strings.Join([]string{
		"# Heading",
		"- bullet",
		strings.Repeat("repeat this exact phrase ", 8),
		"A short one. Then something considerably longer follows it with many additional words attached. Done.",
	}, "\n\n")

	got := ExtractFeatures(text)
	for name, v := range map[string]float64{
		"ParagraphConsistency": got.ParagraphConsistency,
		"SentenceVariety":      got.SentenceVariety,
		"LexicalDiversity":     got.LexicalDiversity,
		"RepetitivePatterns":   got.RepetitivePatterns,
		"StructuralPatterns":   got.StructuralPatterns,
	} {
		if v < 0 || v > 100 {
			t.Errorf("%s = %v, want within [0,100]", name, v)
		}
	}
}
