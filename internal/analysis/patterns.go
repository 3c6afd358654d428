package analysis

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/devarajan8/veritas/internal/models"
)

// Explicit first-person AI disclaimers. A single hit is treated as proof of
// machine origin regardless of the aggregate score.
var aiPhrasePatterns = compileAll([]string{
	`as an AI`,
	`as an artificial intelligence`,
	`as a language model`,
	`I don't have personal`,
	`I don't have the ability to`,
	`I don't have access to`,
	`I cannot access`,
	`my training data`,
	`my knowledge cutoff`,
	`my last update`,
	`as of my last training`,
	`my training cut[- ]?off`,
	`based on my training`,
	`as of my last update`,
	`I don't have subjective experiences`,
	`I don't have the capability to`,
	`I don't have real-time`,
	`as of my training data`,
	`I don't have opinions`,
	`I don't have beliefs`,
	`I'm not able to`,
	`I'm just a`,
	`I'm an AI`,
})

// Stock academic framing that generated papers overuse. Weighted below the
// explicit disclaimers since genuine academic prose also reaches for these.
var academicPhrasePatterns = compileAll([]string{
	`this study aims to`,
	`the results indicate that`,
	`further research is needed`,
	`it is widely accepted that`,
	`according to recent studies`,
	`the data suggests that`,
	`in this paper, we will`,
	`we propose that`,
	`it can be concluded that`,
	`this research demonstrates`,
	`the findings reveal that`,
	`evidence suggests that`,
	`this highlights the importance of`,
	`it is important to consider`,
	`one possible explanation is`,
	`this raises the question of`,
	`these results are consistent with`,
	`the literature suggests that`,
	`previous research has shown`,
})

var emojiRe = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{2600}-\x{27BF}\x{FE0F}]`)

// Concurrent analyses share this cache; sync.Map keeps it race-free.
var wordBoundaryCache sync.Map

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(`(?i)`+p))
	}
	return out
}

// PatternReport is the full output of a pattern scan over one text.
type PatternReport struct {
	Hits          []models.PatternHit
	ExplicitCount int
	AcademicCount int
	EmojiCount    int
	Subject       SubjectCheck
}

// SubjectCheck is the outcome of matching a text against the declared
// subject's lexicon.
type SubjectCheck struct {
	Known      bool
	Matched    string // table entry the declared subject resolved to
	Valid      bool
	Confidence float64
	Reason     string

	Mismatch           bool
	MismatchConfidence float64
	DetectedSubject    string
}

// ScanPatterns runs all marker detectors over the text. Duplicate matches are
// kept, in detection order, for intensity scoring.
func ScanPatterns(text, declaredSubject string, lexicons SubjectLexicons) PatternReport {
	report := PatternReport{}

	for _, re := range aiPhrasePatterns {
		for _, m := range re.FindAllString(text, -1) {
			report.Hits = append(report.Hits, models.PatternHit{
				Kind:        models.PatternExplicitAI,
				MatchedText: m,
			})
			report.ExplicitCount++
		}
	}

	for _, re := range academicPhrasePatterns {
		for _, m := range re.FindAllString(text, -1) {
			report.Hits = append(report.Hits, models.PatternHit{
				Kind:        models.PatternAcademicAI,
				MatchedText: m,
			})
			report.AcademicCount++
		}
	}

	report.EmojiCount = len(emojiRe.FindAllString(text, -1))

	report.Subject = checkSubject(text, declaredSubject, lexicons)
	for _, hit := range subjectHits(text, report.Subject, lexicons) {
		report.Hits = append(report.Hits, hit)
	}

	return report
}

// ValidateSubject exposes the subject-lexicon check on its own, for callers
// that need a relevance estimate without a full pattern scan.
func ValidateSubject(text, declaredSubject string, lexicons SubjectLexicons) SubjectCheck {
	return checkSubject(text, declaredSubject, lexicons)
}

// checkSubject validates the declared subject against its lexicon and probes
// the other lexicons for a dominant competing subject. Unknown subjects get a
// neutral result; this function never fails.
func checkSubject(text, declaredSubject string, lexicons SubjectLexicons) SubjectCheck {
	check := SubjectCheck{}
	lowered := strings.ToLower(text)
	subject := strings.ToLower(strings.TrimSpace(declaredSubject))

	matched, lex, known := lexicons.Lookup(subject)
	check.Known = known
	check.Matched = matched

	if known {
		check.Valid, check.Confidence, check.Reason = scoreLexicon(lowered, declaredSubject, lex)
	} else {
		check.Valid = true
		check.Confidence = 50
		check.Reason = fmt.Sprintf("no defined keyword rules for subject: %s", declaredSubject)
	}

	// Competing-subject probe: declared lexicon absent while another
	// subject's essential vocabulary dominates. Counts distinct keywords,
	// not occurrences, so hammering one word cannot fake a dominant subject.
	declaredCount := 0
	if known {
		declaredCount = countDistinct(lowered, lex.Essential)
	}

	type candidate struct {
		name  string
		count int
	}
	var candidates []candidate
	for name, other := range lexicons {
		if name == matched {
			continue
		}
		if c := countDistinct(lowered, other.Essential); c > 0 {
			candidates = append(candidates, candidate{name, c})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].count != candidates[j].count {
			return candidates[i].count > candidates[j].count
		}
		return candidates[i].name < candidates[j].name
	})

	if len(candidates) > 0 && declaredCount == 0 && candidates[0].count >= 5 {
		check.Mismatch = true
		check.DetectedSubject = candidates[0].name
		check.MismatchConfidence = clamp(float64(candidates[0].count)*10, 0, 100)
	}

	return check
}

// scoreLexicon applies the tiered essential/disqualifying evaluation. Any
// disqualifying keyword short-circuits.
func scoreLexicon(lowered, declaredSubject string, lex SubjectLexicon) (bool, float64, string) {
	for _, kw := range lex.Disqualifying {
		if matchWord(lowered, kw) > 0 {
			return false, 10, fmt.Sprintf("document contains '%s' which is unrelated to %s", kw, declaredSubject)
		}
	}

	count := countOccurrences(lowered, lex.Essential)
	switch {
	case count > 5:
		return true, 90, fmt.Sprintf("document contains multiple keywords related to %s", declaredSubject)
	case count >= 3:
		return true, 70, fmt.Sprintf("document contains some keywords related to %s", declaredSubject)
	case count >= 1:
		return true, 40, fmt.Sprintf("document contains few keywords related to %s", declaredSubject)
	default:
		return false, 20, fmt.Sprintf("document contains no essential keywords related to %s", declaredSubject)
	}
}

// subjectHits converts lexicon matches into reportable pattern hits.
func subjectHits(text string, check SubjectCheck, lexicons SubjectLexicons) []models.PatternHit {
	if !check.Known {
		return nil
	}
	lex := lexicons[check.Matched]
	lowered := strings.ToLower(text)

	var hits []models.PatternHit
	for _, kw := range lex.Disqualifying {
		if matchWord(lowered, kw) > 0 {
			hits = append(hits, models.PatternHit{
				Kind:        models.PatternDisqualifyingKeyword,
				MatchedText: kw,
				Subject:     check.Matched,
			})
		}
	}
	for _, kw := range lex.Essential {
		if matchWord(lowered, kw) > 0 {
			hits = append(hits, models.PatternHit{
				Kind:        models.PatternSubjectKeyword,
				MatchedText: kw,
				Subject:     check.Matched,
			})
		}
	}
	return hits
}

func countOccurrences(lowered string, keywords []string) int {
	total := 0
	for _, kw := range keywords {
		total += matchWord(lowered, kw)
	}
	return total
}

// countDistinct counts how many of the keywords appear at least once.
func countDistinct(lowered string, keywords []string) int {
	present := 0
	for _, kw := range keywords {
		if matchWord(lowered, kw) > 0 {
			present++
		}
	}
	return present
}

// matchWord counts whole-word occurrences of kw in lowered text.
func matchWord(lowered, kw string) int {
	cached, ok := wordBoundaryCache.Load(kw)
	if !ok {
		cached, _ = wordBoundaryCache.LoadOrStore(kw,
			regexp.MustCompile(`\b`+regexp.QuoteMeta(strings.ToLower(kw))+`\b`))
	}
	return len(cached.(*regexp.Regexp).FindAllString(lowered, -1))
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
