package models

import (
	"time"
)

type Step string

const (
	StepIdle       Step = "idle"
	StepReceived   Step = "received"
	StepExtracting Step = "extracting"
	StepFetching   Step = "fetching_references"
	StepAnalyzing  Step = "analyzing"
	StepCompleted  Step = "completed"
	StepFailed     Step = "failed"
)

// Status is the overall verdict for a submission.
type Status string

const (
	StatusPassed Status = "PASSED"
	StatusFailed Status = "FAILED"
	StatusError  Status = "ERROR"
)

// PatternKind classifies a single detected marker in the text.
type PatternKind string

const (
	PatternExplicitAI           PatternKind = "explicit_ai_phrase"
	PatternAcademicAI           PatternKind = "academic_ai_phrase"
	PatternSubjectKeyword       PatternKind = "subject_keyword"
	PatternDisqualifyingKeyword PatternKind = "disqualifying_keyword"
)

// PatternHit records one marker match. Duplicate matches are kept so the
// aggregator can weight by intensity.
type PatternHit struct {
	Kind        PatternKind `bson:"kind" json:"kind"`
	MatchedText string      `bson:"matched_text" json:"matched_text"`
	Subject     string      `bson:"subject,omitempty" json:"subject,omitempty"`
}

// FeatureScores holds the statistical text features, each in [0,100].
type FeatureScores struct {
	ParagraphConsistency float64 `bson:"paragraph_consistency" json:"paragraph_consistency"`
	SentenceVariety      float64 `bson:"sentence_variety" json:"sentence_variety"`
	LexicalDiversity     float64 `bson:"lexical_diversity" json:"lexical_diversity"`
	RepetitivePatterns   float64 `bson:"repetitive_patterns" json:"repetitive_patterns"`
	StructuralPatterns   float64 `bson:"structural_patterns" json:"structural_patterns"`
}

// SimilarityResult holds text-to-reference similarity sub-scores. Each score
// carries a computed flag so a missing signal is distinguishable from a
// genuine zero and can be excluded from downstream blends.
type SimilarityResult struct {
	NgramSimilarity       float64 `bson:"ngram_similarity" json:"ngram_similarity"`
	NgramComputed         bool    `bson:"ngram_computed" json:"ngram_computed"`
	StatisticalSimilarity float64 `bson:"statistical_similarity" json:"statistical_similarity"`
	StatisticalComputed   bool    `bson:"statistical_computed" json:"statistical_computed"`
	SemanticSimilarity    float64 `bson:"semantic_similarity" json:"semantic_similarity"`
	SemanticComputed      bool    `bson:"semantic_computed" json:"semantic_computed"`
}

// PlagiarismVerdict is the aggregated AI/plagiarism outcome.
type PlagiarismVerdict struct {
	Percentage      float64          `bson:"percentage" json:"percentage"`
	AIConfidence    float64          `bson:"ai_confidence" json:"ai_confidence"`
	FeatureScores   FeatureScores    `bson:"feature_scores" json:"feature_scores"`
	Similarity      SimilarityResult `bson:"similarity" json:"similarity"`
	PatternHits     []PatternHit     `bson:"pattern_hits" json:"pattern_hits"`
	EmojiCount      int              `bson:"emoji_count" json:"emoji_count"`
	SubjectMismatch bool             `bson:"subject_mismatch" json:"subject_mismatch"`
	Detected        bool             `bson:"detected" json:"detected"`
}

// RelevanceMethod identifies which rung of the fallback ladder produced the
// relevance score.
type RelevanceMethod string

const (
	MethodKeywordBased    RelevanceMethod = "keyword_based"
	MethodEmbeddingBased  RelevanceMethod = "embedding_based"
	MethodLLMBased        RelevanceMethod = "llm_based"
	MethodHybridMin       RelevanceMethod = "hybrid_min"
	MethodDefaultFallback RelevanceMethod = "default_fallback"
)

// RelevanceVerdict is the aggregated subject-relevance outcome.
type RelevanceVerdict struct {
	Score           float64         `bson:"score" json:"score"`
	Status          Status          `bson:"status" json:"status"`
	MatchedKeywords []string        `bson:"matched_keywords" json:"matched_keywords"`
	MissingKeywords []string        `bson:"missing_keywords" json:"missing_keywords"`
	Method          RelevanceMethod `bson:"method" json:"method"`
	Comments        string          `bson:"comments" json:"comments"`
}

// AnalysisResult is the top-level record persisted per submission.
// Immutable once written.
type AnalysisResult struct {
	Subject        string            `bson:"subject" json:"subject"`
	AssignmentID   string            `bson:"assignmentId" json:"assignmentId"`
	Timestamp      time.Time         `bson:"timestamp" json:"timestamp"`
	Status         Status            `bson:"status" json:"status"`
	Plagiarism     PlagiarismVerdict `bson:"plagiarism" json:"plagiarism"`
	Relevance      RelevanceVerdict  `bson:"relevance" json:"relevance"`
	PrimaryReason  string            `bson:"primary_reason,omitempty" json:"primary_reason,omitempty"`
	FailureReasons []string          `bson:"failure_reasons" json:"failure_reasons"`
	CreatedAt      time.Time         `bson:"createdAt" json:"createdAt"`
}
