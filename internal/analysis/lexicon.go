package analysis

// SubjectLexicon pairs the keywords a subject's documents must lean on with
// the keywords that rule the subject out entirely.
type SubjectLexicon struct {
	Essential     []string
	Disqualifying []string
}

// SubjectLexicons maps a lowercase subject name to its lexicon.
type SubjectLexicons map[string]SubjectLexicon

// DefaultSubjectLexicons is the built-in subject keyword table. A subject
// missing from this table is treated as unknown, never as invalid.
var DefaultSubjectLexicons = SubjectLexicons{
	"history": {
		Essential: []string{"history", "historical", "ancient", "medieval", "century", "civilization",
			"empire", "dynasty", "war", "revolution", "period", "era"},
		Disqualifying: []string{"quantum", "mechanics", "physics", "artificial intelligence", "neural network",
			"machine learning", "algorithm", "programming", "code", "software", "computer science"},
	},
	"physics": {
		Essential: []string{"physics", "mechanics", "energy", "force", "motion", "quantum", "relativity",
			"particle", "wave", "theory", "thermodynamics", "electromagnetic"},
		Disqualifying: []string{"literature", "novel", "poem", "fiction", "author", "character",
			"political science", "government", "democracy", "economy"},
	},
	"quantum mechanics": {
		Essential: []string{"quantum", "mechanics", "wave function", "particle", "uncertainty", "superposition",
			"physics", "entanglement", "energy levels", "schrodinger", "heisenberg", "atomic",
			"subatomic", "quantum state", "probability"},
		Disqualifying: []string{"history", "literature", "ancient", "medieval", "dynasty", "economy",
			"government", "politics", "linguistics", "grammar"},
	},
	"mathematics": {
		Essential: []string{"mathematics", "math", "algebra", "geometry", "calculus", "theorem",
			"function", "equation", "polynomial", "matrix", "vector", "proof"},
		Disqualifying: []string{"novel", "fiction", "poem", "dynasty", "photosynthesis", "organism"},
	},
	"biology": {
		Essential: []string{"biology", "cell", "organism", "evolution", "gene", "protein",
			"dna", "species", "ecosystem", "photosynthesis", "enzyme", "chromosome"},
		Disqualifying: []string{"quantum", "algorithm", "programming", "medieval", "empire", "novel"},
	},
	"chemistry": {
		Essential: []string{"chemical", "chemistry", "reaction", "molecule", "atom", "compound",
			"element", "acid", "bond", "solution", "organic", "periodic"},
		Disqualifying: []string{"novel", "poem", "medieval", "dynasty", "algorithm", "programming"},
	},
	"computer science": {
		Essential: []string{"algorithm", "programming", "software", "hardware", "data", "network",
			"computer", "code", "system", "application", "development", "database"},
		Disqualifying: []string{"medieval", "ancient history", "literature", "poem", "novel", "biology", "chemistry"},
	},
	"artificial intelligence": {
		Essential: []string{"ai", "artificial intelligence", "machine learning", "neural", "algorithm",
			"deep learning", "model", "training", "prediction", "classification"},
		Disqualifying: []string{"ancient history", "medieval history", "chemistry", "organic chemistry"},
	},
	"literature": {
		Essential: []string{"literature", "novel", "fiction", "character", "narrative", "plot",
			"author", "book", "poem", "poetry", "story", "writing"},
		Disqualifying: []string{"quantum", "physics", "algorithm", "programming", "code", "software"},
	},
}

// relatedTerms expands a subject word into topic-adjacent vocabulary used for
// the broader-relevance bonus.
var relatedTerms = map[string][]string{
	"ai":          {"machine", "learning", "algorithm", "neural", "model", "training", "intelligence"},
	"physics":     {"newton", "einstein", "velocity", "acceleration", "momentum", "gravity"},
	"history":     {"king", "queen", "battle", "treaty", "colonial", "archive"},
	"biology":     {"mitochondria", "nucleus", "bacteria", "virus", "tissue", "anatomy"},
	"chemistry":   {"electron", "proton", "catalyst", "oxidation", "titration", "solvent"},
	"mathematics": {"integral", "derivative", "prime", "limit", "axiom", "lemma"},
	"computer":    {"compiler", "binary", "processor", "memory", "server", "protocol"},
	"literature":  {"metaphor", "imagery", "protagonist", "genre", "prose", "verse"},
}

// Lookup resolves a declared subject against the table, tolerating partial
// names ("intro to physics" matches "physics").
func (l SubjectLexicons) Lookup(subject string) (string, SubjectLexicon, bool) {
	if lex, ok := l[subject]; ok {
		return subject, lex, true
	}
	for name, lex := range l {
		if containsFold(subject, name) || containsFold(name, subject) {
			return name, lex, true
		}
	}
	return "", SubjectLexicon{}, false
}
