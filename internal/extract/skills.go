package extract

import (
	"regexp"
	"strings"
)

// DefaultSkillVocabulary is the built-in lexicon for lexical skill matching.
// It is a heuristic starting point, not a contract; deployments override it
// via configuration.
var DefaultSkillVocabulary = []string{
	"Python", "Java", "JavaScript", "React", "Angular", "Vue", "Node.js", "Django", "Flask",
	"SQL", "MySQL", "PostgreSQL", "MongoDB", "Redis", "ElasticSearch",
	"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Jenkins", "Git",
	"Machine Learning", "Deep Learning", "AI", "NLP", "Computer Vision",
	"Agile", "Scrum", "DevOps", "CI/CD", "TDD", "BDD",
	"HTML", "CSS", "Bootstrap", "Tailwind", "SASS", "LESS",
	"REST", "GraphQL", "API", "Microservices", "WebSocket",
}

// SkillExtractor finds known skills in free text via case-insensitive
// whole-word matching against a fixed vocabulary. Matches are reported with
// the vocabulary's canonical spelling, in vocabulary order, deduplicated.
type SkillExtractor struct {
	terms    []string
	patterns []*regexp.Regexp
}

// NewSkillExtractor compiles an extractor for the given vocabulary. An empty
// vocabulary falls back to DefaultSkillVocabulary.
func NewSkillExtractor(vocabulary []string) *SkillExtractor {
	if len(vocabulary) == 0 {
		vocabulary = DefaultSkillVocabulary
	}

	e := &SkillExtractor{
		terms:    make([]string, 0, len(vocabulary)),
		patterns: make([]*regexp.Regexp, 0, len(vocabulary)),
	}

	seen := make(map[string]bool, len(vocabulary))
	for _, term := range vocabulary {
		term = strings.TrimSpace(term)
		if term == "" || seen[strings.ToLower(term)] {
			continue
		}
		seen[strings.ToLower(term)] = true

		e.terms = append(e.terms, term)
		e.patterns = append(e.patterns, compileTerm(term))
	}

	return e
}

// Extract returns the canonical vocabulary terms present in the text.
func (e *SkillExtractor) Extract(text string) []string {
	if text == "" {
		return nil
	}

	var found []string
	for i, pattern := range e.patterns {
		if pattern.MatchString(text) {
			found = append(found, e.terms[i])
		}
	}
	return found
}

// Vocabulary returns the canonical terms the extractor matches against.
func (e *SkillExtractor) Vocabulary() []string {
	terms := make([]string, len(e.terms))
	copy(terms, e.terms)
	return terms
}

func compileTerm(term string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(term)

	// Word boundaries only make sense next to word characters; terms such as
	// "C++" or "CI/CD" end in symbols where \b would not match.
	prefix, suffix := "", ""
	if isWordChar(rune(term[0])) {
		prefix = `\b`
	}
	if isWordChar(rune(term[len(term)-1])) {
		suffix = `\b`
	}

	return regexp.MustCompile(`(?i)` + prefix + quoted + suffix)
}

func isWordChar(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
