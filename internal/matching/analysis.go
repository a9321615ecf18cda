package matching

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

const topSkillsLimit = 10

// ScoreStats aggregates similarity scores of the surviving matches.
// StdDev is the population standard deviation.
type ScoreStats struct {
	Max    float64 `json:"max_score"`
	Min    float64 `json:"min_score"`
	Mean   float64 `json:"avg_score"`
	StdDev float64 `json:"std_score"`
}

// SkillCoverage reports how well candidate skills cover the pool of
// surviving matches. Percentages are fractions of surviving matches.
type SkillCoverage struct {
	// TopSkills are the most common skills across matches, by coverage
	// descending, capped at ten.
	TopSkills []string `json:"top_skills"`
	// Coverage maps every skill seen in any match to its percentage.
	Coverage map[string]float64 `json:"skill_coverage"`
	// RequiredCoverage maps each required skill to its percentage, zero
	// when no match has it.
	RequiredCoverage map[string]float64 `json:"required_skill_coverage"`
	// UniqueSkills counts distinct skills across all matches.
	UniqueSkills int `json:"total_unique_skills"`
}

// Analysis is recomputed per run over the filtered matches and never mutated.
type Analysis struct {
	Summary         string         `json:"summary"`
	ScoreStats      *ScoreStats    `json:"score_statistics,omitempty"`
	SkillCoverage   *SkillCoverage `json:"skill_coverage,omitempty"`
	Insights        []string       `json:"insights"`
	Recommendations []string       `json:"recommendations"`
}

// Analyze derives statistics, skill coverage and recommendations from the
// filtered matches. It always returns a populated analysis; an empty match
// list produces the "no matches" summary with default recommendations.
func Analyze(matches []Match, requiredSkills []string) *Analysis {
	if len(matches) == 0 {
		return &Analysis{
			Summary:  "No matches found above threshold",
			Insights: []string{},
			Recommendations: []string{
				"Consider lowering similarity threshold",
				"Review job requirements",
			},
		}
	}

	scores := make([]float64, len(matches))
	for i, m := range matches {
		scores[i] = m.SimilarityScore
	}

	analysis := &Analysis{
		Summary:         fmt.Sprintf("Found %d qualified candidates", len(matches)),
		ScoreStats:      stats(scores),
		Insights:        []string{},
		Recommendations: []string{},
	}

	if len(requiredSkills) > 0 {
		coverage := analyzeSkillCoverage(matches, requiredSkills)
		analysis.SkillCoverage = coverage

		top := coverage.TopSkills
		if len(top) > 3 {
			top = top[:3]
		}
		analysis.Insights = append(analysis.Insights,
			fmt.Sprintf("Top skills in matches: %s", strings.Join(top, ", ")))
	}

	if len(matches) < 3 {
		analysis.Recommendations = append(analysis.Recommendations, "Consider expanding search criteria")
	}
	if analysis.ScoreStats.Max < 0.8 {
		analysis.Recommendations = append(analysis.Recommendations, "Consider reviewing job requirements for better matches")
	}

	return analysis
}

func stats(scores []float64) *ScoreStats {
	s := &ScoreStats{Max: scores[0], Min: scores[0]}

	var sum float64
	for _, score := range scores {
		sum += score
		if score > s.Max {
			s.Max = score
		}
		if score < s.Min {
			s.Min = score
		}
	}
	s.Mean = sum / float64(len(scores))

	var variance float64
	for _, score := range scores {
		d := score - s.Mean
		variance += d * d
	}
	s.StdDev = math.Sqrt(variance / float64(len(scores)))

	return s
}

func analyzeSkillCoverage(matches []Match, requiredSkills []string) *SkillCoverage {
	counts := make(map[string]int)
	for _, m := range matches {
		for _, skill := range m.Candidate.ExtractedSkills {
			counts[skill]++
		}
	}

	total := float64(len(matches))
	coverage := make(map[string]float64, len(counts))
	for skill, count := range counts {
		coverage[skill] = float64(count) / total * 100
	}

	skills := make([]string, 0, len(coverage))
	for skill := range coverage {
		skills = append(skills, skill)
	}
	// Coverage descending, name ascending across ties for determinism.
	sort.Slice(skills, func(i, j int) bool {
		if coverage[skills[i]] != coverage[skills[j]] {
			return coverage[skills[i]] > coverage[skills[j]]
		}
		return skills[i] < skills[j]
	})
	if len(skills) > topSkillsLimit {
		skills = skills[:topSkillsLimit]
	}

	required := make(map[string]float64, len(requiredSkills))
	for _, skill := range requiredSkills {
		required[skill] = coverage[skill]
	}

	return &SkillCoverage{
		TopSkills:        skills,
		Coverage:         coverage,
		RequiredCoverage: required,
		UniqueSkills:     len(counts),
	}
}
