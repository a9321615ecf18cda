package extract

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/recruitflow/recruitflow/internal/fault"
)

// Extractor turns raw documents into the structured records the matching
// engine consumes. Matching assumes fields normalized here and performs no
// further repair.
type Extractor struct {
	skills *SkillExtractor
	logger *zap.Logger
}

// NewExtractor builds an extractor with the given skill vocabulary. An empty
// vocabulary uses the built-in default.
func NewExtractor(vocabulary []string, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		skills: NewSkillExtractor(vocabulary),
		logger: logger,
	}
}

// JobDescription extracts a JobRecord from a PDF document.
func (e *Extractor) JobDescription(path string) (*JobRecord, error) {
	raw, err := ReadPDFText(path)
	if err != nil {
		return nil, err
	}

	text := CleanText(raw)
	if text == "" {
		return nil, fault.Newf(fault.Validation, "job description %s is empty after cleanup", path)
	}

	record := &JobRecord{
		Text:           text,
		SkillsRequired: e.skills.Extract(text),
		Details:        FindJobDetails(text),
		Contact:        FindContactInfo(text),
		WordCount:      len(strings.Fields(text)),
		SourcePath:     path,
	}

	e.logger.Debug("job description extracted",
		zap.String("path", path),
		zap.Int("word_count", record.WordCount),
		zap.Int("skills_required", len(record.SkillsRequired)),
	)

	return record, nil
}

// Roster extracts one CandidateRecord per CSV row, in roster order.
func (e *Extractor) Roster(path string) ([]CandidateRecord, error) {
	rows, err := readRoster(path)
	if err != nil {
		return nil, err
	}

	candidates := make([]CandidateRecord, 0, len(rows))
	for index, row := range rows {
		candidates = append(candidates, e.candidateFromRow(index, row))
	}

	e.logger.Debug("roster extracted",
		zap.String("path", path),
		zap.Int("candidates", len(candidates)),
	)

	return candidates, nil
}

// Validate runs advisory quality checks over the extraction output.
func (e *Extractor) Validate(job *JobRecord, candidates []CandidateRecord) *Validation {
	v := &Validation{TotalRecords: len(candidates)}

	if job != nil {
		v.JobWordCount = job.WordCount
		v.JobDescriptionValid = len(job.Text) > 100
		v.JobHasSkills = len(job.SkillsRequired) > 0
		v.JobHasContact = job.Contact.Email != ""
	}

	present := map[string]bool{}
	for _, c := range candidates {
		if c.Name != "" {
			present["name"] = true
		}
		if c.Email != "" {
			present["email"] = true
		}
		if c.RawSkills != "" {
			present["skills"] = true
		}
		if c.Experience != "" {
			present["experience"] = true
		}
		if ValidEmail(c.Email) {
			v.ValidEmails++
		}
	}

	for _, col := range requiredColumns {
		if !present[col] {
			v.MissingColumns = append(v.MissingColumns, col)
		}
	}
	v.RosterValid = len(v.MissingColumns) == 0 && len(candidates) > 0

	return v
}

func (e *Extractor) candidateFromRow(index int, row map[string]string) CandidateRecord {
	candidate := CandidateRecord{
		Index:      index,
		Name:       normalizeName(row["name"]),
		Email:      row["email"],
		Phone:      row["phone"],
		RawSkills:  row["skills"],
		Experience: row["experience"],
		Education:  row["education"],
		Location:   row["location"],
	}

	skillsText := strings.Join([]string{candidate.RawSkills, candidate.Experience, candidate.Education}, " ")
	candidate.ExtractedSkills = e.skills.Extract(skillsText)
	candidate.ProfileSummary = profileSummary(candidate)

	return candidate
}

func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	switch strings.ToLower(name) {
	case "", "nan", "none", "unknown":
		return ""
	}
	return name
}

func profileSummary(c CandidateRecord) string {
	var parts []string

	if c.Name != "" {
		parts = append(parts, fmt.Sprintf("Name: %s", c.Name))
	}
	if c.Experience != "" {
		parts = append(parts, fmt.Sprintf("Experience: %s", c.Experience))
	}
	if c.Education != "" {
		parts = append(parts, fmt.Sprintf("Education: %s", c.Education))
	}
	if len(c.ExtractedSkills) > 0 {
		parts = append(parts, fmt.Sprintf("Skills: %s", strings.Join(c.ExtractedSkills, ", ")))
	}
	if c.Location != "" {
		parts = append(parts, fmt.Sprintf("Location: %s", c.Location))
	}

	return strings.Join(parts, ". ")
}
