package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/recruitflow/recruitflow/internal/fault"
)

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "candidates.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing roster: %v", err)
	}
	return path
}

func TestRosterNormalizesColumnAliases(t *testing.T) {
	path := writeRoster(t, strings.Join([]string{
		"Full_Name,E_Mail,Technical Skills,Work Experience,Degree,City",
		"Ada Lovelace,ada@example.com,Python and SQL,5 years backend,MSc Mathematics,London",
		"Alan Turing,alan@example.com,Machine Learning,3 years research,PhD,Cambridge",
	}, "\n"))

	extractor := NewExtractor(nil, nil)
	candidates, err := extractor.Roster(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}

	first := candidates[0]
	if first.Index != 0 || first.Name != "Ada Lovelace" || first.Email != "ada@example.com" {
		t.Fatalf("unexpected first candidate: %+v", first)
	}
	if first.Education != "MSc Mathematics" || first.Location != "London" {
		t.Fatalf("aliased columns not mapped: %+v", first)
	}

	if candidates[1].Index != 1 {
		t.Fatalf("expected stable ordinal 1, got %d", candidates[1].Index)
	}
}

func TestRosterExtractsSkillsAndSummary(t *testing.T) {
	path := writeRoster(t, strings.Join([]string{
		"name,email,skills,experience,education",
		"Grace Hopper,grace@example.com,Python SQL Docker,10 years compilers,PhD Yale",
	}, "\n"))

	extractor := NewExtractor(nil, nil)
	candidates, err := extractor.Roster(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := candidates[0]
	want := []string{"Python", "SQL", "Docker"}
	if len(c.ExtractedSkills) != len(want) {
		t.Fatalf("expected skills %v, got %v", want, c.ExtractedSkills)
	}
	for i, skill := range want {
		if c.ExtractedSkills[i] != skill {
			t.Fatalf("expected skills %v, got %v", want, c.ExtractedSkills)
		}
	}

	if !strings.HasPrefix(c.ProfileSummary, "Name: Grace Hopper") {
		t.Fatalf("unexpected summary: %q", c.ProfileSummary)
	}
	if !strings.Contains(c.ProfileSummary, "Skills: Python, SQL, Docker") {
		t.Fatalf("summary missing skills: %q", c.ProfileSummary)
	}
}

func TestRosterBlankNamePlaceholders(t *testing.T) {
	path := writeRoster(t, strings.Join([]string{
		"name,email,skills,experience",
		"nan,anon@example.com,Python,2 years",
	}, "\n"))

	extractor := NewExtractor(nil, nil)
	candidates, err := extractor.Roster(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if candidates[0].Name != "" {
		t.Fatalf("expected placeholder name to be blanked, got %q", candidates[0].Name)
	}
}

func TestRosterEmptyFileFailsValidation(t *testing.T) {
	path := writeRoster(t, "name,email,skills,experience\n")

	extractor := NewExtractor(nil, nil)
	_, err := extractor.Roster(path)
	if err == nil {
		t.Fatalf("expected error for roster without rows")
	}
	if !fault.Is(err, fault.Validation) {
		t.Fatalf("expected validation kind, got %q", fault.KindOf(err))
	}
}

func TestRosterMissingFile(t *testing.T) {
	extractor := NewExtractor(nil, nil)
	_, err := extractor.Roster(filepath.Join(t.TempDir(), "absent.csv"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	if !fault.Is(err, fault.Validation) {
		t.Fatalf("expected validation kind, got %q", fault.KindOf(err))
	}
}

func TestSkillExtractorCanonicalizesAndDeduplicates(t *testing.T) {
	extractor := NewSkillExtractor(nil)

	skills := extractor.Extract("Expert in python, PYTHON scripting, node.js and ci/cd pipelines.")
	want := []string{"Python", "Node.js", "CI/CD"}
	if len(skills) != len(want) {
		t.Fatalf("expected %v, got %v", want, skills)
	}
	for i := range want {
		if skills[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, skills)
		}
	}
}

func TestSkillExtractorWholeWordOnly(t *testing.T) {
	extractor := NewSkillExtractor(nil)

	skills := extractor.Extract("worked with javascripting tools")
	for _, s := range skills {
		if s == "Java" || s == "JavaScript" {
			t.Fatalf("unexpected partial-word match: %v", skills)
		}
	}
}

func TestSkillExtractorCustomVocabulary(t *testing.T) {
	extractor := NewSkillExtractor([]string{"Terraform", "Ansible", " ", "terraform"})

	if got := extractor.Vocabulary(); len(got) != 2 {
		t.Fatalf("expected deduplicated vocabulary of 2, got %v", got)
	}

	skills := extractor.Extract("Automated infra with terraform modules")
	if len(skills) != 1 || skills[0] != "Terraform" {
		t.Fatalf("expected [Terraform], got %v", skills)
	}
}

func TestCleanText(t *testing.T) {
	got := CleanText("  Hello\n\tworld **stars** (ok)  ")
	if got != "Hello world stars (ok)" {
		t.Fatalf("unexpected cleaned text: %q", got)
	}
}

func TestFindContactInfo(t *testing.T) {
	info := FindContactInfo("Reach us at jobs@acme.io or call 555-123-4567 today")
	if info.Email != "jobs@acme.io" {
		t.Fatalf("unexpected email: %q", info.Email)
	}
	if info.Phone != "555-123-4567" {
		t.Fatalf("unexpected phone: %q", info.Phone)
	}
}

func TestFindJobDetails(t *testing.T) {
	text := "Position: Senior Backend Engineer\nCompany: Acme Corp\nWe need 5+ years of experience"
	details := FindJobDetails(text)

	if details.Title != "Senior Backend Engineer" {
		t.Fatalf("unexpected title: %q", details.Title)
	}
	if details.Company != "Acme Corp" {
		t.Fatalf("unexpected company: %q", details.Company)
	}
	if details.ExperienceLevel != "5+ years of experience" {
		t.Fatalf("unexpected experience level: %q", details.ExperienceLevel)
	}
}

func TestValidateReportsMissingColumns(t *testing.T) {
	extractor := NewExtractor(nil, nil)

	job := &JobRecord{
		Text:           strings.Repeat("backend engineering role ", 10),
		SkillsRequired: []string{"Python"},
		Contact:        ContactInfo{Email: "hr@acme.io"},
		WordCount:      40,
	}
	candidates := []CandidateRecord{
		{Index: 0, Name: "Ada", Email: "ada@example.com", RawSkills: "Python"},
	}

	v := extractor.Validate(job, candidates)
	if !v.JobDescriptionValid || !v.JobHasSkills || !v.JobHasContact {
		t.Fatalf("unexpected job validation: %+v", v)
	}
	if v.RosterValid {
		t.Fatalf("expected roster invalid, experience column missing: %+v", v)
	}
	if len(v.MissingColumns) != 1 || v.MissingColumns[0] != "experience" {
		t.Fatalf("unexpected missing columns: %v", v.MissingColumns)
	}
	if v.ValidEmails != 1 {
		t.Fatalf("expected 1 valid email, got %d", v.ValidEmails)
	}
}
