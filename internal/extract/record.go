package extract

// JobDetails holds the structured fields recovered from a job description.
// All fields are optional; heuristics leave them empty when nothing matches.
type JobDetails struct {
	Title           string `json:"title,omitempty" mapstructure:"title"`
	Company         string `json:"company,omitempty" mapstructure:"company"`
	Location        string `json:"location,omitempty" mapstructure:"location"`
	SalaryRange     string `json:"salary_range,omitempty" mapstructure:"salary_range"`
	JobType         string `json:"job_type,omitempty" mapstructure:"job_type"`
	ExperienceLevel string `json:"experience_level,omitempty" mapstructure:"experience_level"`
}

// ContactInfo holds contact details found in the job description text.
type ContactInfo struct {
	Email string `json:"email,omitempty" mapstructure:"email"`
	Phone string `json:"phone,omitempty" mapstructure:"phone"`
}

// JobRecord is the extraction output for a job description. It is created
// once per run and never mutated afterwards.
type JobRecord struct {
	Text           string      `json:"text" mapstructure:"text"`
	SkillsRequired []string    `json:"skills_required" mapstructure:"skills_required"`
	Details        JobDetails  `json:"details" mapstructure:"details"`
	Contact        ContactInfo `json:"contact" mapstructure:"contact"`
	WordCount      int         `json:"word_count" mapstructure:"word_count"`
	SourcePath     string      `json:"source_path,omitempty" mapstructure:"source_path"`
}

// CandidateRecord is one roster row after normalization. Index is the
// candidate's position in the source roster and is unique within a run.
type CandidateRecord struct {
	Index           int      `json:"index" mapstructure:"index"`
	Name            string   `json:"name" mapstructure:"name"`
	Email           string   `json:"email" mapstructure:"email"`
	Phone           string   `json:"phone,omitempty" mapstructure:"phone"`
	RawSkills       string   `json:"raw_skills,omitempty" mapstructure:"raw_skills"`
	Experience      string   `json:"experience,omitempty" mapstructure:"experience"`
	Education       string   `json:"education,omitempty" mapstructure:"education"`
	Location        string   `json:"location,omitempty" mapstructure:"location"`
	ExtractedSkills []string `json:"extracted_skills" mapstructure:"extracted_skills"`
	ProfileSummary  string   `json:"profile_summary" mapstructure:"profile_summary"`
}

// Validation summarizes basic quality checks over the extraction output.
// It is advisory: the pipeline proceeds as long as hard contracts hold.
type Validation struct {
	JobDescriptionValid bool     `json:"job_description_valid"`
	JobWordCount        int      `json:"job_word_count"`
	JobHasSkills        bool     `json:"job_has_skills"`
	JobHasContact       bool     `json:"job_has_contact"`
	RosterValid         bool     `json:"roster_valid"`
	MissingColumns      []string `json:"missing_columns,omitempty"`
	TotalRecords        int      `json:"total_records"`
	ValidEmails         int      `json:"valid_emails"`
}
