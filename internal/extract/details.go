package extract

import "regexp"

var (
	titlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)position[:\s]+([^\n.]+)`),
		regexp.MustCompile(`(?i)role[:\s]+([^\n.]+)`),
		regexp.MustCompile(`(?i)job\s+title[:\s]+([^\n.]+)`),
		regexp.MustCompile(`(?i)we\s+are\s+looking\s+for\s+an?\s+([^\n.]+)`),
	}

	companyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)company[:\s]+([^\n.]+)`),
		regexp.MustCompile(`(?i)organization[:\s]+([^\n.]+)`),
		regexp.MustCompile(`(?i)about\s+([A-Z][a-zA-Z\s]+?)\s+is\s+`),
	}

	experiencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+\+?\s*years?\s*of?\s*experience)`),
		regexp.MustCompile(`(?i)(junior|senior|mid-level|entry-level|experienced)`),
		regexp.MustCompile(`(?i)experience[:\s]+([^\n.]+)`),
	}
)

// FindJobDetails fills the structured job fields with the first pattern hit
// per field. The heuristics are deliberately shallow; fields stay empty when
// the text gives no signal.
func FindJobDetails(text string) JobDetails {
	details := JobDetails{}
	details.Title = firstMatch(titlePatterns, text)
	details.Company = firstMatch(companyPatterns, text)
	details.ExperienceLevel = firstMatch(experiencePatterns, text)
	return details
}

func firstMatch(patterns []*regexp.Regexp, text string) string {
	for _, pattern := range patterns {
		if m := pattern.FindStringSubmatch(text); len(m) > 1 {
			return CleanText(m[1])
		}
	}
	return ""
}
