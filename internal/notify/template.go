package notify

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether the address is plausibly deliverable.
func ValidEmail(email string) bool {
	return emailRe.MatchString(strings.TrimSpace(email))
}

// Subject builds the outreach subject line.
func Subject(job JobDisplay) string {
	switch {
	case job.Company != "" && job.Title != "":
		return fmt.Sprintf("Exciting Opportunity at %s - %s", job.Company, job.Title)
	case job.Title != "":
		return fmt.Sprintf("Exciting Opportunity - %s", job.Title)
	default:
		return "Exciting Job Opportunity"
	}
}

// Body builds the personalized plain-text outreach message. At most the
// candidate's first three skills are mentioned.
func Body(candidateName string, job JobDisplay, matchScore float64, keySkills []string) string {
	if candidateName == "" {
		candidateName = "Candidate"
	}

	skills := keySkills
	if len(skills) > 3 {
		skills = skills[:3]
	}
	skillLine := ""
	if len(skills) > 0 {
		skillLine = fmt.Sprintf("Your skills in %s particularly align well with our requirements ", strings.Join(skills, ", "))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", candidateName)
	fmt.Fprintf(&b, "I hope this email finds you well. I am reaching out regarding an exciting %s opportunity at %s.\n\n",
		orDefault(job.Title, "new"), orDefault(job.Company, "our client"))
	fmt.Fprintf(&b, "Based on your profile, I believe you would be an excellent fit for this role. %s(Match Score: %.0f%%).\n\n",
		skillLine, matchScore*100)
	b.WriteString("Key highlights of this opportunity:\n")
	b.WriteString("- Work with cutting-edge technology\n")
	b.WriteString("- Collaborative team environment\n")
	b.WriteString("- Competitive compensation package\n")
	b.WriteString("- Growth opportunities\n\n")
	b.WriteString("I would love to discuss this opportunity with you in more detail. Are you available for a brief call this week?\n\n")
	fmt.Fprintf(&b, "Best regards,\nRecruitment Team\n%s\n\n", orDefault(job.Company, ""))
	b.WriteString("---\nThis is an automated message from our recruitment system.")

	return b.String()
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
