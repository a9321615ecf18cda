package extract

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/recruitflow/recruitflow/internal/fault"
)

// columnAliases maps every canonical roster column to the header spellings
// accepted for it. Headers are compared after normalization (trimmed,
// lowercased, underscores replaced with spaces).
var columnAliases = map[string][]string{
	"name":       {"name", "full name", "candidate name", "applicant name"},
	"email":      {"email", "email address", "contact email", "e mail"},
	"phone":      {"phone", "phone number", "contact number", "mobile"},
	"skills":     {"skills", "technical skills", "expertise", "competencies"},
	"experience": {"experience", "work experience", "years experience", "exp"},
	"education":  {"education", "qualification", "degree", "academic background"},
	"location":   {"location", "city", "address", "current location"},
}

// requiredColumns are checked by Validate; their absence does not abort
// extraction but is reported.
var requiredColumns = []string{"name", "email", "skills", "experience"}

// readRoster parses the CSV file into canonical-keyed row maps. The first
// record is the header; unknown columns are dropped.
func readRoster(path string) ([]map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fault.Wrap(fault.Validation, err, "open roster")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fault.Newf(fault.Validation, "roster %s is empty", path)
		}
		return nil, fault.Wrap(fault.Validation, err, "read roster header")
	}

	canonical := make([]string, len(header))
	for i, col := range header {
		canonical[i] = canonicalColumn(col)
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fault.Wrap(fault.Validation, err, "read roster row")
		}

		row := make(map[string]string, len(canonical))
		for i, value := range record {
			if i >= len(canonical) || canonical[i] == "" {
				continue
			}
			row[canonical[i]] = strings.TrimSpace(value)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fault.Newf(fault.Validation, "no candidate rows found in %s", path)
	}

	return rows, nil
}

func canonicalColumn(header string) string {
	normalized := strings.TrimSpace(strings.ToLower(header))
	normalized = strings.ReplaceAll(normalized, "_", " ")

	for canonical, aliases := range columnAliases {
		for _, alias := range aliases {
			if normalized == alias {
				return canonical
			}
		}
	}
	return ""
}
