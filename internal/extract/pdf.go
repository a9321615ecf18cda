package extract

import (
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/recruitflow/recruitflow/internal/fault"
)

// ReadPDFText extracts the plain text of every page of the document.
// Pages that cannot be decoded are skipped; a document yielding no text at
// all is a validation failure.
func ReadPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fault.Wrap(fault.Validation, err, "open pdf")
	}
	defer f.Close()

	var builder strings.Builder
	total := r.NumPage()

	for pageIndex := 1; pageIndex <= total; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		builder.WriteString(text)
		builder.WriteString("\n\n")
	}

	text := builder.String()
	if strings.TrimSpace(text) == "" {
		return "", fault.Newf(fault.Validation, "no text content found in %s", path)
	}

	return text, nil
}
