package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfText extracts the position-joined plain text of every page and
// concatenates them. The underlying reader panics on some malformed
// streams, so failures of any shape are returned as an error and the
// caller downgrades them to a structural warning
func pdfText(content []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf text extraction panicked: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("unable to open pdf: %w", err)
	}

	var pages []string

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue // skip unreadable pages, the rest may still match
		}

		pages = append(pages, pageText)
	}

	if len(pages) == 0 {
		return "", fmt.Errorf("no readable pages in pdf")
	}

	return strings.Join(pages, " "), nil
}
