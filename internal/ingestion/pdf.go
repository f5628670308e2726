package ingestion

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ExtractPDFText parses a PDF document and returns its visible text in page
// order. Glyph codes are decoded through each font's ToUnicode CMap or
// encoding. A document without text operators yields "".
func ExtractPDFText(raw []byte) (string, error) {
	// Structural validation first so a broken file reports a pdfcpu diagnosis.
	if _, err := api.ReadValidateAndOptimize(bytes.NewReader(raw), model.NewDefaultConfiguration()); err != nil {
		return "", &ExtractionError{Format: "pdf", Message: "failed to parse document", Cause: err}
	}

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", &ExtractionError{Format: "pdf", Message: "failed to open document", Cause: err}
	}

	var sb strings.Builder
	for pageNr := 1; pageNr <= reader.NumPage(); pageNr++ {
		page := reader.Page(pageNr)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", &ExtractionError{
				Format:  "pdf",
				Message: "failed to read text of page " + strconv.Itoa(pageNr),
				Cause:   err,
			}
		}
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(pageText)
	}

	return CleanText(sb.String()), nil
}
