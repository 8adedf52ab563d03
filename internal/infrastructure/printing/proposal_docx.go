package printing

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/egma/backend/internal/domain/crm"
)

// Error code for DOCX generation failures
const ErrCodeDocxFailed = "DOCX_FAILED"

// ProposalDocxWriter generates a Word document (WordprocessingML inside a
// zip container) from a proposal aggregate. The output opens in Word,
// LibreOffice and Google Docs so clients can redline it before signing.
type ProposalDocxWriter struct{}

// NewProposalDocxWriter creates a new DOCX writer
func NewProposalDocxWriter() *ProposalDocxWriter {
	return &ProposalDocxWriter{}
}

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const docxDocumentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

const docxDocumentFooter = `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1134" w:right="1134" w:bottom="1134" w:left="1134"/></w:sectPr></w:body></w:document>`

// Write generates the DOCX file content for a proposal
func (w *ProposalDocxWriter) Write(p *crm.Proposal) ([]byte, error) {
	if p == nil {
		return nil, NewRenderError(ErrCodeDocxFailed, "proposal is nil", nil)
	}

	var doc strings.Builder
	doc.WriteString(docxDocumentHeader)

	writeDocxHeading(&doc, p.Title, 1)
	writeDocxParagraph(&doc, "Prepared for "+p.Client.Name)
	if p.Client.Email != "" {
		writeDocxParagraph(&doc, p.Client.Email)
	}
	if p.SentDate != nil {
		writeDocxParagraph(&doc, "Sent "+formatDate(p.SentDate))
	}
	writeDocxParagraph(&doc, "")

	writeDocxHeading(&doc, "Overview", 2)
	writeDocxParagraph(&doc, p.Description)

	writeDocxHeading(&doc, "Scope of Work", 2)
	writeDocxParagraph(&doc, p.Scope)

	if len(p.Deliverables) > 0 {
		writeDocxHeading(&doc, "Deliverables", 2)
		for _, d := range p.Deliverables {
			writeDocxBullet(&doc, d)
		}
	}

	writeDocxHeading(&doc, "Timeline", 2)
	writeDocxParagraph(&doc, p.Timeline)

	writeDocxHeading(&doc, "Budget Estimate", 2)
	writeDocxParagraph(&doc, formatMoney(p.Currency.Symbol(), p.BudgetEstimate)+" ("+string(p.Currency)+")")

	if p.Terms != "" {
		writeDocxHeading(&doc, "Terms", 2)
		writeDocxParagraph(&doc, p.Terms)
	}

	if p.Notes != "" {
		writeDocxHeading(&doc, "Notes", 2)
		writeDocxParagraph(&doc, p.Notes)
	}

	doc.WriteString(docxDocumentFooter)

	return packDocx(doc.String())
}

// packDocx assembles the zip container around the document part
func packDocx(documentXML string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRels},
		{"word/document.xml", documentXML},
	}

	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return nil, NewRenderError(ErrCodeDocxFailed, "failed to create zip entry "+part.name, err)
		}
		if _, err := f.Write([]byte(part.content)); err != nil {
			return nil, NewRenderError(ErrCodeDocxFailed, "failed to write zip entry "+part.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, NewRenderError(ErrCodeDocxFailed, "failed to finalize docx container", err)
	}

	return buf.Bytes(), nil
}

func writeDocxHeading(b *strings.Builder, text string, level int) {
	size := "32" // half-points
	if level > 1 {
		size = "26"
	}
	b.WriteString(`<w:p><w:pPr><w:spacing w:before="240" w:after="120"/></w:pPr>`)
	b.WriteString(`<w:r><w:rPr><w:b/><w:sz w:val="` + size + `"/></w:rPr>`)
	writeDocxText(b, text)
	b.WriteString(`</w:r></w:p>`)
}

func writeDocxParagraph(b *strings.Builder, text string) {
	b.WriteString(`<w:p><w:r>`)
	writeDocxText(b, text)
	b.WriteString(`</w:r></w:p>`)
}

func writeDocxBullet(b *strings.Builder, text string) {
	b.WriteString(`<w:p><w:pPr><w:ind w:left="360"/></w:pPr><w:r>`)
	writeDocxText(b, "• "+text)
	b.WriteString(`</w:r></w:p>`)
}

// writeDocxText writes an escaped text run, preserving line breaks
func writeDocxText(b *strings.Builder, text string) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i > 0 {
			b.WriteString(`<w:br/>`)
		}
		b.WriteString(`<w:t xml:space="preserve">`)
		_ = xml.EscapeText(b, []byte(line))
		b.WriteString(`</w:t>`)
	}
}
