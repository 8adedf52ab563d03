package printing

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egma/backend/internal/domain/crm"
	"github.com/egma/backend/internal/domain/shared/valueobject"
)

func newTestProposal(t *testing.T) *crm.Proposal {
	t.Helper()

	p, err := crm.NewProposal(
		"Website Redesign & Rebrand",
		crm.ContactInfo{Name: "Acme Studios", Email: "hello@acme.example"},
		"Full redesign of the marketing site with a refreshed visual identity.",
		"Discovery, design system, five page templates, CMS integration.",
		"8 weeks from kickoff",
		decimal.NewFromInt(250000),
		valueobject.INR,
	)
	require.NoError(t, err)

	p.Deliverables = crm.StringList{"Design system", "Five page templates", "CMS setup"}
	p.Terms = "50% upfront, 50% on delivery."
	return p
}

// readDocxDocument unpacks the generated container and returns word/document.xml
func readDocxDocument(t *testing.T, data []byte) string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make(map[string]bool)
	var document string
	for _, f := range zr.File {
		names[f.Name] = true
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			require.NoError(t, err)
			content, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.NoError(t, rc.Close())
			document = string(content)
		}
	}

	assert.True(t, names["[Content_Types].xml"])
	assert.True(t, names["_rels/.rels"])
	require.True(t, names["word/document.xml"])
	return document
}

func TestProposalDocxWriter_Write(t *testing.T) {
	writer := NewProposalDocxWriter()

	data, err := writer.Write(newTestProposal(t))
	require.NoError(t, err)
	require.NotEmpty(t, data)

	document := readDocxDocument(t, data)

	assert.Contains(t, document, "Website Redesign &amp; Rebrand")
	assert.Contains(t, document, "Prepared for Acme Studios")
	assert.Contains(t, document, "Scope of Work")
	assert.Contains(t, document, "Design system")
	assert.Contains(t, document, "8 weeks from kickoff")
	assert.Contains(t, document, "₹250,000.00 (INR)")
	assert.Contains(t, document, "50% upfront, 50% on delivery.")
}

func TestProposalDocxWriter_SentDate(t *testing.T) {
	writer := NewProposalDocxWriter()

	p := newTestProposal(t)
	sent := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, p.ChangeStatus(crm.ProposalStatusSent, sent))

	data, err := writer.Write(p)
	require.NoError(t, err)

	document := readDocxDocument(t, data)
	assert.Contains(t, document, "Sent 02 Apr 2025")
}

func TestProposalDocxWriter_NilProposal(t *testing.T) {
	writer := NewProposalDocxWriter()

	_, err := writer.Write(nil)
	require.Error(t, err)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeDocxFailed, renderErr.Code)
}
