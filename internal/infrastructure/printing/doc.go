// Package printing provides infrastructure implementations for document
// generation: invoice PDFs and proposal Word documents.
//
// This package contains:
// - PDFRenderer interface for rendering HTML to PDF
// - ChromedpRenderer implementation using the Chrome DevTools Protocol
// - TemplateEngine for binding business data to HTML templates
// - InvoiceDocumentBuilder for producing invoice render requests
// - ProposalDocxWriter for producing proposal DOCX files
//
// Example usage:
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{
//	    DefaultTimeout: 30 * time.Second,
//	    NoSandbox:      true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer renderer.Close()
//
//	builder := NewInvoiceDocumentBuilder(NewTemplateEngine())
//	req, err := builder.BuildRenderRequest(ctx, invoice)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := renderer.Render(ctx, req)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Generated PDF: %d bytes\n", len(result.PDFData))
package printing
