// Package source supplies per-page text for the extraction pipeline.
// Providers yield pages in reading order with 1-based contiguous numbering.
package source

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Page is one page of extracted text.
type Page struct {
	Number int
	Text   string
}

// Provider yields the ordered page texts of a document.
type Provider interface {
	Pages() ([]Page, error)
}

// ValidatePages checks the provider contract: 1-based contiguous page
// numbers in reading order.
func ValidatePages(pages []Page) error {
	if len(pages) == 0 {
		return fmt.Errorf("document has no pages")
	}
	for i, p := range pages {
		if p.Number != i+1 {
			return fmt.Errorf("page %d out of order: expected number %d, got %d", i, i+1, p.Number)
		}
	}
	return nil
}

// paginate splits raw text on form feeds, the page separator emitted by
// pdftotext and preserved in plain-text dumps.
func paginate(text string) []Page {
	parts := strings.Split(text, "\f")
	// A trailing form feed produces an empty final part; drop it.
	if len(parts) > 1 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	pages := make([]Page, len(parts))
	for i, part := range parts {
		pages[i] = Page{Number: i + 1, Text: part}
	}
	return pages
}

// TextProvider reads a plain-text document with form-feed page breaks.
type TextProvider struct {
	Path string
}

// Pages reads and paginates the text file.
func (p *TextProvider) Pages() ([]Page, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source text: %w", err)
	}
	return paginate(string(data)), nil
}

// PDFProvider extracts page text from a PDF by shelling out to pdftotext.
type PDFProvider struct {
	Path string
}

// Pages runs pdftotext and paginates its output on form feeds.
func (p *PDFProvider) Pages() ([]Page, error) {
	cmd := exec.Command("pdftotext", p.Path, "-")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}
	return paginate(string(output)), nil
}

// MemoryProvider serves pre-built page texts, numbering them 1..n.
type MemoryProvider struct {
	Texts []string
}

// Pages returns the in-memory texts as numbered pages.
func (p *MemoryProvider) Pages() ([]Page, error) {
	pages := make([]Page, len(p.Texts))
	for i, text := range p.Texts {
		pages[i] = Page{Number: i + 1, Text: text}
	}
	return pages, nil
}

// FromPath picks a provider based on the file extension: .pdf gets the
// pdftotext provider, everything else is treated as plain text.
func FromPath(path string) Provider {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return &PDFProvider{Path: path}
	}
	return &TextProvider{Path: path}
}
