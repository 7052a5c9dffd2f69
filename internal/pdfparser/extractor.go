package pdfparser

import (
	"bytes"
	"fmt"

	"github.com/dslipak/pdf"
)

// Extractor turns a PDF file into plain text. The interface exists so the
// parser can be exercised in tests without real PDF fixtures.
type Extractor interface {
	// ExtractText returns the concatenated text of all pages.
	ExtractText(pdfPath string) (string, error)
}

// RealExtractor extracts text using the dslipak/pdf reader.
type RealExtractor struct{}

// NewRealExtractor creates the production Extractor.
func NewRealExtractor() *RealExtractor {
	return &RealExtractor{}
}

// ExtractText extracts the whole document's plain text. Encrypted or
// malformed files surface as errors from the underlying reader.
func (e *RealExtractor) ExtractText(pdfPath string) (string, error) {
	r, err := pdf.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("error opening PDF: %w", err)
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("error extracting PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("error reading PDF text: %w", err)
	}
	return buf.String(), nil
}

// MockExtractor returns predefined text or an error, for tests.
type MockExtractor struct {
	Text string
	Err  error
}

// NewMockExtractor creates a MockExtractor with the given canned result.
func NewMockExtractor(text string, err error) *MockExtractor {
	return &MockExtractor{Text: text, Err: err}
}

// ExtractText returns the canned text or error.
func (e *MockExtractor) ExtractText(string) (string, error) {
	if e.Err != nil {
		return "", e.Err
	}
	return e.Text, nil
}
