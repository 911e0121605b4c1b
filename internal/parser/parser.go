package parser

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fjglira/storycases/internal/domain"
)

// DefaultFormat is the format of text returned by the generator backend.
const DefaultFormat = "md"

// Extractor recovers test case records from generated text.
type Extractor interface {
	Extract(rawText string) []domain.TestCaseRecord
	SupportedFormats() []string
}

// ExtractorRegistry maps formats (file extensions) to extractors.
type ExtractorRegistry interface {
	Register(e Extractor)
	ExtractorFor(format string) (Extractor, error)
}

// MarkdownExtractor handles the generator's markdown dialect.
type MarkdownExtractor struct{}

// NewMarkdownExtractor creates a new MarkdownExtractor.
func NewMarkdownExtractor() *MarkdownExtractor {
	return &MarkdownExtractor{}
}

// SupportedFormats returns the formats this extractor handles.
func (e *MarkdownExtractor) SupportedFormats() []string {
	return []string{".md", ".markdown", ".txt"}
}

// Extract implements Extractor.
func (e *MarkdownExtractor) Extract(rawText string) []domain.TestCaseRecord {
	return Extract(rawText)
}

// DefaultRegistry is a thread-safe extractor registry with fallback support.
type DefaultRegistry struct {
	mu         sync.RWMutex
	extractors map[string]Extractor
	fallback   Extractor
}

// NewRegistry creates a new DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		extractors: make(map[string]Extractor),
	}
}

// NewDefaultRegistry returns a registry with the markdown extractor
// registered and set as fallback.
func NewDefaultRegistry() *DefaultRegistry {
	r := NewRegistry()
	md := NewMarkdownExtractor()
	r.Register(md)
	r.SetFallback(md)
	return r
}

// Register adds an extractor to the registry for each of its formats.
func (r *DefaultRegistry) Register(e Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range e.SupportedFormats() {
		r.extractors[normalizeFormat(f)] = e
	}
}

// SetFallback sets the extractor used for unregistered formats.
func (r *DefaultRegistry) SetFallback(e Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = e
}

// ExtractorFor returns the extractor registered for the given format.
// If none is found, it returns the fallback extractor if set.
func (r *DefaultRegistry) ExtractorFor(format string) (Extractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.extractors[normalizeFormat(format)]; ok {
		return e, nil
	}
	if r.fallback != nil {
		return r.fallback, nil
	}
	return nil, fmt.Errorf("no extractor registered for format %q", format)
}

func normalizeFormat(f string) string {
	return strings.ToLower(strings.TrimPrefix(f, "."))
}
