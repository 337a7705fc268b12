// Package validator provides input validation for ingestion requests. It
// enforces document ID, title and body constraints and returns per-field
// error details.
package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/ingestion"
)

const (
	maxDocumentIDLength = 255
	maxTitleLength      = 1024
	maxBodyLength       = 1048576
)

// ValidationError holds per-field validation failure messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

// ValidateIngestRequest checks the request fields and returns a
// ValidationError listing every offending field.
func ValidateIngestRequest(req *ingestion.IngestRequest) error {
	errs := make(map[string]string)

	if id := req.DocumentID; id != "" {
		if len(id) > maxDocumentIDLength {
			errs["document_id"] = fmt.Sprintf("document_id must be at most %d characters", maxDocumentIDLength)
		} else if strings.TrimSpace(id) != id || strings.ContainsAny(id, "\r\n\t") {
			errs["document_id"] = "document_id must not contain surrounding or control whitespace"
		}
	}
	if len(req.Title) > maxTitleLength {
		errs["title"] = fmt.Sprintf("title must be at most %d characters", maxTitleLength)
	}
	body := strings.TrimSpace(req.Body)
	if body == "" && strings.TrimSpace(req.Title) == "" {
		errs["body"] = "body or title is required"
	} else if len(req.Body) > maxBodyLength {
		errs["body"] = fmt.Sprintf("body must be at most %d characters", maxBodyLength)
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
