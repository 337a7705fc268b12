package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/ingestion"
)

func TestValidateIngestRequest(t *testing.T) {
	tests := []struct {
		name   string
		req    ingestion.IngestRequest
		fields []string
	}{
		{"valid", ingestion.IngestRequest{DocumentID: "doc-1", Body: "quick fox"}, nil},
		{"title only", ingestion.IngestRequest{Title: "Quick fox"}, nil},
		{"empty", ingestion.IngestRequest{Body: "   "}, []string{"body"}},
		{"long title", ingestion.IngestRequest{Title: strings.Repeat("t", maxTitleLength+1), Body: "x"}, []string{"title"}},
		{"padded id", ingestion.IngestRequest{DocumentID: " doc", Body: "x"}, []string{"document_id"}},
		{"two fields", ingestion.IngestRequest{DocumentID: strings.Repeat("d", 300)}, []string{"document_id", "body"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIngestRequest(&tt.req)
			if len(tt.fields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if len(verr.Fields) != len(tt.fields) {
				t.Fatalf("fields = %v, want %v", verr.Fields, tt.fields)
			}
			for _, f := range tt.fields {
				if _, ok := verr.Fields[f]; !ok {
					t.Errorf("missing field %q in %v", f, verr.Fields)
				}
			}
		})
	}
}
