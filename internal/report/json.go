package report

import (
	"io"
	"time"

	"github.com/goccy/go-json"

	"github.com/rshade/hpc-carbon-estimator/internal/carbon"
	"github.com/rshade/hpc-carbon-estimator/internal/input"
)

// Document is the machine-readable form of a report.
type Document struct {
	*carbon.Assessment

	LocationInfo string             `json:"location_info,omitempty"`
	Adjustments  []input.Adjustment `json:"adjustments,omitempty"`
	Assumptions  []string           `json:"assumptions"`
	Disclaimer   string             `json:"disclaimer"`
	GeneratedAt  *time.Time         `json:"generated_at,omitempty"`
}

// ErrorDocument is the machine-readable form of a stopped assessment.
type ErrorDocument struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// NewDocument builds the document for an assessment.
func NewDocument(a *carbon.Assessment, opts Options) Document {
	doc := Document{
		Assessment:   a,
		LocationInfo: LocationInfo(a),
		Adjustments:  opts.Adjustments,
		Assumptions:  Assumptions(a),
		Disclaimer:   Disclaimer,
	}
	if !opts.Now.IsZero() {
		now := opts.Now.UTC()
		doc.GeneratedAt = &now
	}
	return doc
}

// WriteJSON writes the indented JSON document for an assessment.
func WriteJSON(w io.Writer, a *carbon.Assessment, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(a, opts))
}

// NewErrorDocument builds the error document for err.
func NewErrorDocument(err error, requestID string) ErrorDocument {
	return ErrorDocument{
		Error:     err.Error(),
		Message:   carbon.UserMessage(err),
		RequestID: requestID,
	}
}

// WriteErrorJSON writes the error document for a stopped assessment.
func WriteErrorJSON(w io.Writer, err error) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewErrorDocument(err, ""))
}
