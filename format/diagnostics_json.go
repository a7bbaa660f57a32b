package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/yaksok/diag"
)

type DiagnosticJSONEncoder struct {
	w    io.Writer
	path string
}

// NewDiagnosticJSONEncoder writes diagnostics of the file at path as one
// JSON array per Encode call.
func NewDiagnosticJSONEncoder(w io.Writer, path string) *DiagnosticJSONEncoder {
	return &DiagnosticJSONEncoder{w: w, path: path}
}

type jsonDiagnostic struct {
	Path       string    `json:"path,omitempty"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Span       *jsonSpan `json:"span,omitempty"`
	Suggestion string    `json:"suggestion,omitempty"`
}

func (e *DiagnosticJSONEncoder) Encode(diags []*diag.Diagnostic) error {
	records := make([]jsonDiagnostic, 0, len(diags))
	for _, d := range diags {
		records = append(records, jsonDiagnostic{
			Path:       e.path,
			Code:       d.Code.String(),
			Message:    d.Message(),
			Span:       spanOf(d.Tokens),
			Suggestion: d.Suggestion,
		})
	}
	enc := json.NewEncoder(e.w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
