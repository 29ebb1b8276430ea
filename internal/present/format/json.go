package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/ideaval/pkg/api"
)

func WriteJSONResult(w io.Writer, r api.ValidationResult, indent bool) error {
	return writeJSON(w, r.Complete(), indent)
}

func WriteJSONReports(w io.Writer, reps []api.Report, indent bool) error {
	if reps == nil {
		reps = []api.Report{}
	}
	return writeJSON(w, reps, indent)
}

func WriteJSONReport(w io.Writer, rep api.Report, indent bool) error {
	return writeJSON(w, rep, indent)
}

func writeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
