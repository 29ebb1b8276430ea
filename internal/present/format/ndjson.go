package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/ideaval/pkg/api"
)

// WriteNDJSONReports writes reports as newline-delimited JSON objects.
func WriteNDJSONReports(w io.Writer, reps []api.Report) error {
	enc := json.NewEncoder(w)
	for _, r := range reps {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}
