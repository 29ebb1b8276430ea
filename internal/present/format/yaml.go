package format

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mithrel/ideaval/pkg/api"
)

// WriteYAMLResult writes r with block scalars for the markdown fields.
func WriteYAMLResult(w io.Writer, r api.ValidationResult) error {
	return writeYAML(w, r.Complete())
}

func WriteYAMLReports(w io.Writer, reps []api.Report) error {
	if reps == nil {
		reps = []api.Report{}
	}
	return writeYAML(w, reps)
}

func WriteYAMLReport(w io.Writer, rep api.Report) error {
	return writeYAML(w, rep)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
