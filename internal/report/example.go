package report

import (
	_ "embed"
	"sync"

	"github.com/mithrel/ideaval/pkg/api"
)

//go:embed example.json
var exampleJSON []byte

var (
	exampleOnce sync.Once
	example     api.ValidationResult
)

// Example returns the static demonstration report substituted when a
// submission fails. Structured fields are normalized to markdown.
func Example() api.ValidationResult {
	exampleOnce.Do(func() {
		r, err := api.DecodeValidationResult(exampleJSON)
		if err != nil {
			panic("report: embedded example is invalid: " + err.Error())
		}
		example = r
	})
	out := example
	out.Messages = append([]string{}, example.Messages...)
	return out
}

// ExampleJSON returns the raw embedded payload, as the API would send it.
func ExampleJSON() []byte {
	return append([]byte(nil), exampleJSON...)
}
