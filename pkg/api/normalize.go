package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

var riskLabelRe = regexp.MustCompile(`(?i)^risk_assessment:\s*`)

// ErrNotObject is returned when a payload is not a JSON object.
var ErrNotObject = errors.New("payload is not a JSON object")

// DecodeValidationResult parses a loosely typed API payload into a
// structurally complete ValidationResult. Extra fields are ignored.
func DecodeValidationResult(data []byte) (ValidationResult, error) {
	raw, err := decodeObject(data)
	if err != nil {
		return ValidationResult{}, err
	}
	return Normalize(raw), nil
}

// DecodeStoredResult parses a result this program stored earlier. It was
// normalized before it was written, so the risk text is kept verbatim.
func DecodeStoredResult(data []byte) (ValidationResult, error) {
	raw, err := decodeObject(data)
	if err != nil {
		return ValidationResult{}, err
	}
	return normalize(raw, false), nil
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, ErrNotObject
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode validation result: %w", err)
	}
	return raw, nil
}

// Normalize applies the defaulting rules: missing text fields become "",
// structured values become markdown, messages is always a slice and the
// risk field loses an accidental "risk_assessment:" label.
func Normalize(raw map[string]json.RawMessage) ValidationResult {
	return normalize(raw, true)
}

func normalize(raw map[string]json.RawMessage, stripRisk bool) ValidationResult {
	risk := textField(raw["risk_assessment"])
	if stripRisk {
		risk = StripRiskLabel(risk)
	}
	return ValidationResult{
		StartupIdea:            textField(raw["startup_idea"]),
		IdeaAnalysis:           textField(raw["idea_analysis"]),
		SwotAnalysis:           textField(raw["swot_analysis"]),
		MarketAnalysis:         textField(raw["market_analysis"]),
		CompetitionAnalysis:    textField(raw["competition_analysis"]),
		RiskAssessment:         risk,
		AdvisorRecommendations: textField(raw["advisor_recommendations"]),
		Advice:                 textField(raw["advice"]),
		Messages:               messagesField(raw["messages"]),
	}
}

// Complete fills nil slices so a value built in code satisfies the same
// invariant as a decoded one. Text fields are left alone.
func (r ValidationResult) Complete() ValidationResult {
	if r.Messages == nil {
		r.Messages = []string{}
	}
	return r
}

// StripRiskLabel removes a leading, case-insensitive "risk_assessment:" label.
func StripRiskLabel(s string) string {
	return riskLabelRe.ReplaceAllString(s, "")
}

func textField(msg json.RawMessage) string {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 || bytes.Equal(msg, []byte("null")) {
		return ""
	}
	switch msg[0] {
	case '"':
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return ""
		}
		return s
	case '{', '[':
		md, err := StructuredMarkdown(msg)
		if err != nil {
			return ""
		}
		return md
	default:
		return string(msg)
	}
}

func messagesField(msg json.RawMessage) []string {
	out := []string{}
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 || msg[0] != '[' {
		return out
	}
	var items []json.RawMessage
	if err := json.Unmarshal(msg, &items); err != nil {
		return out
	}
	for _, it := range items {
		it = bytes.TrimSpace(it)
		if len(it) == 0 || bytes.Equal(it, []byte("null")) {
			continue
		}
		if it[0] == '"' {
			var s string
			if err := json.Unmarshal(it, &s); err == nil {
				out = append(out, s)
				continue
			}
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, it); err != nil {
			continue
		}
		out = append(out, buf.String())
	}
	return out
}
