package api

import "time"

// ValidationResult is the canonical report shape returned by the analysis API.
// Every text field is a markdown block; Messages is never nil once normalized.
type ValidationResult struct {
	StartupIdea            string   `json:"startup_idea" yaml:"startup_idea"`
	IdeaAnalysis           string   `json:"idea_analysis" yaml:"idea_analysis"`
	SwotAnalysis           string   `json:"swot_analysis" yaml:"swot_analysis"`
	MarketAnalysis         string   `json:"market_analysis" yaml:"market_analysis"`
	CompetitionAnalysis    string   `json:"competition_analysis" yaml:"competition_analysis"`
	RiskAssessment         string   `json:"risk_assessment" yaml:"risk_assessment"`
	AdvisorRecommendations string   `json:"advisor_recommendations" yaml:"advisor_recommendations"`
	Advice                 string   `json:"advice" yaml:"advice"`
	Messages               []string `json:"messages" yaml:"messages"`
}

// Report is a recorded submission kept in local history.
type Report struct {
	ID        string           `json:"id" yaml:"id"`
	Idea      string           `json:"idea" yaml:"idea"`
	CreatedAt time.Time        `json:"created_at" yaml:"created_at"`
	Fallback  bool             `json:"fallback" yaml:"fallback"`
	Error     string           `json:"error,omitempty" yaml:"error,omitempty"`
	Result    ValidationResult `json:"result" yaml:"result"`
}

// ValidateRequest is the body posted to the analysis API.
type ValidateRequest struct {
	StartupIdea string `json:"startup_idea"`
}
