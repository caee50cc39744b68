package models

import "time"

// RiskSeverity levels for retention risks
type RiskSeverity string

const (
	RiskLow    RiskSeverity = "low"
	RiskMedium RiskSeverity = "medium"
	RiskHigh   RiskSeverity = "high"
)

// RiskSection is the retention analysis of one script section
type RiskSection struct {
	Section     ScriptSection `json:"section"`
	RiskLevel   RiskSeverity  `json:"risk_level"`
	Issues      []string      `json:"issues"`
	Suggestions []string      `json:"suggestions"`
}

// RetentionAnalysis is a persisted retention analysis of a script
type RetentionAnalysis struct {
	ID              string        `json:"id"`
	ScriptID        string        `json:"script_id"`
	ProjectID       string        `json:"project_id"`
	OverallScore    int           `json:"overall_score"` // 0-100
	HookStrength    int           `json:"hook_strength"`
	PacingScore     int           `json:"pacing_score"`
	ClarityScore    int           `json:"clarity_score"`
	RiskSections    []RiskSection `json:"risk_sections"`
	Recommendations []string      `json:"recommendations"`
	AnalyzedAt      time.Time     `json:"analyzed_at"`
}
