package models

// CompletionStatus tracks how far a project has progressed through the workflow
type CompletionStatus struct {
	TopicSelected     bool    `json:"topic_selected"`
	ScriptCreated     bool    `json:"script_created"`
	RetentionAnalyzed bool    `json:"retention_analyzed"`
	VideoUploaded     bool    `json:"video_uploaded"`
	PercentComplete   float64 `json:"percent_complete"` // 0-100
}

// TopicInsights summarizes the selected topic for the dashboard
type TopicInsights struct {
	Title    string   `json:"title"`
	Keywords []string `json:"keywords"`
	Insight  string   `json:"insight"`
}

// ScriptInsights summarizes the latest script for the dashboard
type ScriptInsights struct {
	WordCount         int    `json:"word_count"`
	EstimatedDuration int    `json:"estimated_duration"` // seconds
	SectionsCompleted int    `json:"sections_completed"`
	TotalSections     int    `json:"total_sections"`
	Insight           string `json:"insight"`
}

// RetentionInsights summarizes the latest retention analysis
type RetentionInsights struct {
	OverallScore      int    `json:"overall_score"`
	HighRiskSections  int    `json:"high_risk_sections"`
	TopRecommendation string `json:"top_recommendation,omitempty"`
	Insight           string `json:"insight"`
}

// ClipInsights summarizes clip suggestions across a project's videos
type ClipInsights struct {
	TotalSuggestions int             `json:"total_suggestions"`
	TopClip          *ClipSuggestion `json:"top_clip,omitempty"`
	Insight          string          `json:"insight"`
}

// DashboardData is the aggregated per-project dashboard payload
type DashboardData struct {
	ProjectID         string             `json:"project_id"`
	ProjectName       string             `json:"project_name"`
	TopicInsights     *TopicInsights     `json:"topic_insights,omitempty"`
	ScriptInsights    *ScriptInsights    `json:"script_insights,omitempty"`
	RetentionInsights *RetentionInsights `json:"retention_insights,omitempty"`
	ClipInsights      *ClipInsights      `json:"clip_insights,omitempty"`
	OverallScore      int                `json:"overall_score"` // 0-100
	Recommendations   []string           `json:"recommendations"`
	CompletionStatus  CompletionStatus   `json:"completion_status"`
}
