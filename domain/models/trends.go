package models

// EngagementMetrics are estimated engagement figures for a suggested topic
type EngagementMetrics struct {
	EstimatedViews    int `json:"estimated_views"`
	EstimatedLikes    int `json:"estimated_likes"`
	EstimatedComments int `json:"estimated_comments"`
	ConfidenceLevel   int `json:"confidence_level"` // 0-100
}

// TopicSuggestion is an AI-generated content topic suggestion
type TopicSuggestion struct {
	Title               string            `json:"title"`
	Description         string            `json:"description"`
	PredictedCTR        float64           `json:"predicted_ctr"` // 0-100
	EstimatedEngagement EngagementMetrics `json:"estimated_engagement"`
	Competitiveness     string            `json:"competitiveness"` // low|medium|high
	TrendingScore       int               `json:"trending_score"`  // 0-100
	Keywords            []string          `json:"keywords"`
}

// TopicRequest asks for topic suggestions
type TopicRequest struct {
	Niche          string   `json:"niche" validate:"required,min=1,max=100"`
	TargetAudience string   `json:"target_audience" validate:"required,min=1,max=200"`
	Keywords       []string `json:"keywords,omitempty" validate:"omitempty,max=20,dive,max=50"`
}

// TopicSelection commits a topic to a project
type TopicSelection struct {
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"required,min=1,max=1000"`
	Keywords    []string `json:"keywords" validate:"omitempty,max=20,dive,max=50"`
}
