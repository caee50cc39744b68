package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"contentforge-backend/domain/models"
	"contentforge-backend/pkg/common"
	apperrors "contentforge-backend/pkg/errors"
)

// DashboardService aggregates a project's state into a single overview
// payload so the client renders the dashboard from one call
type DashboardService struct {
	projects *ProjectService
	scripts  *ScriptService
	videos   *VideoService
	logger   *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(projects *ProjectService, scripts *ScriptService, videos *VideoService, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		projects: projects,
		scripts:  scripts,
		videos:   videos,
		logger:   logger,
	}
}

// Overview assembles the dashboard for one project. Missing pieces of the
// workflow show up as nil insight blocks, not errors.
func (s *DashboardService) Overview(ctx context.Context, userID, projectID string) (*models.DashboardData, error) {
	project, err := s.projects.Parent(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	data := &models.DashboardData{
		ProjectID:       project.ID,
		ProjectName:     project.Name,
		Recommendations: []string{},
	}

	if project.Topic != nil {
		data.TopicInsights = &models.TopicInsights{
			Title:    project.Topic.Title,
			Keywords: project.Topic.Keywords,
			Insight:  fmt.Sprintf("Working topic: %s", project.Topic.Title),
		}
		data.CompletionStatus.TopicSelected = true
	} else {
		data.Recommendations = append(data.Recommendations, "Pick a topic to unlock script generation")
	}

	params := common.PageParams{Limit: common.MaxPageLimit}

	scriptPage, err := s.scripts.List(ctx, userID, projectID, params)
	if err != nil {
		return nil, err
	}
	var latest *models.Script
	for _, script := range scriptPage.Scripts {
		if latest == nil || script.CreatedAt.After(latest.CreatedAt) {
			latest = script
		}
	}
	if latest != nil {
		data.ScriptInsights = scriptInsights(latest)
		data.CompletionStatus.ScriptCreated = true

		analysis, err := s.scripts.GetAnalysis(ctx, userID, projectID, latest.ID)
		switch {
		case err == nil:
			data.RetentionInsights = retentionInsights(analysis)
			data.CompletionStatus.RetentionAnalyzed = true
			data.OverallScore = analysis.OverallScore
			data.Recommendations = append(data.Recommendations, analysis.Recommendations...)
		case apperrors.IsNotFound(err):
			data.Recommendations = append(data.Recommendations, "Run a retention analysis on your latest script")
		default:
			return nil, err
		}
	} else {
		data.Recommendations = append(data.Recommendations, "Generate a script for your topic")
	}

	videoPage, err := s.videos.List(ctx, userID, projectID, params)
	if err != nil {
		return nil, err
	}
	if len(videoPage.Videos) > 0 {
		data.CompletionStatus.VideoUploaded = true
		data.ClipInsights = clipInsights(videoPage.Videos)
	} else {
		data.Recommendations = append(data.Recommendations, "Upload a recording to get clip suggestions")
	}

	data.CompletionStatus.PercentComplete = percentComplete(data.CompletionStatus)
	return data, nil
}

func scriptInsights(script *models.Script) *models.ScriptInsights {
	sections := []models.SectionContent{script.Hook, script.Introduction, script.CallToAction}
	sections = append(sections, script.MainContent...)

	insights := &models.ScriptInsights{
		TotalSections: len(sections),
	}
	for _, section := range sections {
		insights.WordCount += section.WordCount
		insights.EstimatedDuration += section.EstimatedDuration
		if section.Content != "" {
			insights.SectionsCompleted++
		}
	}
	insights.Insight = fmt.Sprintf("Latest script runs about %d seconds across %d sections",
		insights.EstimatedDuration, insights.TotalSections)
	return insights
}

func retentionInsights(analysis *models.RetentionAnalysis) *models.RetentionInsights {
	insights := &models.RetentionInsights{
		OverallScore: analysis.OverallScore,
	}
	for _, section := range analysis.RiskSections {
		if section.RiskLevel == models.RiskHigh {
			insights.HighRiskSections++
		}
	}
	if len(analysis.Recommendations) > 0 {
		insights.TopRecommendation = analysis.Recommendations[0]
	}
	switch {
	case analysis.OverallScore >= 80:
		insights.Insight = "Retention outlook is strong"
	case analysis.OverallScore >= 50:
		insights.Insight = "Retention is workable but has weak spots"
	default:
		insights.Insight = "Retention risk is high, rework the flagged sections"
	}
	return insights
}

func clipInsights(videos []*models.Video) *models.ClipInsights {
	insights := &models.ClipInsights{}
	for _, video := range videos {
		insights.TotalSuggestions += len(video.ClipSuggestions)
		for i := range video.ClipSuggestions {
			clip := video.ClipSuggestions[i]
			if insights.TopClip == nil || clip.Confidence > insights.TopClip.Confidence {
				insights.TopClip = &clip
			}
		}
	}
	if insights.TotalSuggestions == 0 {
		insights.Insight = "No clip suggestions yet, processing may still be running"
	} else {
		insights.Insight = fmt.Sprintf("%d clip candidates found across %d videos",
			insights.TotalSuggestions, len(videos))
	}
	return insights
}

func percentComplete(status models.CompletionStatus) float64 {
	done := 0
	for _, step := range []bool{status.TopicSelected, status.ScriptCreated, status.RetentionAnalyzed, status.VideoUploaded} {
		if step {
			done++
		}
	}
	return float64(done) / 4 * 100
}
