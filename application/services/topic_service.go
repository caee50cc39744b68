package services

import (
	"context"

	"go.uber.org/zap"

	"contentforge-backend/domain/models"
	"contentforge-backend/infrastructure/observability"
	apperrors "contentforge-backend/pkg/errors"
	"contentforge-backend/pkg/utils"
)

const defaultSuggestionCount = 5

// TopicService produces content topic suggestions
type TopicService struct {
	projects  *ProjectService
	inference Inference
	metrics   *observability.Recorder
	logger    *zap.Logger
}

// NewTopicService creates a new TopicService
func NewTopicService(projects *ProjectService, inference Inference, metrics *observability.Recorder, logger *zap.Logger) *TopicService {
	return &TopicService{
		projects:  projects,
		inference: inference,
		metrics:   metrics,
		logger:    logger,
	}
}

// Suggest generates topic ideas for an arbitrary niche and audience
func (s *TopicService) Suggest(ctx context.Context, req models.TopicRequest, exclude []string) ([]models.TopicSuggestion, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	suggestions, err := s.inference.GenerateTopics(ctx, req, defaultSuggestionCount, exclude)
	if err != nil {
		s.metrics.Count(ctx, observability.MetricInferenceFailures, 1, map[string]string{"Operation": "generate_topics"})
		return nil, err
	}

	s.logger.Info("Generated topic suggestions",
		zap.String("niche", req.Niche),
		zap.Int("count", len(suggestions)),
	)
	return suggestions, nil
}

// SuggestForProject generates topic ideas from the project's own niche and
// audience. Titles in exclude are not repeated, so the client can page
// through fresh ideas.
func (s *TopicService) SuggestForProject(ctx context.Context, userID, projectID string, exclude []string) ([]models.TopicSuggestion, error) {
	project, err := s.projects.Parent(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if project.Niche == "" || project.TargetAudience == "" {
		return nil, apperrors.NewValidationError("project needs a niche and target audience before topics can be suggested")
	}

	req := models.TopicRequest{
		Niche:          project.Niche,
		TargetAudience: project.TargetAudience,
	}
	if project.Topic != nil {
		req.Keywords = project.Topic.Keywords
		exclude = append(exclude, project.Topic.Title)
	}

	return s.Suggest(ctx, req, exclude)
}
