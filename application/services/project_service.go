package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"contentforge-backend/domain/models"
	"contentforge-backend/infrastructure/observability"
	"contentforge-backend/infrastructure/persistence/dynamodb"
	"contentforge-backend/pkg/common"
	apperrors "contentforge-backend/pkg/errors"
	"contentforge-backend/pkg/utils"
)

// ProjectPage is one page of a user's projects
type ProjectPage struct {
	Projects  []*models.Project `json:"projects"`
	NextToken string            `json:"next_token,omitempty"`
	// Skipped counts stored records this page could not decode. Zero in
	// healthy operation; nonzero means corrupt data needs attention.
	Skipped int `json:"skipped,omitempty"`
}

// ProjectService owns the project lifecycle. Projects are soft-deleted:
// terminal records stay in storage and readable by ID, but disappear from
// listings and hide their dependent records.
type ProjectService struct {
	store   *dynamodb.Store
	metrics *observability.Recorder
	logger  *zap.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(store *dynamodb.Store, metrics *observability.Recorder, logger *zap.Logger) *ProjectService {
	return &ProjectService{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// Create registers a new active project for the user
func (s *ProjectService) Create(ctx context.Context, userID string, input models.ProjectInput) (*models.Project, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	now := utils.NowUTC()
	project := &models.Project{
		ID:             uuid.New().String(),
		UserID:         userID,
		Name:           input.Name,
		Niche:          input.Niche,
		TargetAudience: input.TargetAudience,
		Status:         models.StatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	item, err := dynamodb.EncodeProject(project)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("Created project",
		zap.String("projectId", project.ID),
		zap.String("userId", userID),
	)
	return project, nil
}

// Get fetches one project owned by the user. Soft-deleted projects are
// still returned, status and all; only listings hide them.
func (s *ProjectService) Get(ctx context.Context, userID, projectID string) (*models.Project, error) {
	keys := dynamodb.ProjectKeys(userID, projectID)
	item, err := s.store.Get(ctx, keys.PK, keys.SK)
	if err != nil {
		if errors.Is(err, dynamodb.ErrItemNotFound) {
			return nil, apperrors.NewNotFoundError("project")
		}
		return nil, err
	}

	return dynamodb.DecodeProject(item)
}

// Parent resolves the project a dependent record belongs to. Scripts and
// videos of a soft-deleted project are unreachable, so a deleted parent
// reads as not found here even though Get returns it.
func (s *ProjectService) Parent(ctx context.Context, userID, projectID string) (*models.Project, error) {
	project, err := s.Get(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if project.Status == models.StatusDeleted {
		return nil, apperrors.NewNotFoundError("project")
	}
	return project, nil
}

// Lookup resolves a project by ID alone through the secondary index,
// soft-deleted or not. Used by pipeline workers that carry no user context.
func (s *ProjectService) Lookup(ctx context.Context, projectID string) (*models.Project, error) {
	page, err := s.store.Query(ctx, dynamodb.ProjectPrefix+projectID, dynamodb.QueryOptions{
		UseGSI1: true,
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(page.Items) == 0 {
		return nil, apperrors.NewNotFoundError("project")
	}

	return dynamodb.DecodeProject(page.Items[0])
}

// List pages through the user's projects. Deleted projects are filtered
// out; records that fail to decode are skipped, counted and reported
// rather than failing the whole page.
func (s *ProjectService) List(ctx context.Context, userID string, params common.PageParams) (*ProjectPage, error) {
	page, err := s.store.Query(ctx, dynamodb.UserPK(userID), dynamodb.QueryOptions{
		SortKeyPrefix: dynamodb.ProjectPrefix,
		Limit:         params.Limit,
		Cursor:        params.Cursor,
	})
	if err != nil {
		return nil, err
	}

	result := &ProjectPage{
		Projects:  make([]*models.Project, 0, len(page.Items)),
		NextToken: page.NextCursor,
	}
	for _, item := range page.Items {
		project, err := dynamodb.DecodeProject(item)
		if err != nil {
			result.Skipped++
			s.logger.Warn("Skipping undecodable project record",
				zap.Error(err),
				zap.String("userId", userID),
			)
			continue
		}
		if project.Status == models.StatusDeleted {
			continue
		}
		result.Projects = append(result.Projects, project)
	}

	if result.Skipped > 0 {
		s.metrics.Count(ctx, observability.MetricSkippedRecords, result.Skipped, map[string]string{"Entity": "project"})
	}

	return result, nil
}

// Update applies a partial update and returns the patched project. Status
// changes must follow the lifecycle; other fields are patchable regardless
// of status so stray records stay reachable for cleanup.
func (s *ProjectService) Update(ctx context.Context, userID, projectID string, patch models.ProjectPatch) (*models.Project, error) {
	if err := utils.ValidateStruct(patch); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, apperrors.NewValidationError("no fields to update")
	}

	keys := dynamodb.ProjectKeys(userID, projectID)
	item, err := s.store.Get(ctx, keys.PK, keys.SK)
	if err != nil {
		if errors.Is(err, dynamodb.ErrItemNotFound) {
			return nil, apperrors.NewNotFoundError("project")
		}
		return nil, err
	}
	project, err := dynamodb.DecodeProject(item)
	if err != nil {
		return nil, err
	}

	var updates []dynamodb.FieldUpdate
	if patch.Name != nil {
		project.Name = *patch.Name
		updates = append(updates, dynamodb.FieldUpdate{Name: "Name", Value: *patch.Name})
	}
	if patch.Niche != nil {
		project.Niche = *patch.Niche
		updates = append(updates, dynamodb.FieldUpdate{Name: "Niche", Value: *patch.Niche})
	}
	if patch.TargetAudience != nil {
		project.TargetAudience = *patch.TargetAudience
		updates = append(updates, dynamodb.FieldUpdate{Name: "TargetAudience", Value: *patch.TargetAudience})
	}
	if patch.Topic != nil {
		topic := *patch.Topic
		if topic.SelectedAt.IsZero() {
			topic.SelectedAt = utils.NowUTC()
		}
		project.Topic = &topic
		updates = append(updates, dynamodb.FieldUpdate{Name: "Topic", Value: dynamodb.EncodeTopicValue(&topic)})
	}
	if patch.Status != nil {
		if !project.Status.CanTransitionTo(*patch.Status) {
			return nil, apperrors.NewConflictError(
				fmt.Sprintf("cannot change status from %s to %s", project.Status, *patch.Status))
		}
		project.Status = *patch.Status
		updates = append(updates, dynamodb.FieldUpdate{Name: "Status", Value: string(*patch.Status)})
	}

	if err := s.store.Update(ctx, keys.PK, keys.SK, updates); err != nil {
		return nil, err
	}

	project.UpdatedAt = utils.NowUTC()
	s.logger.Info("Updated project",
		zap.String("projectId", projectID),
		zap.Int("fields", len(updates)),
	)
	return project, nil
}

// Delete soft-deletes the project. Its scripts and videos stay in storage
// but become unreachable through the API. Deleting twice is success.
func (s *ProjectService) Delete(ctx context.Context, userID, projectID string) error {
	keys := dynamodb.ProjectKeys(userID, projectID)
	item, err := s.store.Get(ctx, keys.PK, keys.SK)
	if err != nil {
		if errors.Is(err, dynamodb.ErrItemNotFound) {
			return apperrors.NewNotFoundError("project")
		}
		return err
	}
	project, err := dynamodb.DecodeProject(item)
	if err != nil {
		return err
	}
	if project.Status == models.StatusDeleted {
		return nil
	}

	if err := s.store.Update(ctx, keys.PK, keys.SK, []dynamodb.FieldUpdate{
		{Name: "Status", Value: string(models.StatusDeleted)},
	}); err != nil {
		return err
	}

	s.logger.Info("Deleted project",
		zap.String("projectId", projectID),
		zap.String("userId", userID),
	)
	return nil
}

// SelectTopic commits a chosen topic to the project
func (s *ProjectService) SelectTopic(ctx context.Context, userID, projectID string, selection models.TopicSelection) (*models.Project, error) {
	if err := utils.ValidateStruct(selection); err != nil {
		return nil, err
	}

	project, err := s.Get(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	topic := &models.ContentTopic{
		Title:       selection.Title,
		Description: selection.Description,
		Keywords:    selection.Keywords,
		SelectedAt:  utils.NowUTC(),
	}

	keys := dynamodb.ProjectKeys(userID, projectID)
	if err := s.store.Update(ctx, keys.PK, keys.SK, []dynamodb.FieldUpdate{
		{Name: "Topic", Value: dynamodb.EncodeTopicValue(topic)},
	}); err != nil {
		return nil, err
	}

	project.Topic = topic
	project.UpdatedAt = utils.NowUTC()
	s.logger.Info("Selected project topic",
		zap.String("projectId", projectID),
		zap.String("topic", topic.Title),
	)
	return project, nil
}
