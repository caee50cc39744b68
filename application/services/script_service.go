package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"contentforge-backend/domain/models"
	"contentforge-backend/infrastructure/observability"
	"contentforge-backend/infrastructure/persistence/dynamodb"
	"contentforge-backend/pkg/common"
	apperrors "contentforge-backend/pkg/errors"
	"contentforge-backend/pkg/utils"
)

// ScriptPage is one page of a project's scripts
type ScriptPage struct {
	Scripts   []*models.Script `json:"scripts"`
	NextToken string           `json:"next_token,omitempty"`
	Skipped   int              `json:"skipped,omitempty"`
}

// ScriptService owns script generation and editing. Every operation first
// resolves the project through the owning user, so a script is only ever
// reachable by its project's owner.
type ScriptService struct {
	store     *dynamodb.Store
	projects  *ProjectService
	inference Inference
	metrics   *observability.Recorder
	logger    *zap.Logger
}

// NewScriptService creates a new ScriptService
func NewScriptService(store *dynamodb.Store, projects *ProjectService, inference Inference, metrics *observability.Recorder, logger *zap.Logger) *ScriptService {
	return &ScriptService{
		store:     store,
		projects:  projects,
		inference: inference,
		metrics:   metrics,
		logger:    logger,
	}
}

// Generate produces and stores a new script for the project
func (s *ScriptService) Generate(ctx context.Context, userID, projectID string, req models.ScriptRequest) (*models.Script, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	if _, err := s.projects.Parent(ctx, userID, projectID); err != nil {
		return nil, err
	}

	script, err := s.inference.GenerateScript(ctx, req)
	if err != nil {
		s.metrics.Count(ctx, observability.MetricInferenceFailures, 1, map[string]string{"Operation": "generate_script"})
		return nil, err
	}

	now := utils.NowUTC()
	script.ID = uuid.New().String()
	script.ProjectID = projectID
	script.Version = 1
	script.CreatedAt = now
	script.UpdatedAt = now

	item, err := dynamodb.EncodeScript(script)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("Generated script",
		zap.String("scriptId", script.ID),
		zap.String("projectId", projectID),
		zap.String("topic", script.Topic),
	)
	return script, nil
}

// Get fetches one script in a project the user owns
func (s *ScriptService) Get(ctx context.Context, userID, projectID, scriptID string) (*models.Script, error) {
	if _, err := s.projects.Parent(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.load(ctx, projectID, scriptID)
}

func (s *ScriptService) load(ctx context.Context, projectID, scriptID string) (*models.Script, error) {
	keys := dynamodb.ScriptKeys(projectID, scriptID)
	item, err := s.store.Get(ctx, keys.PK, keys.SK)
	if err != nil {
		if errors.Is(err, dynamodb.ErrItemNotFound) {
			return nil, apperrors.NewNotFoundError("script")
		}
		return nil, err
	}
	return dynamodb.DecodeScript(item)
}

// List pages through a project's scripts
func (s *ScriptService) List(ctx context.Context, userID, projectID string, params common.PageParams) (*ScriptPage, error) {
	if _, err := s.projects.Parent(ctx, userID, projectID); err != nil {
		return nil, err
	}

	page, err := s.store.Query(ctx, dynamodb.ProjectPK(projectID), dynamodb.QueryOptions{
		SortKeyPrefix: dynamodb.ScriptPrefix,
		Limit:         params.Limit,
		Cursor:        params.Cursor,
	})
	if err != nil {
		return nil, err
	}

	result := &ScriptPage{
		Scripts:   make([]*models.Script, 0, len(page.Items)),
		NextToken: page.NextCursor,
	}
	for _, item := range page.Items {
		script, err := dynamodb.DecodeScript(item)
		if err != nil {
			result.Skipped++
			s.logger.Warn("Skipping undecodable script record",
				zap.Error(err),
				zap.String("projectId", projectID),
			)
			continue
		}
		result.Scripts = append(result.Scripts, script)
	}

	if result.Skipped > 0 {
		s.metrics.Count(ctx, observability.MetricSkippedRecords, result.Skipped, map[string]string{"Entity": "script"})
	}

	return result, nil
}

// Update applies manual edits to script sections and bumps the version
func (s *ScriptService) Update(ctx context.Context, userID, projectID, scriptID string, patch models.ScriptPatch) (*models.Script, error) {
	if patch.Empty() {
		return nil, apperrors.NewValidationError("no fields to update")
	}
	if err := utils.ValidateStruct(patch); err != nil {
		return nil, err
	}

	script, err := s.Get(ctx, userID, projectID, scriptID)
	if err != nil {
		return nil, err
	}

	var updates []dynamodb.FieldUpdate
	if patch.Hook != nil {
		section := normalizePatchSection(*patch.Hook, models.SectionHook)
		script.Hook = section
		updates = append(updates, dynamodb.FieldUpdate{Name: "Hook", Value: dynamodb.EncodeSectionValue(section)})
	}
	if patch.Introduction != nil {
		section := normalizePatchSection(*patch.Introduction, models.SectionIntroduction)
		script.Introduction = section
		updates = append(updates, dynamodb.FieldUpdate{Name: "Introduction", Value: dynamodb.EncodeSectionValue(section)})
	}
	if patch.MainContent != nil {
		sections := make([]models.SectionContent, 0, len(*patch.MainContent))
		for _, section := range *patch.MainContent {
			sections = append(sections, normalizePatchSection(section, models.SectionMain))
		}
		script.MainContent = sections
		updates = append(updates, dynamodb.FieldUpdate{Name: "MainContent", Value: dynamodb.EncodeSectionsValue(sections)})
	}
	if patch.CallToAction != nil {
		section := normalizePatchSection(*patch.CallToAction, models.SectionCTA)
		script.CallToAction = section
		updates = append(updates, dynamodb.FieldUpdate{Name: "CallToAction", Value: dynamodb.EncodeSectionValue(section)})
	}

	script.Version++
	updates = append(updates, dynamodb.FieldUpdate{Name: "Version", Value: script.Version})

	keys := dynamodb.ScriptKeys(projectID, scriptID)
	if err := s.store.Update(ctx, keys.PK, keys.SK, updates); err != nil {
		return nil, err
	}

	script.UpdatedAt = utils.NowUTC()
	s.logger.Info("Updated script",
		zap.String("scriptId", scriptID),
		zap.Int("version", script.Version),
	)
	return script, nil
}

// RegenerateSection asks the suggestion engine to rewrite one section and
// stores the result
func (s *ScriptService) RegenerateSection(ctx context.Context, userID, projectID, scriptID string, req models.SectionRegenerateRequest) (*models.Script, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	script, err := s.Get(ctx, userID, projectID, scriptID)
	if err != nil {
		return nil, err
	}

	section, err := s.inference.RegenerateSection(ctx, script, req)
	if err != nil {
		s.metrics.Count(ctx, observability.MetricInferenceFailures, 1, map[string]string{"Operation": "regenerate_section"})
		return nil, err
	}

	script.Version++
	updates := []dynamodb.FieldUpdate{
		{Name: "Version", Value: script.Version},
	}
	switch req.Section {
	case models.SectionHook:
		script.Hook = *section
		updates = append(updates, dynamodb.FieldUpdate{Name: "Hook", Value: dynamodb.EncodeSectionValue(*section)})
	case models.SectionIntroduction:
		script.Introduction = *section
		updates = append(updates, dynamodb.FieldUpdate{Name: "Introduction", Value: dynamodb.EncodeSectionValue(*section)})
	case models.SectionCTA:
		script.CallToAction = *section
		updates = append(updates, dynamodb.FieldUpdate{Name: "CallToAction", Value: dynamodb.EncodeSectionValue(*section)})
	default:
		script.MainContent = []models.SectionContent{*section}
		updates = append(updates, dynamodb.FieldUpdate{Name: "MainContent", Value: dynamodb.EncodeSectionsValue(script.MainContent)})
	}

	keys := dynamodb.ScriptKeys(projectID, scriptID)
	if err := s.store.Update(ctx, keys.PK, keys.SK, updates); err != nil {
		return nil, err
	}

	script.UpdatedAt = utils.NowUTC()
	s.logger.Info("Regenerated script section",
		zap.String("scriptId", scriptID),
		zap.String("section", string(req.Section)),
	)
	return script, nil
}

// Delete removes the script and its analysis outright
func (s *ScriptService) Delete(ctx context.Context, userID, projectID, scriptID string) error {
	if _, err := s.Get(ctx, userID, projectID, scriptID); err != nil {
		return err
	}

	keys := dynamodb.ScriptKeys(projectID, scriptID)
	if err := s.store.Delete(ctx, keys.PK, keys.SK); err != nil {
		return err
	}
	analysisKeys := dynamodb.AnalysisKeys(projectID, scriptID)
	if err := s.store.Delete(ctx, analysisKeys.PK, analysisKeys.SK); err != nil {
		return err
	}

	s.logger.Info("Deleted script",
		zap.String("scriptId", scriptID),
		zap.String("projectId", projectID),
	)
	return nil
}

// AnalyzeRetention scores the script and stores the analysis, replacing
// any previous one
func (s *ScriptService) AnalyzeRetention(ctx context.Context, userID, projectID, scriptID string) (*models.RetentionAnalysis, error) {
	script, err := s.Get(ctx, userID, projectID, scriptID)
	if err != nil {
		return nil, err
	}

	analysis, err := s.inference.AnalyzeRetention(ctx, script)
	if err != nil {
		s.metrics.Count(ctx, observability.MetricInferenceFailures, 1, map[string]string{"Operation": "analyze_retention"})
		return nil, err
	}

	analysis.ID = uuid.New().String()
	analysis.AnalyzedAt = utils.NowUTC()

	item, err := dynamodb.EncodeAnalysis(analysis)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("Analyzed script retention",
		zap.String("scriptId", scriptID),
		zap.Int("overallScore", analysis.OverallScore),
	)
	return analysis, nil
}

// GetAnalysis fetches the stored retention analysis for a script
func (s *ScriptService) GetAnalysis(ctx context.Context, userID, projectID, scriptID string) (*models.RetentionAnalysis, error) {
	if _, err := s.projects.Parent(ctx, userID, projectID); err != nil {
		return nil, err
	}

	keys := dynamodb.AnalysisKeys(projectID, scriptID)
	item, err := s.store.Get(ctx, keys.PK, keys.SK)
	if err != nil {
		if errors.Is(err, dynamodb.ErrItemNotFound) {
			return nil, apperrors.NewNotFoundError("analysis")
		}
		return nil, err
	}
	return dynamodb.DecodeAnalysis(item)
}

func normalizePatchSection(section models.SectionContent, kind models.ScriptSection) models.SectionContent {
	section.Section = kind
	if section.WordCount == 0 && section.Content != "" {
		section.WordCount = len(strings.Fields(section.Content))
	}
	return section
}
