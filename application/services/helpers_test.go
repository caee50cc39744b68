package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"contentforge-backend/domain/models"
	"contentforge-backend/infrastructure/persistence/dynamodb"
	"contentforge-backend/infrastructure/persistence/memory"
	"contentforge-backend/infrastructure/storage/s3media"
	apperrors "contentforge-backend/pkg/errors"
)

type fakeInference struct {
	topics       []models.TopicSuggestion
	script       *models.Script
	section      *models.SectionContent
	analysis     *models.RetentionAnalysis
	clips        []models.ClipSuggestion
	err          error
	lastExcluded []string
}

func (f *fakeInference) GenerateTopics(ctx context.Context, req models.TopicRequest, count int, exclude []string) ([]models.TopicSuggestion, error) {
	f.lastExcluded = exclude
	if f.err != nil {
		return nil, apperrors.NewInferenceError("generate_topics", f.err)
	}
	return f.topics, nil
}

func (f *fakeInference) GenerateScript(ctx context.Context, req models.ScriptRequest) (*models.Script, error) {
	if f.err != nil {
		return nil, apperrors.NewInferenceError("generate_script", f.err)
	}
	script := *f.script
	script.Topic = req.Topic
	script.Tone = req.Tone
	script.Platform = req.Platform
	return &script, nil
}

func (f *fakeInference) RegenerateSection(ctx context.Context, script *models.Script, req models.SectionRegenerateRequest) (*models.SectionContent, error) {
	if f.err != nil {
		return nil, apperrors.NewInferenceError("regenerate_section", f.err)
	}
	section := *f.section
	section.Section = req.Section
	return &section, nil
}

func (f *fakeInference) AnalyzeRetention(ctx context.Context, script *models.Script) (*models.RetentionAnalysis, error) {
	if f.err != nil {
		return nil, apperrors.NewInferenceError("analyze_retention", f.err)
	}
	analysis := *f.analysis
	analysis.ScriptID = script.ID
	analysis.ProjectID = script.ProjectID
	return &analysis, nil
}

func (f *fakeInference) SuggestClips(ctx context.Context, videoID, transcript string) ([]models.ClipSuggestion, error) {
	if f.err != nil {
		return nil, apperrors.NewInferenceError("suggest_clips", f.err)
	}
	clips := make([]models.ClipSuggestion, len(f.clips))
	copy(clips, f.clips)
	for i := range clips {
		clips[i].VideoID = videoID
	}
	return clips, nil
}

type fakeMedia struct {
	objects map[string]bool
	deleted []string
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{objects: make(map[string]bool)}
}

func (f *fakeMedia) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	return fmt.Sprintf("https://media.example.com/%s?signed=put", key), nil
}

func (f *fakeMedia) PresignDownload(ctx context.Context, key string) (string, error) {
	return fmt.Sprintf("https://media.example.com/%s?signed=get", key), nil
}

func (f *fakeMedia) Exists(ctx context.Context, key string) (bool, error) {
	return f.objects[key], nil
}

func (f *fakeMedia) Metadata(ctx context.Context, key string) (*s3media.ObjectMeta, error) {
	if !f.objects[key] {
		return nil, apperrors.NewNotFoundError("object " + key)
	}
	return &s3media.ObjectMeta{Key: key, Size: 1024, ContentType: "video/mp4"}, nil
}

func (f *fakeMedia) Delete(ctx context.Context, key string) error {
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeMedia) Expiry() time.Duration {
	return 15 * time.Minute
}

type publishedEvent struct {
	DetailType string
	Detail     interface{}
}

type fakeEvents struct {
	published []publishedEvent
	err       error
}

func (f *fakeEvents) Publish(ctx context.Context, detailType string, detail interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, publishedEvent{DetailType: detailType, Detail: detail})
	return nil
}

type fixture struct {
	client      *memory.Client
	store       *dynamodb.Store
	inference   *fakeInference
	media       *fakeMedia
	transcripts *fakeMedia
	events      *fakeEvents
	projects    *ProjectService
	scripts     *ScriptService
	videos      *VideoService
	topics      *TopicService
	dashboard   *DashboardService
}

func sampleScript() *models.Script {
	return &models.Script{
		Hook:         models.SectionContent{Section: models.SectionHook, Content: "What if...", WordCount: 2, EstimatedDuration: 3},
		Introduction: models.SectionContent{Section: models.SectionIntroduction, Content: "Today we...", WordCount: 2, EstimatedDuration: 8},
		MainContent: []models.SectionContent{
			{Section: models.SectionMain, Content: "First stop...", WordCount: 2, EstimatedDuration: 60},
		},
		CallToAction: models.SectionContent{Section: models.SectionCTA, Content: "Subscribe!", WordCount: 1, EstimatedDuration: 2},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()
	client := memory.NewClient()
	store := dynamodb.NewStore(client, "contentforge-test", "GSI1", logger)

	inference := &fakeInference{
		topics: []models.TopicSuggestion{
			{Title: "Hidden beaches of Portugal", Description: "Coastal spots", TrendingScore: 82},
		},
		script:  sampleScript(),
		section: &models.SectionContent{Content: "A sharper opening.", WordCount: 3, EstimatedDuration: 3},
		analysis: &models.RetentionAnalysis{
			OverallScore: 78,
			HookStrength: 85,
			PacingScore:  70,
			ClarityScore: 80,
			RiskSections: []models.RiskSection{
				{Section: models.SectionMain, RiskLevel: models.RiskHigh, Issues: []string{"slow middle"}},
			},
			Recommendations: []string{"tighten the intro"},
		},
		clips: []models.ClipSuggestion{
			{ClipID: "c-1", StartTime: 10, EndTime: 32.5, Duration: 22.5, Confidence: 87, ImpactType: models.ImpactEmotional},
		},
	}
	media := newFakeMedia()
	transcripts := newFakeMedia()
	events := &fakeEvents{}

	projects := NewProjectService(store, nil, logger)
	scripts := NewScriptService(store, projects, inference, nil, logger)
	videos := NewVideoService(store, projects, media, transcripts, inference, events, nil, logger)
	topics := NewTopicService(projects, inference, nil, logger)
	dashboard := NewDashboardService(projects, scripts, videos, logger)

	return &fixture{
		client:      client,
		store:       store,
		inference:   inference,
		media:       media,
		transcripts: transcripts,
		events:      events,
		projects:    projects,
		scripts:     scripts,
		videos:      videos,
		topics:      topics,
		dashboard:   dashboard,
	}
}

func (f *fixture) createProject(t *testing.T, userID, name string) *models.Project {
	t.Helper()
	project, err := f.projects.Create(context.Background(), userID, models.ProjectInput{
		Name:           name,
		Niche:          "travel",
		TargetAudience: "young adults",
	})
	require.NoError(t, err)
	return project
}
