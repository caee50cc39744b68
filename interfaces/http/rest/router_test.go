package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	cogtypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"contentforge-backend/application/services"
	"contentforge-backend/domain/models"
	"contentforge-backend/infrastructure/config"
	"contentforge-backend/infrastructure/persistence/dynamodb"
	"contentforge-backend/infrastructure/persistence/memory"
	"contentforge-backend/infrastructure/storage/s3media"
	"contentforge-backend/interfaces/http/rest/middleware"
	"contentforge-backend/pkg/auth"
)

type stubInference struct{}

func (stubInference) GenerateTopics(_ context.Context, _ models.TopicRequest, count int, _ []string) ([]models.TopicSuggestion, error) {
	suggestions := make([]models.TopicSuggestion, 0, count)
	for i := 0; i < count; i++ {
		suggestions = append(suggestions, models.TopicSuggestion{
			Title:           fmt.Sprintf("Topic %d", i+1),
			Description:     "a viable angle",
			Competitiveness: "low",
			TrendingScore:   70,
		})
	}
	return suggestions, nil
}

func (stubInference) GenerateScript(_ context.Context, req models.ScriptRequest) (*models.Script, error) {
	section := func(kind models.ScriptSection) models.SectionContent {
		return models.SectionContent{Section: kind, Content: "generated copy", WordCount: 2, EstimatedDuration: 10}
	}
	return &models.Script{
		Topic:        req.Topic,
		Hook:         section(models.SectionHook),
		Introduction: section(models.SectionIntroduction),
		MainContent:  []models.SectionContent{section(models.SectionMain)},
		CallToAction: section(models.SectionCTA),
	}, nil
}

func (stubInference) RegenerateSection(_ context.Context, _ *models.Script, req models.SectionRegenerateRequest) (*models.SectionContent, error) {
	return &models.SectionContent{Section: req.Section, Content: "fresh take", WordCount: 2, EstimatedDuration: 8}, nil
}

func (stubInference) AnalyzeRetention(_ context.Context, script *models.Script) (*models.RetentionAnalysis, error) {
	return &models.RetentionAnalysis{ScriptID: script.ID, ProjectID: script.ProjectID, OverallScore: 74, HookStrength: 80}, nil
}

func (stubInference) SuggestClips(_ context.Context, videoID, _ string) ([]models.ClipSuggestion, error) {
	return []models.ClipSuggestion{{ClipID: "clip-1", VideoID: videoID, StartTime: 3, EndTime: 18, Duration: 15, Confidence: 88}}, nil
}

type stubMedia struct {
	objects map[string]bool
}

func (m *stubMedia) PresignUpload(_ context.Context, key, _ string) (string, error) {
	return "https://media.test/upload/" + key, nil
}

func (m *stubMedia) PresignDownload(_ context.Context, key string) (string, error) {
	return "https://media.test/download/" + key, nil
}

func (m *stubMedia) Exists(_ context.Context, key string) (bool, error) { return m.objects[key], nil }

func (m *stubMedia) Metadata(_ context.Context, key string) (*s3media.ObjectMeta, error) {
	return &s3media.ObjectMeta{Key: key, Size: 1024}, nil
}

func (m *stubMedia) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *stubMedia) Expiry() time.Duration { return 15 * time.Minute }

type stubEvents struct{}

func (stubEvents) Publish(context.Context, string, interface{}) error { return nil }

type stubIdentityAPI struct{}

func (stubIdentityAPI) InitiateAuth(_ context.Context, params *cognitoidentityprovider.InitiateAuthInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error) {
	return &cognitoidentityprovider.InitiateAuthOutput{
		AuthenticationResult: &cogtypes.AuthenticationResultType{
			AccessToken:  aws.String("access-token"),
			RefreshToken: aws.String("refresh-token"),
			ExpiresIn:    3600,
			TokenType:    aws.String("Bearer"),
		},
	}, nil
}

func (stubIdentityAPI) GetUser(_ context.Context, _ *cognitoidentityprovider.GetUserInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.GetUserOutput, error) {
	return &cognitoidentityprovider.GetUserOutput{
		Username: aws.String("creator"),
		UserAttributes: []cogtypes.AttributeType{
			{Name: aws.String("sub"), Value: aws.String("u-1")},
		},
	}, nil
}

func (stubIdentityAPI) GlobalSignOut(_ context.Context, _ *cognitoidentityprovider.GlobalSignOutInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.GlobalSignOutOutput, error) {
	return &cognitoidentityprovider.GlobalSignOutOutput{}, nil
}

type routerFixture struct {
	handler http.Handler
	media   *stubMedia
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	// The fixture plays requests that arrive through the gateway, where the
	// authorizer header is trusted
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "contentforge-api")
	logger := zap.NewNop()

	store := dynamodb.NewStore(memory.NewClient(), "contentforge-test", "GSI1", logger)
	media := &stubMedia{objects: map[string]bool{}}
	transcripts := &stubMedia{objects: map[string]bool{}}

	projects := services.NewProjectService(store, nil, logger)
	scripts := services.NewScriptService(store, projects, stubInference{}, nil, logger)
	videos := services.NewVideoService(store, projects, media, transcripts, stubInference{}, stubEvents{}, nil, logger)
	topics := services.NewTopicService(projects, stubInference{}, nil, logger)
	dashboard := services.NewDashboardService(projects, scripts, videos, logger)
	identity := auth.NewIdentityService(stubIdentityAPI{}, "test-client", logger)

	cfg := &config.Config{EnableCORS: true}
	router := NewRouter(cfg, identity, nil, projects, topics, scripts, videos, dashboard, nil, logger)
	return &routerFixture{handler: router.Setup(), media: media}
}

func (f *routerFixture) do(t *testing.T, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(middleware.HeaderAuthorizerUserID, userID)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, "body: %s", rec.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func (f *routerFixture) createProject(t *testing.T, userID string) models.Project {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/projects", userID, models.ProjectInput{
		Name:           "Channel Relaunch",
		Niche:          "travel",
		TargetAudience: "young adults",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var project models.Project
	decodeData(t, rec, &project)
	return project
}

func TestHealthEndpoints(t *testing.T) {
	f := newRouterFixture(t)
	for _, path := range []string{"/health", "/ready"} {
		rec := f.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	}
}

func TestProtectedRoutesRejectAnonymousCallers(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(t, http.MethodGet, "/api/v1/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var envelope struct {
		Success bool `json:"success"`
		Error   *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "UNAUTHORIZED", envelope.Error.Code)
}

func TestProjectLifecycleOverHTTP(t *testing.T) {
	f := newRouterFixture(t)
	project := f.createProject(t, "u-1")
	assert.Equal(t, "Channel Relaunch", project.Name)
	assert.Equal(t, "u-1", project.UserID)

	rec := f.do(t, http.MethodGet, "/api/v1/projects/"+project.ID, "u-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/projects", "u-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Projects []models.Project `json:"projects"`
	}
	decodeData(t, rec, &page)
	assert.Len(t, page.Projects, 1)

	newName := "Channel Relaunch v2"
	rec = f.do(t, http.MethodPatch, "/api/v1/projects/"+project.ID, "u-1", models.ProjectPatch{Name: &newName})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated models.Project
	decodeData(t, rec, &updated)
	assert.Equal(t, newName, updated.Name)

	rec = f.do(t, http.MethodDelete, "/api/v1/projects/"+project.ID, "u-1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// The soft-deleted record stays readable by ID but drops out of listings
	rec = f.do(t, http.MethodGet, "/api/v1/projects/"+project.ID, "u-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var deleted models.Project
	decodeData(t, rec, &deleted)
	assert.Equal(t, models.StatusDeleted, deleted.Status)

	rec = f.do(t, http.MethodGet, "/api/v1/projects", "u-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &page)
	assert.Empty(t, page.Projects)
}

func TestProjectRoutesEnforceOwnership(t *testing.T) {
	f := newRouterFixture(t)
	project := f.createProject(t, "u-1")

	rec := f.do(t, http.MethodGet, "/api/v1/projects/"+project.ID, "u-2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProjectCreateRejectsInvalidPayload(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(t, http.MethodPost, "/api/v1/projects", "u-1", map[string]string{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTopicSuggestionRoutes(t *testing.T) {
	f := newRouterFixture(t)
	project := f.createProject(t, "u-1")

	rec := f.do(t, http.MethodPost, "/api/v1/topics/suggestions", "u-1", map[string]interface{}{
		"niche":           "travel",
		"target_audience": "young adults",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var suggested struct {
		Suggestions []models.TopicSuggestion `json:"suggestions"`
	}
	decodeData(t, rec, &suggested)
	assert.NotEmpty(t, suggested.Suggestions)

	rec = f.do(t, http.MethodGet, "/api/v1/projects/"+project.ID+"/topics/suggestions", "u-1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/api/v1/projects/"+project.ID+"/topic", "u-1", models.TopicSelection{
		Title:       "Hidden beaches on a budget",
		Description: "Affordable coastal destinations nobody covers",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var withTopic models.Project
	decodeData(t, rec, &withTopic)
	require.NotNil(t, withTopic.Topic)
	assert.Equal(t, "Hidden beaches on a budget", withTopic.Topic.Title)
}

func TestScriptRoutes(t *testing.T) {
	f := newRouterFixture(t)
	project := f.createProject(t, "u-1")
	base := "/api/v1/projects/" + project.ID + "/scripts"

	rec := f.do(t, http.MethodPost, base, "u-1", models.ScriptRequest{Topic: "Hidden beaches", Tone: "casual"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var script models.Script
	decodeData(t, rec, &script)
	assert.Equal(t, 1, script.Version)

	rec = f.do(t, http.MethodPost, base+"/"+script.ID+"/sections", "u-1", models.SectionRegenerateRequest{Section: models.SectionHook})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var regenerated models.Script
	decodeData(t, rec, &regenerated)
	assert.Equal(t, "fresh take", regenerated.Hook.Content)
	assert.Equal(t, 2, regenerated.Version)

	rec = f.do(t, http.MethodPost, base+"/"+script.ID+"/analysis", "u-1", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, base+"/"+script.ID+"/analysis", "u-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var analysis models.RetentionAnalysis
	decodeData(t, rec, &analysis)
	assert.Equal(t, 74, analysis.OverallScore)

	rec = f.do(t, http.MethodDelete, base+"/"+script.ID, "u-1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, base+"/"+script.ID, "u-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVideoRoutesWithPipelineCallbacks(t *testing.T) {
	f := newRouterFixture(t)
	project := f.createProject(t, "u-1")
	base := "/api/v1/projects/" + project.ID + "/videos"

	rec := f.do(t, http.MethodPost, base, "u-1", models.VideoUploadRequest{
		Filename:    "episode-1.mp4",
		ContentType: "video/mp4",
		Size:        1 << 20,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var target models.UploadTarget
	decodeData(t, rec, &target)
	assert.Equal(t, http.MethodPut, target.Method)
	assert.NotEmpty(t, target.UploadURL)

	// Confirming before any bytes land is a conflict.
	rec = f.do(t, http.MethodPost, base+"/"+target.VideoID+"/confirm", "u-1", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodGet, base+"/"+target.VideoID, "u-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var video models.Video
	decodeData(t, rec, &video)
	f.media.objects[video.StorageKey] = true

	rec = f.do(t, http.MethodPost, base+"/"+target.VideoID+"/confirm", "u-1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeData(t, rec, &video)
	assert.Equal(t, models.VideoProcessing, video.Status)

	internal := "/internal/projects/" + project.ID + "/videos/" + target.VideoID
	rec = f.do(t, http.MethodPut, internal+"/status", "", map[string]string{"status": "transcribing"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodPost, internal+"/transcript", "", map[string]string{
		"transcript_key":  "transcripts/u-1/" + project.ID + "/" + target.VideoID + ".json",
		"transcript_text": "welcome back to the channel",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeData(t, rec, &video)
	assert.Equal(t, models.VideoCompleted, video.Status)

	rec = f.do(t, http.MethodGet, base+"/"+target.VideoID+"/clips", "u-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var clips struct {
		Clips []models.ClipSuggestion `json:"clips"`
	}
	decodeData(t, rec, &clips)
	require.Len(t, clips.Clips, 1)
	assert.Equal(t, target.VideoID, clips.Clips[0].VideoID)

	rec = f.do(t, http.MethodGet, base+"/"+target.VideoID+"/download", "u-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var download map[string]string
	decodeData(t, rec, &download)
	assert.Contains(t, download["download_url"], "https://media.test/download/")
}

func TestDashboardRoute(t *testing.T) {
	f := newRouterFixture(t)
	project := f.createProject(t, "u-1")

	rec := f.do(t, http.MethodGet, "/api/v1/projects/"+project.ID+"/dashboard", "u-1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var data models.DashboardData
	decodeData(t, rec, &data)
	assert.Equal(t, project.ID, data.ProjectID)
}

func TestAuthLoginRoute(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(t, http.MethodPost, "/api/v1/auth/login", "", models.Credentials{
		Email:    "creator@example.com",
		Password: "correct-horse",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var token models.AuthToken
	decodeData(t, rec, &token)
	assert.Equal(t, "access-token", token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
}
