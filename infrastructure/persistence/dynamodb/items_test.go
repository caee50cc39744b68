package dynamodb

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentforge-backend/domain/models"
	apperrors "contentforge-backend/pkg/errors"
	"contentforge-backend/pkg/utils"
)

func strAttr(item Item, name string) string {
	s, ok := item[name].(*types.AttributeValueMemberS)
	if !ok {
		return ""
	}
	return s.Value
}

func TestProjectKeysDeterministic(t *testing.T) {
	k1 := ProjectKeys("u-1", "p-1")
	k2 := ProjectKeys("u-1", "p-1")
	assert.Equal(t, k1, k2)
	assert.Equal(t, "USER#u-1", k1.PK)
	assert.Equal(t, "PROJECT#p-1", k1.SK)
	assert.Equal(t, "PROJECT#p-1", k1.GSI1PK)
	assert.Equal(t, GSI1MetadataSK, k1.GSI1SK)

	assert.NotEqual(t, ProjectKeys("u-2", "p-1").PK, k1.PK)
}

func TestProjectRoundTrip(t *testing.T) {
	now := utils.NowUTC()
	project := &models.Project{
		ID:             "p-1",
		UserID:         "u-1",
		Name:           "Weekly Vlog",
		Niche:          "travel",
		TargetAudience: "young adults",
		Topic: &models.ContentTopic{
			Title:       "Hidden beaches of Portugal",
			Description: "Lesser-known coastal spots",
			Keywords:    []string{"travel", "portugal"},
			SelectedAt:  now,
		},
		Status:    models.StatusActive,
		CreatedAt: now.Add(-time.Hour),
		UpdatedAt: now,
	}

	item, err := EncodeProject(project)
	require.NoError(t, err)
	assert.Equal(t, "USER#u-1", strAttr(item, AttrPK))
	assert.Equal(t, "PROJECT#p-1", strAttr(item, AttrSK))
	assert.Equal(t, "PROJECT#p-1", strAttr(item, AttrGSI1PK))
	assert.Equal(t, "METADATA", strAttr(item, AttrGSI1SK))

	got, err := DecodeProject(item)
	require.NoError(t, err)
	assert.Equal(t, project, got)
}

func TestProjectRoundTripWithoutTopic(t *testing.T) {
	now := utils.NowUTC()
	project := &models.Project{
		ID:        "p-2",
		UserID:    "u-1",
		Name:      "Cooking Shorts",
		Status:    models.StatusArchived,
		CreatedAt: now,
		UpdatedAt: now,
	}

	item, err := EncodeProject(project)
	require.NoError(t, err)

	got, err := DecodeProject(item)
	require.NoError(t, err)
	assert.Nil(t, got.Topic)
	assert.Equal(t, project, got)
}

func TestDecodeProjectRejectsCorruptItems(t *testing.T) {
	now := utils.NowUTC()
	base := func() *models.Project {
		return &models.Project{
			ID:        "p-1",
			UserID:    "u-1",
			Name:      "Weekly Vlog",
			Status:    models.StatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	t.Run("unknown status", func(t *testing.T) {
		item, err := EncodeProject(base())
		require.NoError(t, err)
		item["Status"] = &types.AttributeValueMemberS{Value: "tombstoned"}

		_, err = DecodeProject(item)
		assert.True(t, apperrors.IsDecode(err))
	})

	t.Run("malformed timestamp", func(t *testing.T) {
		item, err := EncodeProject(base())
		require.NoError(t, err)
		item["CreatedAt"] = &types.AttributeValueMemberS{Value: "yesterday"}

		_, err = DecodeProject(item)
		assert.True(t, apperrors.IsDecode(err))
	})

	t.Run("missing identity", func(t *testing.T) {
		item, err := EncodeProject(base())
		require.NoError(t, err)
		delete(item, "ID")

		_, err = DecodeProject(item)
		assert.True(t, apperrors.IsDecode(err))
	})
}

func TestScriptRoundTrip(t *testing.T) {
	now := utils.NowUTC()
	script := &models.Script{
		ID:        "s-1",
		ProjectID: "p-1",
		Topic:     "Hidden beaches of Portugal",
		Tone:      "casual",
		Platform:  "youtube",
		Hook: models.SectionContent{
			Section: models.SectionHook, Content: "What if I told you...", WordCount: 5, EstimatedDuration: 3,
		},
		Introduction: models.SectionContent{
			Section: models.SectionIntroduction, Content: "Today we explore...", WordCount: 4, EstimatedDuration: 2,
		},
		MainContent: []models.SectionContent{
			{Section: models.SectionMain, Content: "First stop...", WordCount: 3, EstimatedDuration: 30},
			{Section: models.SectionMain, Content: "Next up...", WordCount: 3, EstimatedDuration: 25},
		},
		CallToAction: models.SectionContent{
			Section: models.SectionCTA, Content: "Subscribe!", WordCount: 1, EstimatedDuration: 2,
		},
		Version:   2,
		CreatedAt: now.Add(-time.Minute),
		UpdatedAt: now,
	}

	item, err := EncodeScript(script)
	require.NoError(t, err)
	assert.Equal(t, "PROJECT#p-1", strAttr(item, AttrPK))
	assert.Equal(t, "SCRIPT#s-1", strAttr(item, AttrSK))

	got, err := DecodeScript(item)
	require.NoError(t, err)
	assert.Equal(t, script, got)
}

func TestVideoRoundTrip(t *testing.T) {
	now := utils.NowUTC()
	processedAt := now.Add(time.Minute)
	video := &models.Video{
		ID:         "v-1",
		ProjectID:  "p-1",
		Filename:   "day one.mp4",
		StorageKey: "videos/u-1/p-1/v-1/day%20one.mp4",
		Status:     models.VideoCompleted,
		Size:       1_048_576,
		Duration:   182.5,
		Transcript: "transcripts/u-1/p-1/v-1.json",
		ClipSuggestions: []models.ClipSuggestion{
			{
				ClipID:     "c-1",
				VideoID:    "v-1",
				StartTime:  10.0,
				EndTime:    32.5,
				Duration:   22.5,
				Confidence: 87,
				Reason:     "strong emotional peak",
				ImpactType: models.ImpactEmotional,
			},
		},
		UploadedAt:  now,
		ProcessedAt: &processedAt,
		UpdatedAt:   now,
	}

	item, err := EncodeVideo(video)
	require.NoError(t, err)
	assert.Equal(t, "PROJECT#p-1", strAttr(item, AttrPK))
	assert.Equal(t, "VIDEO#v-1", strAttr(item, AttrSK))

	got, err := DecodeVideo(item)
	require.NoError(t, err)
	assert.Equal(t, video, got)
}

func TestVideoRoundTripMinimal(t *testing.T) {
	now := utils.NowUTC()
	video := &models.Video{
		ID:         "v-2",
		ProjectID:  "p-1",
		Filename:   "raw.mov",
		StorageKey: "videos/u-1/p-1/v-2/raw.mov",
		Status:     models.VideoUploaded,
		Size:       2048,
		UploadedAt: now,
		UpdatedAt:  now,
	}

	item, err := EncodeVideo(video)
	require.NoError(t, err)

	got, err := DecodeVideo(item)
	require.NoError(t, err)
	assert.Nil(t, got.ProcessedAt)
	assert.Nil(t, got.ClipSuggestions)
	assert.Equal(t, video, got)
}

func TestAnalysisRoundTrip(t *testing.T) {
	now := utils.NowUTC()
	analysis := &models.RetentionAnalysis{
		ID:           "a-1",
		ScriptID:     "s-1",
		ProjectID:    "p-1",
		OverallScore: 78,
		HookStrength: 85,
		PacingScore:  70,
		ClarityScore: 80,
		RiskSections: []models.RiskSection{
			{
				Section:     models.SectionMain,
				RiskLevel:   models.RiskMedium,
				Issues:      []string{"long unbroken explanation"},
				Suggestions: []string{"add a pattern interrupt"},
			},
		},
		Recommendations: []string{"tighten the intro"},
		AnalyzedAt:      now,
	}

	item, err := EncodeAnalysis(analysis)
	require.NoError(t, err)
	assert.Equal(t, "PROJECT#p-1", strAttr(item, AttrPK))
	assert.Equal(t, "ANALYSIS#s-1", strAttr(item, AttrSK))

	got, err := DecodeAnalysis(item)
	require.NoError(t, err)
	assert.Equal(t, analysis, got)
}
