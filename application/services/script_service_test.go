package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentforge-backend/domain/models"
	"contentforge-backend/pkg/common"
	apperrors "contentforge-backend/pkg/errors"
)

func TestScriptGenerate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project := f.createProject(t, "u-1", "Weekly Vlog")

	script, err := f.scripts.Generate(ctx, "u-1", project.ID, models.ScriptRequest{
		Topic:    "Hidden beaches of Portugal",
		Tone:     "casual",
		Platform: "youtube",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, script.ID)
	assert.Equal(t, project.ID, script.ProjectID)
	assert.Equal(t, 1, script.Version)
	assert.Equal(t, "casual", script.Tone)

	got, err := f.scripts.Get(ctx, "u-1", project.ID, script.ID)
	require.NoError(t, err)
	assert.Equal(t, script.Hook.Content, got.Hook.Content)
}

func TestScriptGenerateRequiresLivingProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project := f.createProject(t, "u-1", "Weekly Vlog")
	require.NoError(t, f.projects.Delete(ctx, "u-1", project.ID))

	_, err := f.scripts.Generate(ctx, "u-1", project.ID, models.ScriptRequest{Topic: "T"})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestScriptGenerateInferenceFailure(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "u-1", "Weekly Vlog")

	f.inference.err = errors.New("model unavailable")
	_, err := f.scripts.Generate(context.Background(), "u-1", project.ID, models.ScriptRequest{Topic: "T"})
	assert.True(t, apperrors.IsInference(err))

	// Nothing half-written
	page, listErr := f.scripts.List(context.Background(), "u-1", project.ID, common.DefaultPageParams())
	f.inference.err = nil
	require.NoError(t, listErr)
	assert.Empty(t, page.Scripts)
}

func TestScriptOwnershipIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project := f.createProject(t, "u-1", "Weekly Vlog")
	script, err := f.scripts.Generate(ctx, "u-1", project.ID, models.ScriptRequest{Topic: "T"})
	require.NoError(t, err)

	_, err = f.scripts.Get(ctx, "u-2", project.ID, script.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestScriptUpdateBumpsVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project := f.createProject(t, "u-1", "Weekly Vlog")
	script, err := f.scripts.Generate(ctx, "u-1", project.ID, models.ScriptRequest{Topic: "T"})
	require.NoError(t, err)

	hook := models.SectionContent{Content: "A hand-written hook", EstimatedDuration: 4}
	updated, err := f.scripts.Update(ctx, "u-1", project.ID, script.ID, models.ScriptPatch{Hook: &hook})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, models.SectionHook, updated.Hook.Section)
	assert.Equal(t, "A hand-written hook", updated.Hook.Content)

	got, err := f.scripts.Get(ctx, "u-1", project.ID, script.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)
	assert.Equal(t, "A hand-written hook", got.Hook.Content)
	assert.Equal(t, script.Introduction.Content, got.Introduction.Content, "untouched sections survive")
}

func TestScriptUpdateEmptyPatch(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "u-1", "Weekly Vlog")

	_, err := f.scripts.Update(context.Background(), "u-1", project.ID, "s-1", models.ScriptPatch{})
	assert.True(t, apperrors.IsValidation(err))
}

func TestScriptUpdateRejectsOversizedPatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project := f.createProject(t, "u-1", "Weekly Vlog")
	script, err := f.scripts.Generate(ctx, "u-1", project.ID, models.ScriptRequest{Topic: "T"})
	require.NoError(t, err)

	sections := make([]models.SectionContent, 21)
	for i := range sections {
		sections[i] = models.SectionContent{Section: models.SectionMain, Content: "part"}
	}
	_, err = f.scripts.Update(ctx, "u-1", project.ID, script.ID, models.ScriptPatch{MainContent: &sections})
	assert.True(t, apperrors.IsValidation(err))

	got, err := f.scripts.Get(ctx, "u-1", project.ID, script.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version, "rejected patch leaves the script untouched")
}

func TestScriptRegenerateSection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project := f.createProject(t, "u-1", "Weekly Vlog")
	script, err := f.scripts.Generate(ctx, "u-1", project.ID, models.ScriptRequest{Topic: "T"})
	require.NoError(t, err)

	updated, err := f.scripts.RegenerateSection(ctx, "u-1", project.ID, script.ID, models.SectionRegenerateRequest{
		Section: models.SectionHook,
		Context: "punchier",
	})
	require.NoError(t, err)
	assert.Equal(t, "A sharper opening.", updated.Hook.Content)
	assert.Equal(t, 2, updated.Version)

	got, err := f.scripts.Get(ctx, "u-1", project.ID, script.ID)
	require.NoError(t, err)
	assert.Equal(t, "A sharper opening.", got.Hook.Content)
}

func TestScriptAnalyzeRetention(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project := f.createProject(t, "u-1", "Weekly Vlog")
	script, err := f.scripts.Generate(ctx, "u-1", project.ID, models.ScriptRequest{Topic: "T"})
	require.NoError(t, err)

	analysis, err := f.scripts.AnalyzeRetention(ctx, "u-1", project.ID, script.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, analysis.ID)
	assert.Equal(t, script.ID, analysis.ScriptID)
	assert.Equal(t, 78, analysis.OverallScore)

	got, err := f.scripts.GetAnalysis(ctx, "u-1", project.ID, script.ID)
	require.NoError(t, err)
	assert.Equal(t, analysis.ID, got.ID)
	assert.Len(t, got.RiskSections, 1)
}

func TestScriptAnalysisMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project := f.createProject(t, "u-1", "Weekly Vlog")
	script, err := f.scripts.Generate(ctx, "u-1", project.ID, models.ScriptRequest{Topic: "T"})
	require.NoError(t, err)

	_, err = f.scripts.GetAnalysis(ctx, "u-1", project.ID, script.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestScriptDeleteRemovesAnalysisToo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project := f.createProject(t, "u-1", "Weekly Vlog")
	script, err := f.scripts.Generate(ctx, "u-1", project.ID, models.ScriptRequest{Topic: "T"})
	require.NoError(t, err)
	_, err = f.scripts.AnalyzeRetention(ctx, "u-1", project.ID, script.ID)
	require.NoError(t, err)

	require.NoError(t, f.scripts.Delete(ctx, "u-1", project.ID, script.ID))

	_, err = f.scripts.Get(ctx, "u-1", project.ID, script.ID)
	assert.True(t, apperrors.IsNotFound(err))
	_, err = f.scripts.GetAnalysis(ctx, "u-1", project.ID, script.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestScriptList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project := f.createProject(t, "u-1", "Weekly Vlog")
	for i := 0; i < 3; i++ {
		_, err := f.scripts.Generate(ctx, "u-1", project.ID, models.ScriptRequest{Topic: "T"})
		require.NoError(t, err)
	}

	page, err := f.scripts.List(ctx, "u-1", project.ID, common.DefaultPageParams())
	require.NoError(t, err)
	assert.Len(t, page.Scripts, 3)
	assert.Zero(t, page.Skipped)
}
