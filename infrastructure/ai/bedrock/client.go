package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"contentforge-backend/domain/models"
	apperrors "contentforge-backend/pkg/errors"
)

// RuntimeAPI is the subset of the inference runtime the client uses
type RuntimeAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Client turns domain requests into model invocations. Prompts ask for raw
// JSON, and responses are parsed defensively because models wrap output in
// prose or code fences anyway.
type Client struct {
	runtime   RuntimeAPI
	modelID   string
	maxTokens int
	logger    *zap.Logger
}

// NewClient creates an inference client bound to one model
func NewClient(runtime RuntimeAPI, modelID string, maxTokens int, logger *zap.Logger) *Client {
	return &Client{
		runtime:   runtime,
		modelID:   modelID,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

type messageRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	System           string    `json:"system,omitempty"`
	Messages         []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func (c *Client) invoke(ctx context.Context, operation, system, prompt string) (string, error) {
	body, err := json.Marshal(messageRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        c.maxTokens,
		System:           system,
		Messages:         []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", apperrors.NewInferenceError(operation, err)
	}

	out, err := c.runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		c.logger.Error("Model invocation failed", zap.Error(err), zap.String("operation", operation))
		return "", apperrors.NewInferenceError(operation, err)
	}

	var resp messageResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", apperrors.NewInferenceError(operation, err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", apperrors.NewInferenceError(operation, fmt.Errorf("model returned no text"))
	}

	return text.String(), nil
}

// GenerateTopics suggests content topics for a niche and audience. Titles
// in exclude are passed to the model so repeat calls surface fresh ideas.
func (c *Client) GenerateTopics(ctx context.Context, req models.TopicRequest, count int, exclude []string) ([]models.TopicSuggestion, error) {
	text, err := c.invoke(ctx, "generate_topics", topicSystemPrompt, topicPrompt(req, count, exclude))
	if err != nil {
		return nil, err
	}

	var suggestions []models.TopicSuggestion
	if err := parseModelJSON(text, &suggestions); err != nil {
		return nil, apperrors.NewInferenceError("generate_topics", err)
	}
	if len(suggestions) == 0 {
		return nil, apperrors.NewInferenceError("generate_topics", fmt.Errorf("model returned no suggestions"))
	}

	return suggestions, nil
}

type generatedScript struct {
	Hook         models.SectionContent   `json:"hook"`
	Introduction models.SectionContent   `json:"introduction"`
	MainContent  []models.SectionContent `json:"main_content"`
	CallToAction models.SectionContent   `json:"call_to_action"`
}

// GenerateScript produces a full script for the topic
func (c *Client) GenerateScript(ctx context.Context, req models.ScriptRequest) (*models.Script, error) {
	text, err := c.invoke(ctx, "generate_script", scriptSystemPrompt, scriptPrompt(req))
	if err != nil {
		return nil, err
	}

	var generated generatedScript
	if err := parseModelJSON(text, &generated); err != nil {
		return nil, apperrors.NewInferenceError("generate_script", err)
	}
	if generated.Hook.Content == "" || len(generated.MainContent) == 0 {
		return nil, apperrors.NewInferenceError("generate_script", fmt.Errorf("model returned incomplete script"))
	}

	script := &models.Script{
		Topic:        req.Topic,
		Tone:         req.Tone,
		Platform:     req.Platform,
		Hook:         normalizeSection(generated.Hook, models.SectionHook),
		Introduction: normalizeSection(generated.Introduction, models.SectionIntroduction),
		CallToAction: normalizeSection(generated.CallToAction, models.SectionCTA),
	}
	for _, section := range generated.MainContent {
		script.MainContent = append(script.MainContent, normalizeSection(section, models.SectionMain))
	}

	return script, nil
}

// RegenerateSection rewrites one section of an existing script
func (c *Client) RegenerateSection(ctx context.Context, script *models.Script, req models.SectionRegenerateRequest) (*models.SectionContent, error) {
	text, err := c.invoke(ctx, "regenerate_section", scriptSystemPrompt, sectionPrompt(script, req))
	if err != nil {
		return nil, err
	}

	var section models.SectionContent
	if err := parseModelJSON(text, &section); err != nil {
		return nil, apperrors.NewInferenceError("regenerate_section", err)
	}
	if section.Content == "" {
		return nil, apperrors.NewInferenceError("regenerate_section", fmt.Errorf("model returned empty section"))
	}

	normalized := normalizeSection(section, req.Section)
	return &normalized, nil
}

type retentionResult struct {
	OverallScore    int                  `json:"overall_score"`
	HookStrength    int                  `json:"hook_strength"`
	PacingScore     int                  `json:"pacing_score"`
	ClarityScore    int                  `json:"clarity_score"`
	RiskSections    []models.RiskSection `json:"risk_sections"`
	Recommendations []string             `json:"recommendations"`
}

// AnalyzeRetention scores a script for viewer retention risk
func (c *Client) AnalyzeRetention(ctx context.Context, script *models.Script) (*models.RetentionAnalysis, error) {
	text, err := c.invoke(ctx, "analyze_retention", retentionSystemPrompt, retentionPrompt(script))
	if err != nil {
		return nil, err
	}

	var result retentionResult
	if err := parseModelJSON(text, &result); err != nil {
		return nil, apperrors.NewInferenceError("analyze_retention", err)
	}

	return &models.RetentionAnalysis{
		ScriptID:        script.ID,
		ProjectID:       script.ProjectID,
		OverallScore:    clampScore(result.OverallScore),
		HookStrength:    clampScore(result.HookStrength),
		PacingScore:     clampScore(result.PacingScore),
		ClarityScore:    clampScore(result.ClarityScore),
		RiskSections:    result.RiskSections,
		Recommendations: result.Recommendations,
	}, nil
}

// SuggestClips picks short-form clip candidates out of a transcript
func (c *Client) SuggestClips(ctx context.Context, videoID, transcript string) ([]models.ClipSuggestion, error) {
	text, err := c.invoke(ctx, "suggest_clips", clipSystemPrompt, clipPrompt(transcript))
	if err != nil {
		return nil, err
	}

	var clips []models.ClipSuggestion
	if err := parseModelJSON(text, &clips); err != nil {
		return nil, apperrors.NewInferenceError("suggest_clips", err)
	}

	for i := range clips {
		clips[i].VideoID = videoID
		clips[i].Duration = clips[i].EndTime - clips[i].StartTime
		clips[i].Confidence = clampScore(clips[i].Confidence)
	}

	return clips, nil
}

func normalizeSection(s models.SectionContent, kind models.ScriptSection) models.SectionContent {
	s.Section = kind
	if s.WordCount == 0 {
		s.WordCount = len(strings.Fields(s.Content))
	}
	return s
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// parseModelJSON unmarshals the first JSON value embedded in model output,
// tolerating surrounding prose and code fences
func parseModelJSON(text string, v interface{}) error {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return fmt.Errorf("no JSON in model output")
	}

	open := text[start]
	var closer byte = '}'
	if open == '[' {
		closer = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			depth++
		case ch == closer:
			depth--
			if depth == 0 {
				return json.Unmarshal([]byte(text[start:i+1]), v)
			}
		}
	}

	return fmt.Errorf("unterminated JSON in model output")
}
