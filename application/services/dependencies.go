package services

import (
	"context"
	"time"

	"contentforge-backend/domain/models"
	"contentforge-backend/infrastructure/storage/s3media"
)

// Inference is the suggestion engine the services generate content through
type Inference interface {
	GenerateTopics(ctx context.Context, req models.TopicRequest, count int, exclude []string) ([]models.TopicSuggestion, error)
	GenerateScript(ctx context.Context, req models.ScriptRequest) (*models.Script, error)
	RegenerateSection(ctx context.Context, script *models.Script, req models.SectionRegenerateRequest) (*models.SectionContent, error)
	AnalyzeRetention(ctx context.Context, script *models.Script) (*models.RetentionAnalysis, error)
	SuggestClips(ctx context.Context, videoID, transcript string) ([]models.ClipSuggestion, error)
}

// MediaStore hands out pre-signed transfer URLs for media objects
type MediaStore interface {
	PresignUpload(ctx context.Context, key, contentType string) (string, error)
	PresignDownload(ctx context.Context, key string) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Metadata(ctx context.Context, key string) (*s3media.ObjectMeta, error)
	Delete(ctx context.Context, key string) error
	Expiry() time.Duration
}

// EventPublisher emits domain events for the processing pipeline
type EventPublisher interface {
	Publish(ctx context.Context, detailType string, detail interface{}) error
}
