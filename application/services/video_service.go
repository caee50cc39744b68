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
	"contentforge-backend/infrastructure/storage/s3media"
	"contentforge-backend/pkg/common"
	apperrors "contentforge-backend/pkg/errors"
	"contentforge-backend/pkg/utils"
)

// Event types emitted by the video pipeline
const (
	EventVideoUploaded  = "video.uploaded"
	EventVideoCompleted = "video.completed"
	EventVideoFailed    = "video.failed"
)

// VideoPage is one page of a project's videos
type VideoPage struct {
	Videos    []*models.Video `json:"videos"`
	NextToken string          `json:"next_token,omitempty"`
	Skipped   int             `json:"skipped,omitempty"`
}

// VideoService owns uploaded videos and their processing lifecycle. Media
// bytes never pass through the service; clients transfer directly against
// pre-signed URLs.
type VideoService struct {
	store       *dynamodb.Store
	projects    *ProjectService
	media       MediaStore
	transcripts MediaStore
	inference   Inference
	events      EventPublisher
	metrics     *observability.Recorder
	logger      *zap.Logger
}

// NewVideoService creates a new VideoService. Video bytes and transcript
// objects live in separate buckets, so the service takes a store for each.
func NewVideoService(store *dynamodb.Store, projects *ProjectService, media, transcripts MediaStore, inference Inference, events EventPublisher, metrics *observability.Recorder, logger *zap.Logger) *VideoService {
	return &VideoService{
		store:       store,
		projects:    projects,
		media:       media,
		transcripts: transcripts,
		inference:   inference,
		events:      events,
		metrics:     metrics,
		logger:      logger,
	}
}

// RegisterUpload records a pending video and returns a pre-signed URL the
// client PUTs the bytes to. The upload notification lets pipeline workers
// start watching for the object.
func (s *VideoService) RegisterUpload(ctx context.Context, userID, projectID string, req models.VideoUploadRequest) (*models.UploadTarget, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	if _, err := s.projects.Parent(ctx, userID, projectID); err != nil {
		return nil, err
	}

	videoID := uuid.New().String()
	storageKey := s3media.VideoKey(userID, projectID, videoID, req.Filename)

	uploadURL, err := s.media.PresignUpload(ctx, storageKey, req.ContentType)
	if err != nil {
		return nil, err
	}

	now := utils.NowUTC()
	video := &models.Video{
		ID:         videoID,
		ProjectID:  projectID,
		Filename:   req.Filename,
		StorageKey: storageKey,
		Status:     models.VideoUploaded,
		Size:       req.Size,
		UploadedAt: now,
		UpdatedAt:  now,
	}
	item, err := dynamodb.EncodeVideo(video)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, item); err != nil {
		return nil, err
	}

	// Best effort: a missed notification delays processing but the upload
	// itself already succeeded
	if err := s.events.Publish(ctx, EventVideoUploaded, map[string]string{
		"video_id":    videoID,
		"project_id":  projectID,
		"user_id":     userID,
		"storage_key": storageKey,
	}); err != nil {
		s.logger.Warn("Failed to publish upload event", zap.Error(err), zap.String("videoId", videoID))
	}

	s.logger.Info("Registered video upload",
		zap.String("videoId", videoID),
		zap.String("projectId", projectID),
		zap.Int64("size", req.Size),
	)
	return &models.UploadTarget{
		VideoID:   videoID,
		UploadURL: uploadURL,
		Method:    "PUT",
		Status:    models.VideoUploaded,
		ExpiresIn: int(s.media.Expiry().Seconds()),
	}, nil
}

// ConfirmUpload verifies the object landed and hands the video to the
// pipeline
func (s *VideoService) ConfirmUpload(ctx context.Context, userID, projectID, videoID string) (*models.Video, error) {
	video, err := s.Get(ctx, userID, projectID, videoID)
	if err != nil {
		return nil, err
	}

	exists, err := s.media.Exists(ctx, video.StorageKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewConflictError("video bytes have not been uploaded yet")
	}

	return s.transition(ctx, video, models.VideoProcessing, "")
}

// Get fetches one video in a project the user owns
func (s *VideoService) Get(ctx context.Context, userID, projectID, videoID string) (*models.Video, error) {
	if _, err := s.projects.Parent(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.load(ctx, projectID, videoID)
}

func (s *VideoService) load(ctx context.Context, projectID, videoID string) (*models.Video, error) {
	keys := dynamodb.VideoKeys(projectID, videoID)
	item, err := s.store.Get(ctx, keys.PK, keys.SK)
	if err != nil {
		if errors.Is(err, dynamodb.ErrItemNotFound) {
			return nil, apperrors.NewNotFoundError("video")
		}
		return nil, err
	}
	return dynamodb.DecodeVideo(item)
}

// List pages through a project's videos
func (s *VideoService) List(ctx context.Context, userID, projectID string, params common.PageParams) (*VideoPage, error) {
	if _, err := s.projects.Parent(ctx, userID, projectID); err != nil {
		return nil, err
	}

	page, err := s.store.Query(ctx, dynamodb.ProjectPK(projectID), dynamodb.QueryOptions{
		SortKeyPrefix: dynamodb.VideoPrefix,
		Limit:         params.Limit,
		Cursor:        params.Cursor,
	})
	if err != nil {
		return nil, err
	}

	result := &VideoPage{
		Videos:    make([]*models.Video, 0, len(page.Items)),
		NextToken: page.NextCursor,
	}
	for _, item := range page.Items {
		video, err := dynamodb.DecodeVideo(item)
		if err != nil {
			result.Skipped++
			s.logger.Warn("Skipping undecodable video record",
				zap.Error(err),
				zap.String("projectId", projectID),
			)
			continue
		}
		result.Videos = append(result.Videos, video)
	}

	if result.Skipped > 0 {
		s.metrics.Count(ctx, observability.MetricSkippedRecords, result.Skipped, map[string]string{"Entity": "video"})
	}

	return result, nil
}

// DownloadURL returns a pre-signed URL for fetching the original video
func (s *VideoService) DownloadURL(ctx context.Context, userID, projectID, videoID string) (string, error) {
	video, err := s.Get(ctx, userID, projectID, videoID)
	if err != nil {
		return "", err
	}
	return s.media.PresignDownload(ctx, video.StorageKey)
}

// UpdateStatus moves a video through the pipeline. Called by workers that
// carry no user context, so lookup is by project alone.
func (s *VideoService) UpdateStatus(ctx context.Context, projectID, videoID string, next models.VideoStatus, errorMessage string) (*models.Video, error) {
	if !next.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown video status %q", next))
	}

	video, err := s.load(ctx, projectID, videoID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, video, next, errorMessage)
}

func (s *VideoService) transition(ctx context.Context, video *models.Video, next models.VideoStatus, errorMessage string) (*models.Video, error) {
	if !video.Status.CanTransitionTo(next) {
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("cannot move video from %s to %s", video.Status, next))
	}

	updates := []dynamodb.FieldUpdate{
		{Name: "Status", Value: string(next)},
	}
	video.Status = next
	if errorMessage != "" {
		video.ErrorMessage = errorMessage
		updates = append(updates, dynamodb.FieldUpdate{Name: "ErrorMessage", Value: errorMessage})
	}
	if next == models.VideoCompleted {
		processedAt := utils.NowUTC()
		video.ProcessedAt = &processedAt
		updates = append(updates, dynamodb.FieldUpdate{Name: "ProcessedAt", Value: utils.FormatRFC3339(processedAt)})
	}

	keys := dynamodb.VideoKeys(video.ProjectID, video.ID)
	if err := s.store.Update(ctx, keys.PK, keys.SK, updates); err != nil {
		return nil, err
	}
	video.UpdatedAt = utils.NowUTC()

	switch next {
	case models.VideoCompleted:
		s.publishStatusEvent(ctx, EventVideoCompleted, video)
	case models.VideoFailed:
		s.publishStatusEvent(ctx, EventVideoFailed, video)
	}

	s.logger.Info("Video status changed",
		zap.String("videoId", video.ID),
		zap.String("status", string(next)),
	)
	return video, nil
}

func (s *VideoService) publishStatusEvent(ctx context.Context, detailType string, video *models.Video) {
	if err := s.events.Publish(ctx, detailType, map[string]string{
		"video_id":   video.ID,
		"project_id": video.ProjectID,
		"status":     string(video.Status),
	}); err != nil {
		s.logger.Warn("Failed to publish status event", zap.Error(err), zap.String("videoId", video.ID))
	}
}

// AttachTranscript stores the transcript reference, generates clip
// suggestions from its text and completes the video. Called by the
// transcription worker.
func (s *VideoService) AttachTranscript(ctx context.Context, projectID, videoID, transcriptKey, transcriptText string) (*models.Video, error) {
	if transcriptKey == "" || transcriptText == "" {
		return nil, apperrors.NewValidationError("transcript key and text are required")
	}

	video, err := s.load(ctx, projectID, videoID)
	if err != nil {
		return nil, err
	}
	if video.Status != models.VideoTranscribing {
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("cannot attach transcript to a video in status %s", video.Status))
	}

	video, err = s.transition(ctx, video, models.VideoAnalyzing, "")
	if err != nil {
		return nil, err
	}

	clips, err := s.inference.SuggestClips(ctx, videoID, transcriptText)
	if err != nil {
		s.metrics.Count(ctx, observability.MetricInferenceFailures, 1, map[string]string{"Operation": "suggest_clips"})
		// Analysis failure fails the video; the transcript itself is kept
		keys := dynamodb.VideoKeys(projectID, videoID)
		if uerr := s.store.Update(ctx, keys.PK, keys.SK, []dynamodb.FieldUpdate{
			{Name: "Transcript", Value: transcriptKey},
		}); uerr != nil {
			s.logger.Error("Failed to store transcript key", zap.Error(uerr), zap.String("videoId", videoID))
		}
		if _, terr := s.transition(ctx, video, models.VideoFailed, "clip analysis failed"); terr != nil {
			s.logger.Error("Failed to mark video failed", zap.Error(terr), zap.String("videoId", videoID))
		}
		return nil, err
	}

	video.Transcript = transcriptKey
	video.ClipSuggestions = clips
	keys := dynamodb.VideoKeys(projectID, videoID)
	if err := s.store.Update(ctx, keys.PK, keys.SK, []dynamodb.FieldUpdate{
		{Name: "Transcript", Value: transcriptKey},
		{Name: "ClipSuggestions", Value: dynamodb.EncodeClipsValue(clips)},
	}); err != nil {
		return nil, err
	}

	return s.transition(ctx, video, models.VideoCompleted, "")
}

// Clips returns the stored clip suggestions for a processed video
func (s *VideoService) Clips(ctx context.Context, userID, projectID, videoID string) ([]models.ClipSuggestion, error) {
	video, err := s.Get(ctx, userID, projectID, videoID)
	if err != nil {
		return nil, err
	}
	if video.Status != models.VideoCompleted {
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("clip suggestions are not ready while the video is %s", video.Status))
	}
	return video.ClipSuggestions, nil
}

// Delete removes the video record and its stored objects
func (s *VideoService) Delete(ctx context.Context, userID, projectID, videoID string) error {
	video, err := s.Get(ctx, userID, projectID, videoID)
	if err != nil {
		return err
	}

	keys := dynamodb.VideoKeys(projectID, videoID)
	if err := s.store.Delete(ctx, keys.PK, keys.SK); err != nil {
		return err
	}

	if err := s.media.Delete(ctx, video.StorageKey); err != nil {
		s.logger.Warn("Failed to delete video object", zap.Error(err), zap.String("key", video.StorageKey))
	}
	if video.Transcript != "" {
		if err := s.transcripts.Delete(ctx, video.Transcript); err != nil {
			s.logger.Warn("Failed to delete transcript object", zap.Error(err), zap.String("key", video.Transcript))
		}
	}

	s.logger.Info("Deleted video",
		zap.String("videoId", videoID),
		zap.String("projectId", projectID),
	)
	return nil
}
