package models

import "time"

// VideoStatus tracks a video through the processing pipeline
type VideoStatus string

const (
	VideoUploaded     VideoStatus = "uploaded"
	VideoProcessing   VideoStatus = "processing"
	VideoTranscribing VideoStatus = "transcribing"
	VideoAnalyzing    VideoStatus = "analyzing"
	VideoCompleted    VideoStatus = "completed"
	VideoFailed       VideoStatus = "failed"
)

// videoTransitions encodes the processing pipeline order. failed is
// reachable from any non-terminal state.
var videoTransitions = map[VideoStatus][]VideoStatus{
	VideoUploaded:     {VideoProcessing, VideoFailed},
	VideoProcessing:   {VideoTranscribing, VideoFailed},
	VideoTranscribing: {VideoAnalyzing, VideoFailed},
	VideoAnalyzing:    {VideoCompleted, VideoFailed},
}

// Valid reports whether s is a known video status
func (s VideoStatus) Valid() bool {
	switch s {
	case VideoUploaded, VideoProcessing, VideoTranscribing, VideoAnalyzing,
		VideoCompleted, VideoFailed:
		return true
	}
	return false
}

// CanTransitionTo reports whether the pipeline permits moving to next
func (s VideoStatus) CanTransitionTo(next VideoStatus) bool {
	for _, allowed := range videoTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ImpactType classifies why a clip moment is worth extracting
type ImpactType string

const (
	ImpactHook       ImpactType = "hook"
	ImpactInsight    ImpactType = "insight"
	ImpactEmotional  ImpactType = "emotional"
	ImpactActionable ImpactType = "actionable"
	ImpactSurprising ImpactType = "surprising"
)

// ClipSuggestion is an AI-suggested short-form clip within a video
type ClipSuggestion struct {
	ClipID     string     `json:"clip_id"`
	VideoID    string     `json:"video_id"`
	StartTime  float64    `json:"start_time"` // seconds
	EndTime    float64    `json:"end_time"`   // seconds
	Duration   float64    `json:"duration"`   // seconds
	Confidence int        `json:"confidence"` // 0-100
	Reason     string     `json:"reason"`
	Transcript string     `json:"transcript"`
	ImpactType ImpactType `json:"impact_type"`
}

// Video is an uploaded video attached to a project
type Video struct {
	ID              string           `json:"id"`
	ProjectID       string           `json:"project_id"`
	Filename        string           `json:"filename"`
	StorageKey      string           `json:"storage_key"`
	Status          VideoStatus      `json:"status"`
	Size            int64            `json:"size"`
	Duration        float64          `json:"duration,omitempty"`
	Transcript      string           `json:"transcript,omitempty"`
	ClipSuggestions []ClipSuggestion `json:"clip_suggestions,omitempty"`
	ErrorMessage    string           `json:"error_message,omitempty"`
	UploadedAt      time.Time        `json:"uploaded_at"`
	ProcessedAt     *time.Time       `json:"processed_at,omitempty"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// MaxUploadBytes bounds direct uploads to 2 GiB
const MaxUploadBytes = int64(2_147_483_648)

// VideoUploadRequest is the payload for registering an upload
type VideoUploadRequest struct {
	Filename    string `json:"filename" validate:"required,min=1,max=255"`
	ContentType string `json:"content_type" validate:"required,startswith=video/"`
	Size        int64  `json:"size" validate:"required,gt=0,lte=2147483648"`
}

// UploadTarget is the presigned destination handed back to the client
type UploadTarget struct {
	VideoID   string      `json:"video_id"`
	UploadURL string      `json:"upload_url"`
	Method    string      `json:"method"`
	Status    VideoStatus `json:"status"`
	ExpiresIn int         `json:"expires_in"` // seconds
}
