package models

import "time"

// ScriptSection identifies one of the four structural parts of a script
type ScriptSection string

const (
	SectionHook         ScriptSection = "hook"
	SectionIntroduction ScriptSection = "introduction"
	SectionMain         ScriptSection = "main"
	SectionCTA          ScriptSection = "cta"
)

// Valid reports whether s is a known section
func (s ScriptSection) Valid() bool {
	switch s {
	case SectionHook, SectionIntroduction, SectionMain, SectionCTA:
		return true
	}
	return false
}

// SectionContent is the generated content for one script section
type SectionContent struct {
	Section           ScriptSection `json:"section"`
	Content           string        `json:"content"`
	WordCount         int           `json:"word_count"`
	EstimatedDuration int           `json:"estimated_duration"` // seconds
}

// Script is a generated video script attached to a project
type Script struct {
	ID           string           `json:"id"`
	ProjectID    string           `json:"project_id"`
	Topic        string           `json:"topic"`
	Tone         string           `json:"tone"`
	Platform     string           `json:"platform"`
	Hook         SectionContent   `json:"hook"`
	Introduction SectionContent   `json:"introduction"`
	MainContent  []SectionContent `json:"main_content"`
	CallToAction SectionContent   `json:"call_to_action"`
	Version      int              `json:"version"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ScriptRequest is the payload for generating a script
type ScriptRequest struct {
	Topic    string `json:"topic" validate:"required,min=1,max=300"`
	Duration int    `json:"duration,omitempty" validate:"omitempty,min=1,max=30"` // target minutes
	Tone     string `json:"tone,omitempty" validate:"omitempty,oneof=casual professional energetic educational"`
	Platform string `json:"platform,omitempty" validate:"omitempty,oneof=youtube tiktok instagram"`
}

// ScriptPatch is a partial script update; nil fields are left untouched
type ScriptPatch struct {
	Hook         *SectionContent   `json:"hook,omitempty"`
	Introduction *SectionContent   `json:"introduction,omitempty"`
	MainContent  *[]SectionContent `json:"main_content,omitempty" validate:"omitempty,min=1,max=20"`
	CallToAction *SectionContent   `json:"call_to_action,omitempty"`
}

// Empty reports whether the patch changes nothing
func (p ScriptPatch) Empty() bool {
	return p.Hook == nil && p.Introduction == nil && p.MainContent == nil &&
		p.CallToAction == nil
}

// SectionRegenerateRequest asks for a single section to be regenerated
type SectionRegenerateRequest struct {
	Section ScriptSection `json:"section" validate:"required,oneof=hook introduction main cta"`
	Context string        `json:"context,omitempty" validate:"omitempty,max=2000"`
}
