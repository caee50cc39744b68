package models

import "time"

// ContentTopic is the topic a creator has committed a project to
type ContentTopic struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Keywords    []string  `json:"keywords"`
	SelectedAt  time.Time `json:"selected_at"`
}

// Project is a content-creation project owned by a single user
type Project struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	Name           string        `json:"name"`
	Niche          string        `json:"niche"`
	TargetAudience string        `json:"target_audience"`
	Topic          *ContentTopic `json:"topic,omitempty"`
	Status         Status        `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// ProjectInput is the payload for creating a project
type ProjectInput struct {
	Name           string `json:"name" validate:"required,min=1,max=200"`
	Niche          string `json:"niche" validate:"required,min=1,max=100"`
	TargetAudience string `json:"target_audience" validate:"required,min=1,max=200"`
}

// ProjectPatch is a partial update; nil fields are left untouched
type ProjectPatch struct {
	Name           *string       `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Niche          *string       `json:"niche,omitempty" validate:"omitempty,min=1,max=100"`
	TargetAudience *string       `json:"target_audience,omitempty" validate:"omitempty,min=1,max=200"`
	Topic          *ContentTopic `json:"topic,omitempty"`
	Status         *Status       `json:"status,omitempty" validate:"omitempty,oneof=active archived deleted"`
}

// Empty reports whether the patch changes nothing
func (p ProjectPatch) Empty() bool {
	return p.Name == nil && p.Niche == nil && p.TargetAudience == nil &&
		p.Topic == nil && p.Status == nil
}
