package models

// Credentials are username/password login inputs
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// AuthToken is the token bundle returned by the identity provider
type AuthToken struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int32  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// RefreshRequest exchanges a refresh token for a fresh access token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UserInfo is the profile attached to an access token
type UserInfo struct {
	UserID     string            `json:"user_id"`
	Attributes map[string]string `json:"attributes"`
}
