package auth

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	cogtypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"go.uber.org/zap"

	"contentforge-backend/domain/models"
	apperrors "contentforge-backend/pkg/errors"
)

// IdentityAPI is the subset of the identity provider client the service uses
type IdentityAPI interface {
	InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
	GetUser(ctx context.Context, params *cognitoidentityprovider.GetUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.GetUserOutput, error)
	GlobalSignOut(ctx context.Context, params *cognitoidentityprovider.GlobalSignOutInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.GlobalSignOutOutput, error)
}

// IdentityService wraps the hosted identity provider's credential flows
type IdentityService struct {
	client   IdentityAPI
	clientID string
	logger   *zap.Logger
}

// NewIdentityService creates an identity service bound to one app client
func NewIdentityService(client IdentityAPI, clientID string, logger *zap.Logger) *IdentityService {
	return &IdentityService{
		client:   client,
		clientID: clientID,
		logger:   logger,
	}
}

// Login exchanges credentials for a token bundle
func (s *IdentityService) Login(ctx context.Context, creds models.Credentials) (*models.AuthToken, error) {
	out, err := s.client.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: cogtypes.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(s.clientID),
		AuthParameters: map[string]string{
			"USERNAME": creds.Email,
			"PASSWORD": creds.Password,
		},
	})
	if err != nil {
		s.logger.Info("Login rejected", zap.Error(err))
		return nil, apperrors.NewUnauthorizedError("invalid credentials").WithCause(err)
	}

	return authResult(out.AuthenticationResult)
}

// Refresh exchanges a refresh token for a fresh access token. The provider
// does not rotate refresh tokens, so the response omits one.
func (s *IdentityService) Refresh(ctx context.Context, refreshToken string) (*models.AuthToken, error) {
	out, err := s.client.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: cogtypes.AuthFlowTypeRefreshTokenAuth,
		ClientId: aws.String(s.clientID),
		AuthParameters: map[string]string{
			"REFRESH_TOKEN": refreshToken,
		},
	})
	if err != nil {
		s.logger.Info("Token refresh rejected", zap.Error(err))
		return nil, apperrors.NewUnauthorizedError("invalid refresh token").WithCause(err)
	}

	return authResult(out.AuthenticationResult)
}

// CurrentUser fetches the profile behind an access token
func (s *IdentityService) CurrentUser(ctx context.Context, accessToken string) (*models.UserInfo, error) {
	out, err := s.client.GetUser(ctx, &cognitoidentityprovider.GetUserInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid or expired token").WithCause(err)
	}

	info := &models.UserInfo{
		UserID:     aws.ToString(out.Username),
		Attributes: make(map[string]string, len(out.UserAttributes)),
	}
	for _, attr := range out.UserAttributes {
		info.Attributes[aws.ToString(attr.Name)] = aws.ToString(attr.Value)
		if aws.ToString(attr.Name) == "sub" {
			info.UserID = aws.ToString(attr.Value)
		}
	}

	return info, nil
}

// Logout revokes every token issued to the user behind the access token
func (s *IdentityService) Logout(ctx context.Context, accessToken string) error {
	if _, err := s.client.GlobalSignOut(ctx, &cognitoidentityprovider.GlobalSignOutInput{
		AccessToken: aws.String(accessToken),
	}); err != nil {
		return apperrors.NewUnauthorizedError("invalid or expired token").WithCause(err)
	}
	return nil
}

func authResult(result *cogtypes.AuthenticationResultType) (*models.AuthToken, error) {
	if result == nil || result.AccessToken == nil {
		return nil, apperrors.NewUnauthorizedError("authentication challenge required")
	}
	return &models.AuthToken{
		AccessToken:  aws.ToString(result.AccessToken),
		RefreshToken: aws.ToString(result.RefreshToken),
		ExpiresIn:    result.ExpiresIn,
		TokenType:    aws.ToString(result.TokenType),
	}, nil
}
