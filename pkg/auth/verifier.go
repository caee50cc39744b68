package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	apperrors "contentforge-backend/pkg/errors"
)

// Verifier validates bearer tokens issued by the identity provider
type Verifier struct {
	keySet   *KeySet
	issuer   string
	clientID string
	logger   *zap.Logger
}

// NewVerifier creates a token verifier bound to one issuer and app client
func NewVerifier(keySet *KeySet, issuer, clientID string, logger *zap.Logger) *Verifier {
	return &Verifier{
		keySet:   keySet,
		issuer:   issuer,
		clientID: clientID,
		logger:   logger,
	}
}

// Verify checks the token's signature, issuer, expiry and audience and
// returns its claims. Every failure maps to an UNAUTHORIZED error; the
// caller never learns which check failed.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		kid, ok := token.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, fmt.Errorf("token missing key id")
		}
		return v.keySet.Key(ctx, kid)
	},
		jwt.WithIssuer(v.issuer),
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		v.logger.Debug("Token verification failed", zap.Error(err))
		return nil, apperrors.NewUnauthorizedError("invalid or expired token").WithCause(err)
	}
	if !token.Valid {
		return nil, apperrors.NewUnauthorizedError("invalid or expired token")
	}

	// Access tokens carry the app client in client_id, ID tokens in aud
	switch claims.TokenUse {
	case "access":
		if claims.ClientID != v.clientID {
			return nil, apperrors.NewUnauthorizedError("token issued for a different client")
		}
	case "id":
		if len(claims.Audience) == 0 || claims.Audience[0] != v.clientID {
			return nil, apperrors.NewUnauthorizedError("token issued for a different client")
		}
	default:
		return nil, apperrors.NewUnauthorizedError("unsupported token use")
	}

	if claims.Subject == "" {
		return nil, apperrors.NewUnauthorizedError("token missing subject")
	}

	return claims, nil
}

// UnverifiedSubject extracts the subject without checking the signature.
// Only usable for log enrichment, never for authorization decisions.
func UnverifiedSubject(tokenString string) string {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return ""
	}
	return claims.Subject
}
