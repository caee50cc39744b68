package main

import (
	"context"
	"log"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"contentforge-backend/infrastructure/config"
	"contentforge-backend/pkg/auth"
)

var (
	verifier *auth.Verifier
	logger   *zap.Logger
)

// init runs during cold start
func init() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err = zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}

	keySet := auth.NewKeySet(cfg.JWKSURL(), cfg.JWKSCacheTTL, logger)
	verifier = auth.NewVerifier(keySet, cfg.IssuerURL(), cfg.CognitoClientID, logger)
}

// Handler validates the bearer token and returns an IAM policy for the
// gateway. The verified user ID travels in the policy context so the
// backend can trust it without re-verifying.
func Handler(ctx context.Context, req events.APIGatewayCustomAuthorizerRequest) (events.APIGatewayCustomAuthorizerResponse, error) {
	token, ok := bearerToken(req.AuthorizationToken)
	if !ok {
		logger.Debug("authorization header missing or malformed")
		return auth.DenyAll(req.MethodArn), nil
	}

	claims, err := verifier.Verify(ctx, token)
	if err != nil {
		logger.Info("token rejected", zap.Error(err))
		return auth.DenyAll(req.MethodArn), nil
	}

	return auth.BuildPolicy(claims.UserID(), auth.EffectAllow, req.MethodArn, map[string]interface{}{
		"userId": claims.UserID(),
	}), nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func main() {
	lambda.Start(Handler)
}
