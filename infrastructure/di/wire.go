//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"contentforge-backend/infrastructure/config"
	"contentforge-backend/interfaces/http/rest"
	"contentforge-backend/pkg/auth"
)

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Router   *rest.Router
	Verifier *auth.Verifier
	Identity *auth.IdentityService
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideS3Client,
	ProvidePresignClient,
	ProvideCognitoClient,
	ProvideBedrockClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideStore,
	ProvideMediaStores,
	ProvideInferenceClient,
	ProvideEventPublisher,
	ProvideMetricsRecorder,
	ProvideKeySet,
	ProvideVerifier,
	ProvideIdentityService,
	ProvideProjectService,
	ProvideScriptService,
	ProvideVideoService,
	ProvideTopicService,
	ProvideDashboardService,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
