package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsbedrock "github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awscognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"contentforge-backend/application/services"
	"contentforge-backend/infrastructure/ai/bedrock"
	"contentforge-backend/infrastructure/config"
	"contentforge-backend/infrastructure/messaging/eventbridge"
	"contentforge-backend/infrastructure/observability"
	"contentforge-backend/infrastructure/persistence/dynamodb"
	"contentforge-backend/infrastructure/storage/s3media"
	"contentforge-backend/interfaces/http/rest"
	"contentforge-backend/pkg/auth"
)

// ProvideLogger builds the process logger from the configured level
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if level, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = level
	}

	return zapCfg.Build()
}

// ProvideAWSConfig loads the default AWS configuration chain
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideS3Client creates an S3 client
func ProvideS3Client(awsCfg aws.Config) *awss3.Client {
	return awss3.NewFromConfig(awsCfg)
}

// ProvidePresignClient creates the S3 presigner backed by the same client
func ProvidePresignClient(client *awss3.Client) *awss3.PresignClient {
	return awss3.NewPresignClient(client)
}

// ProvideCognitoClient creates a Cognito identity provider client
func ProvideCognitoClient(awsCfg aws.Config) *awscognito.Client {
	return awscognito.NewFromConfig(awsCfg)
}

// ProvideBedrockClient creates a Bedrock runtime client
func ProvideBedrockClient(awsCfg aws.Config) *awsbedrock.Client {
	return awsbedrock.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideStore creates the single-table item store
func ProvideStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) *dynamodb.Store {
	return dynamodb.NewStore(client, cfg.DynamoDBTable, cfg.GSI1Name, logger)
}

// MediaStores groups the per-bucket object stores. Video bytes and pipeline
// transcripts live in separate buckets.
type MediaStores struct {
	Videos      *s3media.Store
	Transcripts *s3media.Store
}

// ProvideMediaStores creates the presigning object stores for both buckets
func ProvideMediaStores(client *awss3.Client, presign *awss3.PresignClient, cfg *config.Config, logger *zap.Logger) *MediaStores {
	return &MediaStores{
		Videos:      s3media.NewStore(client, presign, cfg.VideosBucket, cfg.PresignExpiry, logger),
		Transcripts: s3media.NewStore(client, presign, cfg.TranscriptsBucket, cfg.PresignExpiry, logger),
	}
}

// ProvideInferenceClient creates the model-backed inference client
func ProvideInferenceClient(client *awsbedrock.Client, cfg *config.Config, logger *zap.Logger) *bedrock.Client {
	return bedrock.NewClient(client, cfg.BedrockModelID, int(cfg.InferenceMaxTokens), logger)
}

// ProvideEventPublisher creates the pipeline event publisher
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) *eventbridge.Publisher {
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideMetricsRecorder creates the CloudWatch metrics recorder
func ProvideMetricsRecorder(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Recorder {
	return observability.NewRecorder(client, cfg.MetricsNamespace, logger)
}

// ProvideKeySet creates the cached signing key set for the user pool
func ProvideKeySet(cfg *config.Config, logger *zap.Logger) *auth.KeySet {
	return auth.NewKeySet(cfg.JWKSURL(), cfg.JWKSCacheTTL, logger)
}

// ProvideVerifier creates the access token verifier
func ProvideVerifier(keySet *auth.KeySet, cfg *config.Config, logger *zap.Logger) *auth.Verifier {
	return auth.NewVerifier(keySet, cfg.IssuerURL(), cfg.CognitoClientID, logger)
}

// ProvideIdentityService creates the user pool identity service
func ProvideIdentityService(client *awscognito.Client, cfg *config.Config, logger *zap.Logger) *auth.IdentityService {
	return auth.NewIdentityService(client, cfg.CognitoClientID, logger)
}

// ProvideProjectService creates the project service
func ProvideProjectService(store *dynamodb.Store, metrics *observability.Recorder, logger *zap.Logger) *services.ProjectService {
	return services.NewProjectService(store, metrics, logger)
}

// ProvideScriptService creates the script service
func ProvideScriptService(store *dynamodb.Store, projects *services.ProjectService, inference *bedrock.Client, metrics *observability.Recorder, logger *zap.Logger) *services.ScriptService {
	return services.NewScriptService(store, projects, inference, metrics, logger)
}

// ProvideVideoService creates the video service
func ProvideVideoService(store *dynamodb.Store, projects *services.ProjectService, stores *MediaStores, inference *bedrock.Client, events *eventbridge.Publisher, metrics *observability.Recorder, logger *zap.Logger) *services.VideoService {
	return services.NewVideoService(store, projects, stores.Videos, stores.Transcripts, inference, events, metrics, logger)
}

// ProvideTopicService creates the topic suggestion service
func ProvideTopicService(projects *services.ProjectService, inference *bedrock.Client, metrics *observability.Recorder, logger *zap.Logger) *services.TopicService {
	return services.NewTopicService(projects, inference, metrics, logger)
}

// ProvideDashboardService creates the dashboard aggregation service
func ProvideDashboardService(projects *services.ProjectService, scripts *services.ScriptService, videos *services.VideoService, logger *zap.Logger) *services.DashboardService {
	return services.NewDashboardService(projects, scripts, videos, logger)
}

// ProvideRouter wires the HTTP surface
func ProvideRouter(
	cfg *config.Config,
	identity *auth.IdentityService,
	verifier *auth.Verifier,
	projects *services.ProjectService,
	topics *services.TopicService,
	scripts *services.ScriptService,
	videos *services.VideoService,
	dashboard *services.DashboardService,
	metrics *observability.Recorder,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(cfg, identity, verifier, projects, topics, scripts, videos, dashboard, metrics, logger)
}
