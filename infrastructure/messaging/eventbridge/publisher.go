package eventbridge

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	apperrors "contentforge-backend/pkg/errors"
)

const eventSource = "contentforge.backend"

// EventsAPI is the subset of the event bus client the publisher uses
type EventsAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// Publisher emits domain events onto the shared bus. Downstream pipeline
// workers (transcription, analysis) subscribe to these.
type Publisher struct {
	client  EventsAPI
	busName string
	logger  *zap.Logger
}

// NewPublisher creates an event publisher bound to one bus
func NewPublisher(client EventsAPI, busName string, logger *zap.Logger) *Publisher {
	return &Publisher{
		client:  client,
		busName: busName,
		logger:  logger,
	}
}

// Publish emits one event with a JSON detail payload
func (p *Publisher) Publish(ctx context.Context, detailType string, detail interface{}) error {
	payload, err := json.Marshal(detail)
	if err != nil {
		return apperrors.NewInternalError("failed to encode event detail").WithCause(err)
	}

	out, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				EventBusName: aws.String(p.busName),
				Source:       aws.String(eventSource),
				DetailType:   aws.String(detailType),
				Detail:       aws.String(string(payload)),
			},
		},
	})
	if err != nil {
		p.logger.Error("Failed to publish event", zap.Error(err), zap.String("detailType", detailType))
		return apperrors.NewInternalError("failed to publish event").WithCause(err)
	}
	if out.FailedEntryCount > 0 {
		p.logger.Error("Event bus rejected event",
			zap.String("detailType", detailType),
			zap.Int32("failed", out.FailedEntryCount),
		)
		return apperrors.NewInternalError("event bus rejected event")
	}

	p.logger.Debug("Published event", zap.String("detailType", detailType))
	return nil
}
