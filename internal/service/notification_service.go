package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fieldworks/maintenance-service/internal/config"
	"github.com/fieldworks/maintenance-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotifyConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotifyConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventJobCreated, n.handleJobCreated)
	n.dispatcher.Subscribe(events.EventJobStatusChanged, n.handleJobStatusChanged)
	n.dispatcher.Subscribe(events.EventJobAssigned, n.handleJobAssigned)
	n.dispatcher.Subscribe(events.EventDowntimeRecorded, n.handleDowntimeRecorded)
}

func (n *NotificationService) handleJobCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("JobCreated", zap.String("job_id", event.EntityID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleJobStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("JobStatusChanged", zap.String("job_id", event.EntityID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleJobAssigned(ctx context.Context, event events.Event) error {
	n.logger.Info("JobAssigned", zap.String("job_id", event.EntityID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleDowntimeRecorded(ctx context.Context, event events.Event) error {
	n.logger.Info("DowntimeRecorded", zap.String("downtime_id", event.EntityID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("entity_id", event.EntityID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("entity_id", event.EntityID),
		zap.String("event_type", string(event.Type)))
}
