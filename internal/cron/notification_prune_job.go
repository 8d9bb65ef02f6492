package cron

import (
	"context"
	"fmt"

	"github.com/supplytrust/compliance-backend/pkg/logger"
)

type notificationPruner interface {
	PruneOrphans(ctx context.Context) (int, error)
}

// NotificationPruneJobParams configures the stale marker cleanup.
type NotificationPruneJobParams struct {
	Logger        *logger.Logger
	Notifications notificationPruner
}

// NewNotificationPruneJob builds the job that drops read/dismiss markers whose
// source document or request no longer produces a notification.
func NewNotificationPruneJob(params NotificationPruneJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Notifications == nil {
		return nil, fmt.Errorf("notifications service required")
	}
	return &notificationPruneJob{
		logg:          params.Logger,
		notifications: params.Notifications,
	}, nil
}

type notificationPruneJob struct {
	logg          *logger.Logger
	notifications notificationPruner
}

func (j *notificationPruneJob) Name() string { return "notification-state-prune" }

func (j *notificationPruneJob) Run(ctx context.Context) error {
	pruned, err := j.notifications.PruneOrphans(ctx)
	if err != nil {
		return fmt.Errorf("prune notification state: %w", err)
	}
	fields := j.logg.WithField(ctx, "pruned", pruned)
	j.logg.Info(fields, "notification state prune finished")
	return nil
}
