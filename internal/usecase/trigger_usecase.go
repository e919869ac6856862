package usecase

import (
	"context"

	"go.uber.org/zap"

	"webhook-gateway/internal/domain/entity"
	"webhook-gateway/internal/infrastructure/repository"
	"webhook-gateway/internal/infrastructure/webhook"
)

// TriggerDispatcher receives domain events from the Content Store boundary
// and decides, per configured trigger, whether an outbound webhook fires.
// Delivery is synchronous and at-most-once: the return value reports whether
// a delivery succeeded, and a failure is never retried or raised back to the
// event source.
type TriggerDispatcher interface {
	PostCreated(ctx context.Context, event *entity.PostCreatedEvent) bool
	PostPublished(ctx context.Context, event *entity.PostPublishedEvent) bool
	NewComment(ctx context.Context, event *entity.NewCommentEvent) bool
}

type triggerDispatcher struct {
	settings repository.SettingsRepository
	sender   webhook.Sender
	logger   *zap.Logger
}

func NewTriggerDispatcher(
	settings repository.SettingsRepository,
	sender webhook.Sender,
	logger *zap.Logger,
) TriggerDispatcher {
	return &triggerDispatcher{
		settings: settings,
		sender:   sender,
		logger:   logger,
	}
}

func (d *triggerDispatcher) PostCreated(ctx context.Context, event *entity.PostCreatedEvent) bool {
	if event.IsUpdate || event.Post.IsRevision() {
		return false
	}

	return d.fire(ctx, entity.TriggerPostCreated, map[string]interface{}{
		"event":   "post_created",
		"post_id": event.Post.ID,
		"title":   event.Post.Title,
		"status":  event.Post.Status,
		"author":  event.Post.AuthorID,
		"url":     event.Post.URL,
	})
}

func (d *triggerDispatcher) PostPublished(ctx context.Context, event *entity.PostPublishedEvent) bool {
	// Re-saving an already-published item must not fire again.
	if event.NewStatus != "publish" || event.OldStatus == "publish" {
		return false
	}
	if event.Post.IsRevision() {
		return false
	}

	return d.fire(ctx, entity.TriggerPostPublished, map[string]interface{}{
		"event":      "post_published",
		"post_id":    event.Post.ID,
		"title":      event.Post.Title,
		"url":        event.Post.URL,
		"old_status": event.OldStatus,
		"new_status": event.NewStatus,
	})
}

func (d *triggerDispatcher) NewComment(ctx context.Context, event *entity.NewCommentEvent) bool {
	return d.fire(ctx, entity.TriggerNewComment, map[string]interface{}{
		"event":      "new_comment",
		"comment_id": event.Comment.ID,
		"post_id":    event.Comment.PostID,
		"author":     event.Comment.AuthorName,
		"content":    event.Comment.Content,
	})
}

// fire consults the trigger's stored config and hands the payload to the
// sender. Disabled triggers and empty target URLs are checked explicitly.
func (d *triggerDispatcher) fire(ctx context.Context, kind entity.TriggerKind, payload map[string]interface{}) bool {
	cfg, err := d.settings.Trigger(ctx, kind)
	if err != nil {
		d.logger.Error("Failed to load trigger config",
			zap.String("trigger", string(kind)),
			zap.Error(err),
		)
		return false
	}

	if !cfg.Enabled || cfg.TargetURL == "" {
		return false
	}

	delivered := d.sender.Send(ctx, cfg.TargetURL, payload, cfg.Headers)
	if !delivered {
		d.logger.Warn("Trigger delivery failed",
			zap.String("trigger", string(kind)),
			zap.String("target_url", cfg.TargetURL),
		)
	}
	return delivered
}
