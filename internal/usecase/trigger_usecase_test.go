package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"webhook-gateway/internal/domain/entity"
	"webhook-gateway/internal/infrastructure/kv"
	"webhook-gateway/internal/infrastructure/repository"
)

type sentWebhook struct {
	url     string
	payload map[string]interface{}
	headers map[string]string
}

type fakeSender struct {
	sent   []sentWebhook
	result bool
}

func (f *fakeSender) Send(ctx context.Context, url string, payload interface{}, headers map[string]string) bool {
	f.sent = append(f.sent, sentWebhook{
		url:     url,
		payload: payload.(map[string]interface{}),
		headers: headers,
	})
	return f.result
}

type TriggerDispatcherSuite struct {
	suite.Suite
	settings   repository.SettingsRepository
	sender     *fakeSender
	dispatcher TriggerDispatcher
	ctx        context.Context
}

func TestTriggerDispatcherSuite(t *testing.T) {
	suite.Run(t, new(TriggerDispatcherSuite))
}

func (s *TriggerDispatcherSuite) SetupTest() {
	s.ctx = context.Background()
	logger := zap.NewNop()

	settings, err := repository.NewSettingsRepository(kv.NewMemoryStore(nil), logger)
	s.Require().NoError(err)
	s.settings = settings

	s.sender = &fakeSender{result: true}
	s.dispatcher = NewTriggerDispatcher(settings, s.sender, logger)
}

func (s *TriggerDispatcherSuite) enable(kind entity.TriggerKind, url string, headers map[string]string) {
	s.Require().NoError(s.settings.SetTrigger(s.ctx, kind, &entity.TriggerConfig{
		Enabled:   true,
		TargetURL: url,
		Headers:   headers,
	}))
}

func (s *TriggerDispatcherSuite) TestPublishTransitionFires() {
	s.enable(entity.TriggerPostPublished, "https://hooks.example/publish", map[string]string{"X-Token": "t"})

	fired := s.dispatcher.PostPublished(s.ctx, &entity.PostPublishedEvent{
		NewStatus: "publish",
		OldStatus: "draft",
		Post:      entity.Post{ID: 9, Title: "Launch", URL: "https://site.example/?p=9"},
	})

	s.True(fired)
	s.Require().Len(s.sender.sent, 1)
	sent := s.sender.sent[0]
	s.Equal("https://hooks.example/publish", sent.url)
	s.Equal("post_published", sent.payload["event"])
	s.Equal("draft", sent.payload["old_status"])
	s.Equal("t", sent.headers["X-Token"])
}

func (s *TriggerDispatcherSuite) TestRepublishDoesNotFire() {
	s.enable(entity.TriggerPostPublished, "https://hooks.example/publish", nil)

	fired := s.dispatcher.PostPublished(s.ctx, &entity.PostPublishedEvent{
		NewStatus: "publish",
		OldStatus: "publish",
		Post:      entity.Post{ID: 9},
	})

	s.False(fired)
	s.Empty(s.sender.sent)
}

func (s *TriggerDispatcherSuite) TestUnpublishDoesNotFire() {
	s.enable(entity.TriggerPostPublished, "https://hooks.example/publish", nil)

	fired := s.dispatcher.PostPublished(s.ctx, &entity.PostPublishedEvent{
		NewStatus: "draft",
		OldStatus: "publish",
		Post:      entity.Post{ID: 9},
	})

	s.False(fired)
	s.Empty(s.sender.sent)
}

func (s *TriggerDispatcherSuite) TestRevisionNeverFires() {
	s.enable(entity.TriggerPostPublished, "https://hooks.example/publish", nil)
	s.enable(entity.TriggerPostCreated, "https://hooks.example/created", nil)

	s.False(s.dispatcher.PostPublished(s.ctx, &entity.PostPublishedEvent{
		NewStatus: "publish",
		OldStatus: "draft",
		Post:      entity.Post{ID: 9, Type: "revision"},
	}))
	s.False(s.dispatcher.PostCreated(s.ctx, &entity.PostCreatedEvent{
		Post: entity.Post{ID: 9, Type: "autosave"},
	}))
	s.Empty(s.sender.sent)
}

func (s *TriggerDispatcherSuite) TestCreatedFiresOnlyForNewItems() {
	s.enable(entity.TriggerPostCreated, "https://hooks.example/created", nil)

	s.False(s.dispatcher.PostCreated(s.ctx, &entity.PostCreatedEvent{
		IsUpdate: true,
		Post:     entity.Post{ID: 9},
	}))
	s.Empty(s.sender.sent)

	s.True(s.dispatcher.PostCreated(s.ctx, &entity.PostCreatedEvent{
		Post: entity.Post{ID: 9, Title: "Fresh", Status: "draft"},
	}))
	s.Require().Len(s.sender.sent, 1)
	s.Equal("post_created", s.sender.sent[0].payload["event"])
}

func (s *TriggerDispatcherSuite) TestNewCommentFires() {
	s.enable(entity.TriggerNewComment, "https://hooks.example/comment", nil)

	fired := s.dispatcher.NewComment(s.ctx, &entity.NewCommentEvent{
		Comment: entity.Comment{ID: 3, PostID: 9, AuthorName: "Ann", Content: "Nice"},
	})

	s.True(fired)
	s.Require().Len(s.sender.sent, 1)
	s.Equal(int64(3), s.sender.sent[0].payload["comment_id"])
}

func (s *TriggerDispatcherSuite) TestDisabledTriggerDoesNotFire() {
	s.Require().NoError(s.settings.SetTrigger(s.ctx, entity.TriggerNewComment, &entity.TriggerConfig{
		Enabled:   false,
		TargetURL: "https://hooks.example/comment",
	}))

	s.False(s.dispatcher.NewComment(s.ctx, &entity.NewCommentEvent{Comment: entity.Comment{ID: 3}}))
	s.Empty(s.sender.sent)
}

func (s *TriggerDispatcherSuite) TestEnabledWithoutURLDoesNotFire() {
	s.Require().NoError(s.settings.SetTrigger(s.ctx, entity.TriggerNewComment, &entity.TriggerConfig{
		Enabled: true,
	}))

	s.False(s.dispatcher.NewComment(s.ctx, &entity.NewCommentEvent{Comment: entity.Comment{ID: 3}}))
	s.Empty(s.sender.sent)
}

func (s *TriggerDispatcherSuite) TestUnconfiguredTriggerDoesNotFire() {
	s.False(s.dispatcher.NewComment(s.ctx, &entity.NewCommentEvent{Comment: entity.Comment{ID: 3}}))
	s.Empty(s.sender.sent)
}

func (s *TriggerDispatcherSuite) TestDeliveryFailureReportedNotRetried() {
	s.enable(entity.TriggerNewComment, "https://hooks.example/comment", nil)
	s.sender.result = false

	fired := s.dispatcher.NewComment(s.ctx, &entity.NewCommentEvent{Comment: entity.Comment{ID: 3}})

	s.False(fired)
	s.Len(s.sender.sent, 1)
}
