package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"webhook-gateway/internal/domain/entity"
	"webhook-gateway/internal/infrastructure/kv"
)

type SettingsRepositorySuite struct {
	suite.Suite
	repo SettingsRepository
	ctx  context.Context
}

func TestSettingsRepositorySuite(t *testing.T) {
	suite.Run(t, new(SettingsRepositorySuite))
}

func (s *SettingsRepositorySuite) SetupTest() {
	repo, err := NewSettingsRepository(kv.NewMemoryStore(nil), zap.NewNop())
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *SettingsRepositorySuite) TestAuthKeySeededOnStartup() {
	key, err := s.repo.AuthKey(s.ctx)
	s.Require().NoError(err)
	s.Len(key, 32)
}

func (s *SettingsRepositorySuite) TestRotateAuthKeyReplacesKey() {
	before, err := s.repo.AuthKey(s.ctx)
	s.Require().NoError(err)

	rotated, err := s.repo.RotateAuthKey(s.ctx)
	s.Require().NoError(err)
	s.Len(rotated, 32)
	s.NotEqual(before, rotated)

	after, err := s.repo.AuthKey(s.ctx)
	s.Require().NoError(err)
	s.Equal(rotated, after)
}

func (s *SettingsRepositorySuite) TestUnconfiguredTriggerIsDisabled() {
	cfg, err := s.repo.Trigger(s.ctx, entity.TriggerPostPublished)
	s.Require().NoError(err)
	s.False(cfg.Enabled)
	s.Empty(cfg.TargetURL)
}

func (s *SettingsRepositorySuite) TestTriggerRoundTrip() {
	want := &entity.TriggerConfig{
		Enabled:   true,
		TargetURL: "https://example.com/hook",
		Headers:   map[string]string{"X-Token": "secret"},
	}
	s.Require().NoError(s.repo.SetTrigger(s.ctx, entity.TriggerNewComment, want))

	got, err := s.repo.Trigger(s.ctx, entity.TriggerNewComment)
	s.Require().NoError(err)
	s.Equal(want, got)
}
