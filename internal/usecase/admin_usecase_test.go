package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"webhook-gateway/internal/config"
	"webhook-gateway/internal/domain/entity"
	"webhook-gateway/internal/infrastructure/kv"
	"webhook-gateway/internal/infrastructure/repository"
	"webhook-gateway/internal/infrastructure/session"
)

type AdminUsecaseSuite struct {
	suite.Suite
	logs     *fakeLogRepo
	settings repository.SettingsRepository
	session  *session.TestSession
	uc       AdminUsecase
	ctx      context.Context
}

func TestAdminUsecaseSuite(t *testing.T) {
	suite.Run(t, new(AdminUsecaseSuite))
}

func (s *AdminUsecaseSuite) SetupTest() {
	s.ctx = context.Background()
	logger := zap.NewNop()
	store := kv.NewMemoryStore(nil)

	cfg := &config.Config{}
	cfg.Gateway.TestSessionTTL = time.Hour

	settings, err := repository.NewSettingsRepository(store, logger)
	s.Require().NoError(err)
	s.settings = settings

	s.logs = &fakeLogRepo{}
	s.session = session.NewTestSession(cfg, store, logger)
	s.uc = NewAdminUsecase(s.logs, settings, s.session, logger)
}

func (s *AdminUsecaseSuite) seedLogs(n int) {
	for i := 0; i < n; i++ {
		s.Require().NoError(s.logs.Save(s.ctx, &entity.LogEntry{
			Endpoint:   fmt.Sprintf("/webhook/v1/get-post?seq=%d", i),
			StatusCode: 200,
			Direction:  entity.DirectionIncoming,
		}))
	}
}

func (s *AdminUsecaseSuite) TestRecentLogsPagination() {
	s.seedLogs(45)

	page1, err := s.uc.RecentLogs(s.ctx, 1)
	s.Require().NoError(err)
	s.Len(page1, LogPageSize)
	// Newest entry first.
	s.Contains(page1[0].Endpoint, "seq=44")

	page3, err := s.uc.RecentLogs(s.ctx, 3)
	s.Require().NoError(err)
	s.Len(page3, 5)

	page4, err := s.uc.RecentLogs(s.ctx, 4)
	s.Require().NoError(err)
	s.Empty(page4)
}

func (s *AdminUsecaseSuite) TestRecentLogsClampsPageToOne() {
	s.seedLogs(3)

	page, err := s.uc.RecentLogs(s.ctx, 0)
	s.Require().NoError(err)
	s.Len(page, 3)
}

func (s *AdminUsecaseSuite) TestClearLogs() {
	s.seedLogs(10)

	s.Require().NoError(s.uc.ClearLogs(s.ctx))

	page, err := s.uc.RecentLogs(s.ctx, 1)
	s.Require().NoError(err)
	s.Empty(page)
}

func (s *AdminUsecaseSuite) TestRotateAuthKeyReturnsNewKey() {
	before, err := s.settings.AuthKey(s.ctx)
	s.Require().NoError(err)

	rotated, err := s.uc.RotateAuthKey(s.ctx)
	s.Require().NoError(err)
	s.Len(rotated, 32)
	s.NotEqual(before, rotated)

	stored, err := s.settings.AuthKey(s.ctx)
	s.Require().NoError(err)
	s.Equal(rotated, stored)
}

func (s *AdminUsecaseSuite) TestTestModeLifecycle() {
	status, err := s.uc.TestModeStatus(s.ctx)
	s.Require().NoError(err)
	s.False(status.Active)

	s.Require().NoError(s.uc.StartTestMode(s.ctx))

	status, err = s.uc.TestModeStatus(s.ctx)
	s.Require().NoError(err)
	s.True(status.Active)
	s.Nil(status.Captured)

	s.Require().NoError(s.uc.StopTestMode(s.ctx))

	status, err = s.uc.TestModeStatus(s.ctx)
	s.Require().NoError(err)
	s.False(status.Active)
}

func (s *AdminUsecaseSuite) TestTriggerUnknownKind() {
	_, err := s.uc.Trigger(s.ctx, "post_deleted")
	s.ErrorIs(err, ErrUnknownTrigger)

	_, err = s.uc.UpdateTrigger(s.ctx, "post_deleted", &entity.TriggerUpdateRequest{})
	s.ErrorIs(err, ErrUnknownTrigger)
}

func (s *AdminUsecaseSuite) TestUpdateTriggerPartialUpdate() {
	enabled := true
	url := "https://hooks.example/publish"
	cfg, err := s.uc.UpdateTrigger(s.ctx, "post_published", &entity.TriggerUpdateRequest{
		Enabled:   &enabled,
		TargetURL: &url,
	})
	s.Require().NoError(err)
	s.True(cfg.Enabled)
	s.Equal(url, cfg.TargetURL)

	// A later update touching only headers leaves the rest alone.
	headers := `{"X-Token": "secret"}`
	cfg, err = s.uc.UpdateTrigger(s.ctx, "post_published", &entity.TriggerUpdateRequest{
		Headers: &headers,
	})
	s.Require().NoError(err)
	s.True(cfg.Enabled)
	s.Equal(url, cfg.TargetURL)
	s.Equal("secret", cfg.Headers["X-Token"])

	stored, err := s.uc.Trigger(s.ctx, "post_published")
	s.Require().NoError(err)
	s.Equal(cfg, stored)
}

func (s *AdminUsecaseSuite) TestUpdateTriggerRejectsNonObjectHeaders() {
	for _, bad := range []string{`["a","b"]`, `"just text"`, `{"broken":`} {
		headers := bad
		_, err := s.uc.UpdateTrigger(s.ctx, "new_comment", &entity.TriggerUpdateRequest{
			Headers: &headers,
		})
		s.ErrorIs(err, ErrInvalidHeaderJSON)
	}

	// Nothing was stored along the way.
	cfg, err := s.uc.Trigger(s.ctx, "new_comment")
	s.Require().NoError(err)
	s.False(cfg.Enabled)
	s.Empty(cfg.Headers)
}

func (s *AdminUsecaseSuite) TestUpdateTriggerEmptyHeadersClears() {
	headers := `{"X-Token": "secret"}`
	_, err := s.uc.UpdateTrigger(s.ctx, "new_comment", &entity.TriggerUpdateRequest{Headers: &headers})
	s.Require().NoError(err)

	empty := ""
	cfg, err := s.uc.UpdateTrigger(s.ctx, "new_comment", &entity.TriggerUpdateRequest{Headers: &empty})
	s.Require().NoError(err)
	s.Empty(cfg.Headers)
}
