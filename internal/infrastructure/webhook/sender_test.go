package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"webhook-gateway/internal/config"
	"webhook-gateway/internal/domain/entity"
)

type fakeLogRepo struct {
	mu      sync.Mutex
	entries []entity.LogEntry
}

func (f *fakeLogRepo) Save(ctx context.Context, log *entity.LogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *log)
	return nil
}

func (f *fakeLogRepo) FindRecent(ctx context.Context, limit, offset int) ([]entity.LogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.LogEntry(nil), f.entries...), nil
}

func (f *fakeLogRepo) Truncate(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = nil
	return nil
}

type SenderSuite struct {
	suite.Suite
	logRepo *fakeLogRepo
	sender  Sender
	ctx     context.Context
}

func TestSenderSuite(t *testing.T) {
	suite.Run(t, new(SenderSuite))
}

func (s *SenderSuite) SetupTest() {
	s.logRepo = &fakeLogRepo{}
	cfg := &config.Config{}
	cfg.App.Name = "hostapp"
	cfg.App.BaseURL = "https://yoursite.com"
	cfg.Gateway.SendTimeout = 15 * time.Second
	s.sender = NewSender(cfg, s.logRepo, zap.NewNop())
	s.ctx = context.Background()
}

func (s *SenderSuite) TestEmptyURLFailsWithoutLogging() {
	delivered := s.sender.Send(s.ctx, "", map[string]interface{}{"event": "post_published"}, nil)
	s.False(delivered)
	s.Empty(s.logRepo.entries)
}

func (s *SenderSuite) TestSuccessfulDelivery() {
	var gotBody map[string]interface{}
	var gotContentType, gotUserAgent, gotCustom string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotUserAgent = r.Header.Get("User-Agent")
		gotCustom = r.Header.Get("X-Token")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"received":true}`))
	}))
	defer server.Close()

	payload := map[string]interface{}{"event": "post_published", "post_id": 7}
	delivered := s.sender.Send(s.ctx, server.URL, payload, map[string]string{"X-Token": "secret"})

	s.True(delivered)
	s.Equal("application/json", gotContentType)
	s.Contains(gotUserAgent, "hostapp")
	s.Equal("secret", gotCustom)
	s.Equal("post_published", gotBody["event"])

	s.Require().Len(s.logRepo.entries, 1)
	entry := s.logRepo.entries[0]
	s.Equal(entity.DirectionOutgoing, entry.Direction)
	s.Equal(http.MethodPost, entry.Method)
	s.Equal(server.URL, entry.Endpoint)
	s.Equal(http.StatusOK, entry.StatusCode)
	s.Contains(entry.Response, "received")
	s.Empty(entry.SourceAddress)
}

func (s *SenderSuite) TestCallerHeadersOverrideDefaults() {
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
	}))
	defer server.Close()

	s.sender.Send(s.ctx, server.URL, map[string]interface{}{}, map[string]string{
		"Content-Type": "application/vnd.custom+json",
	})

	s.Equal("application/vnd.custom+json", gotContentType)
}

func (s *SenderSuite) TestNon2xxIsFailureButLogged() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	delivered := s.sender.Send(s.ctx, server.URL, map[string]interface{}{"event": "new_comment"}, nil)

	s.False(delivered)
	s.Require().Len(s.logRepo.entries, 1)
	s.Equal(http.StatusBadGateway, s.logRepo.entries[0].StatusCode)
}

func (s *SenderSuite) TestTransportFailureLoggedAs500() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	delivered := s.sender.Send(s.ctx, url, map[string]interface{}{"event": "post_created"}, nil)

	s.False(delivered)
	s.Require().Len(s.logRepo.entries, 1)
	entry := s.logRepo.entries[0]
	s.Equal(http.StatusInternalServerError, entry.StatusCode)
	s.NotEmpty(entry.Response)
	s.Equal(entity.DirectionOutgoing, entry.Direction)
}
