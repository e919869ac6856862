package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"webhook-gateway/internal/config"
	"webhook-gateway/internal/domain/entity"
	"webhook-gateway/internal/infrastructure/kv"
)

const (
	activeKey  = "webhook:test_mode"
	captureKey = "webhook:test_data"
)

// TestSession is the single-slot capture buffer behind test mode. While a
// session is active the pipeline short-circuits into Capture instead of
// dispatching actions; the slot keeps only the most recent envelope and the
// whole session dies with its ttl even without an explicit Stop.
type TestSession struct {
	store  kv.Store
	ttl    time.Duration
	logger *zap.Logger
}

func NewTestSession(cfg *config.Config, store kv.Store, logger *zap.Logger) *TestSession {
	return &TestSession{
		store:  store,
		ttl:    cfg.Gateway.TestSessionTTL,
		logger: logger,
	}
}

// Start activates the session and clears any prior capture.
func (s *TestSession) Start(ctx context.Context) error {
	if err := s.store.Set(ctx, activeKey, "1", s.ttl); err != nil {
		return fmt.Errorf("failed to activate test session: %w", err)
	}
	if err := s.store.Delete(ctx, captureKey); err != nil {
		return fmt.Errorf("failed to clear previous test capture: %w", err)
	}

	s.logger.Info("Test mode activated", zap.Duration("ttl", s.ttl))
	return nil
}

// Stop deactivates the session and discards the captured envelope.
func (s *TestSession) Stop(ctx context.Context) error {
	if err := s.store.Delete(ctx, activeKey, captureKey); err != nil {
		return fmt.Errorf("failed to deactivate test session: %w", err)
	}

	s.logger.Info("Test mode deactivated")
	return nil
}

// Active reports whether a session is running. An expired session counts as
// stopped even without an explicit Stop.
func (s *TestSession) Active(ctx context.Context) bool {
	_, err := s.store.Get(ctx, activeKey)
	if errors.Is(err, kv.ErrNotFound) {
		return false
	}
	if err != nil {
		s.logger.Warn("Failed to read test session state", zap.Error(err))
		return false
	}
	return true
}

// Capture stores the envelope in the single slot, replacing whatever was
// there. Last writer wins.
func (s *TestSession) Capture(ctx context.Context, envelope *entity.CapturedEnvelope) error {
	raw, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to encode captured envelope: %w", err)
	}
	if err := s.store.Set(ctx, captureKey, string(raw), s.ttl); err != nil {
		return fmt.Errorf("failed to store captured envelope: %w", err)
	}
	return nil
}

// Status returns the session state and the captured envelope, if any.
func (s *TestSession) Status(ctx context.Context) (*entity.TestSessionStatus, error) {
	if !s.Active(ctx) {
		return &entity.TestSessionStatus{Active: false}, nil
	}

	raw, err := s.store.Get(ctx, captureKey)
	if errors.Is(err, kv.ErrNotFound) {
		return &entity.TestSessionStatus{Active: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read captured envelope: %w", err)
	}

	var envelope entity.CapturedEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode captured envelope: %w", err)
	}

	return &entity.TestSessionStatus{Active: true, Captured: &envelope}, nil
}
