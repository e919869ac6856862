package repository

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"webhook-gateway/internal/domain/entity"
	"webhook-gateway/internal/infrastructure/kv"
)

const (
	authKeyKey        = "webhook:auth_key"
	triggerKeyPrefix  = "webhook:trigger:"
	authKeyLength     = 32
	authKeyAlphabet   = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	seedAuthKeyWindow = 5 * time.Second
)

// SettingsRepository holds the shared secret and the per-trigger
// configuration. Values never expire; only explicit writes change them.
type SettingsRepository interface {
	// AuthKey returns the current shared secret.
	AuthKey(ctx context.Context) (string, error)
	// RotateAuthKey generates, stores, and returns a fresh shared secret.
	RotateAuthKey(ctx context.Context) (string, error)
	// Trigger returns the stored configuration for kind. An unconfigured
	// trigger is returned disabled with an empty target URL.
	Trigger(ctx context.Context, kind entity.TriggerKind) (*entity.TriggerConfig, error)
	// SetTrigger stores the configuration for kind.
	SetTrigger(ctx context.Context, kind entity.TriggerKind, cfg *entity.TriggerConfig) error
}

type settingsRepository struct {
	store  kv.Store
	logger *zap.Logger
}

// NewSettingsRepository creates the settings repository and seeds the shared
// secret when none is stored yet.
func NewSettingsRepository(store kv.Store, logger *zap.Logger) (SettingsRepository, error) {
	r := &settingsRepository{
		store:  store,
		logger: logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), seedAuthKeyWindow)
	defer cancel()

	if _, err := r.AuthKey(ctx); errors.Is(err, kv.ErrNotFound) {
		key, rotateErr := r.RotateAuthKey(ctx)
		if rotateErr != nil {
			return nil, fmt.Errorf("failed to seed auth key: %w", rotateErr)
		}
		logger.Info("Generated initial webhook auth key",
			zap.Int("length", len(key)),
		)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read auth key: %w", err)
	}

	return r, nil
}

func (r *settingsRepository) AuthKey(ctx context.Context) (string, error) {
	return r.store.Get(ctx, authKeyKey)
}

func (r *settingsRepository) RotateAuthKey(ctx context.Context) (string, error) {
	key, err := generateAuthKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate auth key: %w", err)
	}
	if err := r.store.Set(ctx, authKeyKey, key, 0); err != nil {
		return "", fmt.Errorf("failed to store auth key: %w", err)
	}

	r.logger.Info("Webhook auth key rotated")
	return key, nil
}

func (r *settingsRepository) Trigger(ctx context.Context, kind entity.TriggerKind) (*entity.TriggerConfig, error) {
	raw, err := r.store.Get(ctx, triggerKeyPrefix+string(kind))
	if errors.Is(err, kv.ErrNotFound) {
		return &entity.TriggerConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read trigger config: %w", err)
	}

	var cfg entity.TriggerConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode trigger config: %w", err)
	}
	return &cfg, nil
}

func (r *settingsRepository) SetTrigger(ctx context.Context, kind entity.TriggerKind, cfg *entity.TriggerConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode trigger config: %w", err)
	}
	if err := r.store.Set(ctx, triggerKeyPrefix+string(kind), string(raw), 0); err != nil {
		return fmt.Errorf("failed to store trigger config: %w", err)
	}

	r.logger.Info("Trigger config updated",
		zap.String("trigger", string(kind)),
		zap.Bool("enabled", cfg.Enabled),
		zap.String("target_url", cfg.TargetURL),
	)
	return nil
}

func generateAuthKey() (string, error) {
	buf := make([]byte, authKeyLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = authKeyAlphabet[int(b)%len(authKeyAlphabet)]
	}
	return string(buf), nil
}
