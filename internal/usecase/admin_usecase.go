package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"webhook-gateway/internal/domain/entity"
	"webhook-gateway/internal/infrastructure/repository"
	"webhook-gateway/internal/infrastructure/session"
)

// LogPageSize is the fixed page size of the admin log listing.
const LogPageSize = 20

var (
	// ErrUnknownTrigger is returned when a trigger kind does not exist.
	ErrUnknownTrigger = errors.New("unknown trigger kind")
	// ErrInvalidHeaderJSON is returned when a trigger's custom headers text
	// does not parse as a JSON object.
	ErrInvalidHeaderJSON = errors.New("headers must be a JSON object")
)

// AdminUsecase exposes the operator surface: log inspection and truncation,
// auth key rotation, test mode control, and trigger configuration.
type AdminUsecase interface {
	RecentLogs(ctx context.Context, page int) ([]entity.LogEntry, error)
	ClearLogs(ctx context.Context) error
	RotateAuthKey(ctx context.Context) (string, error)
	StartTestMode(ctx context.Context) error
	StopTestMode(ctx context.Context) error
	TestModeStatus(ctx context.Context) (*entity.TestSessionStatus, error)
	Trigger(ctx context.Context, kind string) (*entity.TriggerConfig, error)
	UpdateTrigger(ctx context.Context, kind string, update *entity.TriggerUpdateRequest) (*entity.TriggerConfig, error)
}

type adminUsecase struct {
	logRepo  repository.LogRepository
	settings repository.SettingsRepository
	session  *session.TestSession
	logger   *zap.Logger
}

func NewAdminUsecase(
	logRepo repository.LogRepository,
	settings repository.SettingsRepository,
	testSession *session.TestSession,
	logger *zap.Logger,
) AdminUsecase {
	return &adminUsecase{
		logRepo:  logRepo,
		settings: settings,
		session:  testSession,
		logger:   logger,
	}
}

func (u *adminUsecase) RecentLogs(ctx context.Context, page int) ([]entity.LogEntry, error) {
	if page < 1 {
		page = 1
	}
	return u.logRepo.FindRecent(ctx, LogPageSize, (page-1)*LogPageSize)
}

func (u *adminUsecase) ClearLogs(ctx context.Context) error {
	return u.logRepo.Truncate(ctx)
}

func (u *adminUsecase) RotateAuthKey(ctx context.Context) (string, error) {
	return u.settings.RotateAuthKey(ctx)
}

func (u *adminUsecase) StartTestMode(ctx context.Context) error {
	return u.session.Start(ctx)
}

func (u *adminUsecase) StopTestMode(ctx context.Context) error {
	return u.session.Stop(ctx)
}

func (u *adminUsecase) TestModeStatus(ctx context.Context) (*entity.TestSessionStatus, error) {
	return u.session.Status(ctx)
}

func (u *adminUsecase) Trigger(ctx context.Context, kind string) (*entity.TriggerConfig, error) {
	if !entity.ValidTriggerKind(kind) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTrigger, kind)
	}
	return u.settings.Trigger(ctx, entity.TriggerKind(kind))
}

func (u *adminUsecase) UpdateTrigger(ctx context.Context, kind string, update *entity.TriggerUpdateRequest) (*entity.TriggerConfig, error) {
	if !entity.ValidTriggerKind(kind) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTrigger, kind)
	}

	triggerKind := entity.TriggerKind(kind)
	cfg, err := u.settings.Trigger(ctx, triggerKind)
	if err != nil {
		return nil, err
	}

	if update.Enabled != nil {
		cfg.Enabled = *update.Enabled
	}
	if update.TargetURL != nil {
		cfg.TargetURL = *update.TargetURL
	}
	if update.Headers != nil {
		headers := map[string]string{}
		if *update.Headers != "" {
			if err := json.Unmarshal([]byte(*update.Headers), &headers); err != nil {
				return nil, fmt.Errorf("%w: %s", ErrInvalidHeaderJSON, err)
			}
		}
		cfg.Headers = headers
	}

	if err := u.settings.SetTrigger(ctx, triggerKind, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
