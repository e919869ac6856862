package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"webhook-gateway/internal/config"
	"webhook-gateway/internal/domain/entity"
	"webhook-gateway/internal/infrastructure/repository"
)

const maxResponseLogLength = 10000

// Sender performs one outbound webhook delivery. Every attempt, successful
// or not, leaves exactly one outgoing log entry; there are no retries.
type Sender interface {
	Send(ctx context.Context, url string, payload interface{}, headers map[string]string) bool
}

type sender struct {
	client    *http.Client
	logRepo   repository.LogRepository
	userAgent string
	logger    *zap.Logger
}

func NewSender(cfg *config.Config, logRepo repository.LogRepository, logger *zap.Logger) Sender {
	return &sender{
		client: &http.Client{
			Timeout: cfg.Gateway.SendTimeout,
		},
		logRepo:   logRepo,
		userAgent: fmt.Sprintf("%s-webhook-gateway (%s)", cfg.App.Name, cfg.App.BaseURL),
		logger:    logger,
	}
}

// Send posts the payload as JSON to url. An empty url fails immediately with
// no log side effect; anything past that point is logged whatever happens.
func (s *sender) Send(ctx context.Context, url string, payload interface{}, headers map[string]string) bool {
	if url == "" {
		return false
	}

	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("Failed to marshal webhook payload", zap.Error(err))
		return false
	}

	merged := map[string]string{
		"Content-Type": "application/json",
		"User-Agent":   s.userAgent,
	}
	for name, value := range headers {
		merged[name] = value
	}

	statusCode := http.StatusInternalServerError
	responseBody := ""

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		responseBody = err.Error()
		s.logger.Error("Failed to build webhook request",
			zap.String("url", url),
			zap.Error(err),
		)
		s.saveDeliveryLog(url, merged, body, responseBody, statusCode)
		return false
	}
	for name, value := range merged {
		req.Header.Set(name, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		// Transport failure: logged with status 500 and the error text as body.
		responseBody = err.Error()
		s.logger.Warn("Webhook delivery failed",
			zap.String("url", url),
			zap.Error(err),
		)
		s.saveDeliveryLog(url, merged, body, responseBody, statusCode)
		return false
	}
	defer resp.Body.Close()

	statusCode = resp.StatusCode
	respBytes, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		responseBody = readErr.Error()
	} else {
		responseBody = string(respBytes)
	}
	if len(responseBody) > maxResponseLogLength {
		responseBody = responseBody[:maxResponseLogLength] + "... [truncated]"
	}

	s.logger.Info("Webhook delivered",
		zap.String("url", url),
		zap.Int("status_code", statusCode),
	)
	s.saveDeliveryLog(url, merged, body, responseBody, statusCode)

	return statusCode >= 200 && statusCode < 300
}

// saveDeliveryLog writes the outgoing log entry. Best-effort: a failed write
// is reported to the operational log only.
func (s *sender) saveDeliveryLog(url string, headers map[string]string, payload []byte, response string, statusCode int) {
	headerJSON, _ := json.Marshal(headers)

	entry := &entity.LogEntry{
		Time:       time.Now(),
		Endpoint:   url,
		Method:     http.MethodPost,
		Headers:    string(headerJSON),
		Params:     string(payload),
		Files:      "{}",
		Response:   response,
		StatusCode: statusCode,
		Direction:  entity.DirectionOutgoing,
	}

	if err := s.logRepo.Save(context.Background(), entry); err != nil {
		s.logger.Error("Failed to log webhook delivery",
			zap.String("url", url),
			zap.Error(err),
		)
	}
}
