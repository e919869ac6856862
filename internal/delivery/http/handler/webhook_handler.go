package handler

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"webhook-gateway/internal/domain/entity"
	"webhook-gateway/internal/usecase"
)

// WebhookHandler terminates POST /webhook/v1/:action and translates the HTTP
// request into the pipeline's inbound form.
type WebhookHandler struct {
	usecase usecase.GatewayUsecase
	logger  *zap.Logger
}

func NewWebhookHandler(gatewayUsecase usecase.GatewayUsecase, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		usecase: gatewayUsecase,
		logger:  logger,
	}
}

func (h *WebhookHandler) Handle(c *fiber.Ctx) error {
	req := h.buildRequest(c)

	status, resp := h.usecase.Process(c.UserContext(), req)
	return c.Status(status).JSON(resp)
}

// buildRequest decodes the body by content type. A body that fails to parse
// does not abort the call: the raw body and parse error travel with the
// request so the pipeline can log them.
func (h *WebhookHandler) buildRequest(c *fiber.Ctx) *entity.InboundRequest {
	headers := make(map[string]string)
	for name, values := range c.GetReqHeaders() {
		headers[name] = strings.Join(values, ", ")
	}

	rawBody := append([]byte(nil), c.Body()...)
	params := make(map[string]interface{})
	files := make(map[string]*entity.UploadedFile)
	parseError := ""

	contentType := c.Get(fiber.HeaderContentType)
	switch {
	case strings.HasPrefix(contentType, fiber.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			parseError = err.Error()
			break
		}
		for name, values := range form.Value {
			if len(values) == 1 {
				params[name] = values[0]
			} else {
				list := make([]interface{}, len(values))
				for i, v := range values {
					list[i] = v
				}
				params[name] = list
			}
		}
		for field, fileHeaders := range form.File {
			if len(fileHeaders) == 0 {
				continue
			}
			uploaded, err := readUpload(fileHeaders[0])
			if err != nil {
				h.logger.Warn("Failed to read uploaded file",
					zap.String("field", field),
					zap.Error(err),
				)
				continue
			}
			files[field] = uploaded
		}

	case strings.HasPrefix(contentType, fiber.MIMEApplicationForm):
		values, err := url.ParseQuery(string(rawBody))
		if err != nil {
			parseError = err.Error()
			break
		}
		for name, vals := range values {
			if len(vals) > 0 {
				params[name] = vals[0]
			}
		}

	default:
		if len(rawBody) > 0 {
			if err := json.Unmarshal(rawBody, &params); err != nil {
				parseError = err.Error()
				params = make(map[string]interface{})
			}
		}
	}

	// Query string values fill in anything the body did not set.
	for name, value := range c.Queries() {
		if _, exists := params[name]; !exists {
			params[name] = value
		}
	}

	return &entity.InboundRequest{
		Action:        c.Params("action"),
		Route:         c.Path(),
		Method:        c.Method(),
		SourceAddress: c.IP(),
		Headers:       headers,
		Params:        params,
		Files:         files,
		RawBody:       rawBody,
		ParseError:    parseError,
	}
}

func readUpload(header *multipart.FileHeader) (*entity.UploadedFile, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return &entity.UploadedFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Size:        int64(len(content)),
		Content:     content,
	}, nil
}
