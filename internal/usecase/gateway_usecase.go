package usecase

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"webhook-gateway/internal/domain/contentstore"
	"webhook-gateway/internal/domain/entity"
	"webhook-gateway/internal/infrastructure/ratelimit"
	"webhook-gateway/internal/infrastructure/repository"
	"webhook-gateway/internal/infrastructure/session"
)

// allowedUploadTypes is the declared-MIME allowlist for direct file uploads.
var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

var allowedPostStatuses = map[string]bool{
	"draft":   true,
	"publish": true,
	"pending": true,
	"private": true,
}

// GatewayUsecase runs the inbound pipeline: auth, rate limiting, test-mode
// capture, action dispatch against the Content Store, and the unconditional
// request log write.
type GatewayUsecase interface {
	// Process handles one inbound call and returns the HTTP status and
	// response body to send. Exactly one incoming log entry is written per
	// call unless the log store itself is down.
	Process(ctx context.Context, req *entity.InboundRequest) (int, *entity.APIResponse)
}

type gatewayUsecase struct {
	settings repository.SettingsRepository
	limiter  *ratelimit.Limiter
	session  *session.TestSession
	content  contentstore.ContentStore
	logRepo  repository.LogRepository
	logger   *zap.Logger
}

func NewGatewayUsecase(
	settings repository.SettingsRepository,
	limiter *ratelimit.Limiter,
	testSession *session.TestSession,
	content contentstore.ContentStore,
	logRepo repository.LogRepository,
	logger *zap.Logger,
) GatewayUsecase {
	return &gatewayUsecase{
		settings: settings,
		limiter:  limiter,
		session:  testSession,
		content:  content,
		logRepo:  logRepo,
		logger:   logger,
	}
}

func (u *gatewayUsecase) Process(ctx context.Context, req *entity.InboundRequest) (int, *entity.APIResponse) {
	status, resp := u.run(ctx, req)
	u.writeLog(ctx, req, status, resp)
	return status, resp
}

func (u *gatewayUsecase) run(ctx context.Context, req *entity.InboundRequest) (int, *entity.APIResponse) {
	if gwErr := u.authorize(ctx, req); gwErr != nil {
		return gwErr.Status, entity.NewErrorResponse(gwErr)
	}

	if !u.limiter.Allow(ctx, req.SourceAddress) {
		gwErr := entity.ErrRateLimited()
		return gwErr.Status, entity.NewErrorResponse(gwErr)
	}

	// Test mode diverts the call into the capture slot without touching the
	// Content Store.
	if u.session.Active(ctx) {
		envelope := &entity.CapturedEnvelope{
			Action:  req.Action,
			Params:  req.Params,
			Files:   req.Files,
			Headers: req.Headers,
		}
		if err := u.session.Capture(ctx, envelope); err != nil {
			u.logger.Warn("Failed to capture test request", zap.Error(err))
		}
		return http.StatusOK, entity.NewSuccessResponse(map[string]interface{}{
			"test_mode":     true,
			"captured_data": envelope,
		}, "Test mode active")
	}

	if req.ParseError != "" {
		gwErr := entity.ErrInvalidBody(req.ParseError)
		return gwErr.Status, entity.NewErrorResponse(gwErr)
	}

	action, ok := ParseAction(req.Action)
	if !ok {
		gwErr := entity.ErrInvalidAction(req.Action)
		return gwErr.Status, entity.NewErrorResponse(gwErr)
	}

	data, gwErr := u.dispatch(ctx, action, req)
	if gwErr != nil {
		return gwErr.Status, entity.NewErrorResponse(gwErr)
	}
	return http.StatusOK, entity.NewSuccessResponse(data, "")
}

func (u *gatewayUsecase) authorize(ctx context.Context, req *entity.InboundRequest) *entity.GatewayError {
	provided := req.Headers["X-Auth-Key"]
	if provided == "" {
		return entity.ErrMissingAuth()
	}

	stored, err := u.settings.AuthKey(ctx)
	if err != nil {
		u.logger.Error("Failed to load auth key", zap.Error(err))
		return entity.ErrInternal()
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(provided)) != 1 {
		return entity.ErrInvalidAuth()
	}
	return nil
}

func (u *gatewayUsecase) dispatch(ctx context.Context, action Action, req *entity.InboundRequest) (interface{}, *entity.GatewayError) {
	switch action {
	case ActionUpload:
		return u.handleUpload(ctx, req)
	case ActionCreatePost:
		return u.handleCreatePost(ctx, req)
	case ActionGetPost:
		return u.handleGetPost(ctx, req)
	}
	return nil, entity.ErrInternal()
}

func (u *gatewayUsecase) handleUpload(ctx context.Context, req *entity.InboundRequest) (interface{}, *entity.GatewayError) {
	file := req.Files["file"]
	fileURL := req.StringParam("file_url")

	if file == nil && fileURL == "" {
		return nil, entity.ErrNoFile()
	}

	if fileURL != "" {
		media, err := u.content.StoreRemoteFile(ctx, fileURL)
		if err != nil {
			return nil, entity.ErrUpstream(err)
		}
		return mediaResult(media), nil
	}

	if !allowedUploadTypes[file.ContentType] {
		return nil, entity.ErrInvalidType(file.ContentType)
	}

	media, err := u.content.StoreLocalFile(ctx, file)
	if err != nil {
		return nil, entity.ErrUpstream(err)
	}
	return mediaResult(media), nil
}

func (u *gatewayUsecase) handleCreatePost(ctx context.Context, req *entity.InboundRequest) (interface{}, *entity.GatewayError) {
	for _, field := range []string{"title", "content", "author"} {
		if req.StringParam(field) == "" {
			return nil, entity.ErrMissingField(field)
		}
	}

	// Validate a referenced media id before creating anything, so a bad
	// reference fails without side effects.
	featuredMediaID, hasFeaturedMedia := req.IntParam("featuredMediaId")
	if hasFeaturedMedia {
		if _, err := u.content.GetMedia(ctx, featuredMediaID); err != nil {
			if errors.Is(err, contentstore.ErrItemNotFound) {
				return nil, entity.ErrInvalidMedia()
			}
			return nil, entity.ErrUpstream(err)
		}
	}

	categories, gwErr := u.resolveTerms(ctx, req.ListParam("categories"), "category")
	if gwErr != nil {
		return nil, gwErr
	}
	tags, gwErr := u.resolveTerms(ctx, req.ListParam("tags"), "post_tag")
	if gwErr != nil {
		return nil, gwErr
	}

	authorID, _ := req.IntParam("author")

	post, err := u.content.CreateItem(ctx, &entity.CreateItemRequest{
		Title:       req.StringParam("title"),
		Content:     req.StringParam("content"),
		Status:      sanitizePostStatus(req.StringParam("status")),
		AuthorID:    authorID,
		CategoryIDs: categories,
		TagIDs:      tags,
	})
	if err != nil {
		return nil, entity.ErrUpstream(err)
	}

	if imageURL := req.StringParam("featured_image"); imageURL != "" {
		u.attachRemoteThumbnail(ctx, post.ID, imageURL)
	}

	if hasFeaturedMedia {
		if err := u.content.SetThumbnail(ctx, post.ID, featuredMediaID); err != nil {
			// Post exists; a thumbnail failure is a partial success, logged
			// with the created item rather than failing the call.
			u.logger.Warn("Failed to set thumbnail",
				zap.Int64("post_id", post.ID),
				zap.Int64("media_id", featuredMediaID),
				zap.Error(err),
			)
		}
	}

	return map[string]interface{}{
		"postId":      post.ID,
		"postUrl":     post.URL,
		"postEditUrl": post.EditURL,
		"published":   post.Status == "publish",
	}, nil
}

func (u *gatewayUsecase) handleGetPost(ctx context.Context, req *entity.InboundRequest) (interface{}, *entity.GatewayError) {
	id, ok := req.IntParam("postId")
	if !ok {
		return nil, entity.ErrMissingField("postId")
	}

	post, err := u.content.GetItem(ctx, id)
	if errors.Is(err, contentstore.ErrItemNotFound) {
		return nil, entity.ErrNotFound("Post not found")
	}
	if err != nil {
		return nil, entity.ErrUpstream(err)
	}
	return post, nil
}

// attachRemoteThumbnail side-loads a featured image URL. Failures never fail
// the created post; a media item orphaned by a failed attach is discarded.
func (u *gatewayUsecase) attachRemoteThumbnail(ctx context.Context, postID int64, imageURL string) {
	media, err := u.content.StoreRemoteFile(ctx, imageURL)
	if err != nil {
		u.logger.Warn("Failed to store featured image",
			zap.Int64("post_id", postID),
			zap.String("url", imageURL),
			zap.Error(err),
		)
		return
	}
	if err := u.content.SetThumbnail(ctx, postID, media.ID); err != nil {
		u.logger.Warn("Failed to attach featured image",
			zap.Int64("post_id", postID),
			zap.Int64("media_id", media.ID),
			zap.Error(err),
		)
		if discardErr := u.content.DiscardFile(ctx, media.ID); discardErr != nil {
			u.logger.Warn("Failed to discard orphaned media",
				zap.Int64("media_id", media.ID),
				zap.Error(discardErr),
			)
		}
	}
}

func (u *gatewayUsecase) resolveTerms(ctx context.Context, values []interface{}, taxonomy string) ([]int64, *entity.GatewayError) {
	if len(values) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(values))
	for _, value := range values {
		switch v := value.(type) {
		case float64:
			ids = append(ids, int64(v))
		case string:
			if id, err := strconv.ParseInt(v, 10, 64); err == nil {
				ids = append(ids, id)
				continue
			}
			term, err := u.content.ResolveOrCreateTerm(ctx, v, taxonomy)
			if err != nil {
				return nil, entity.ErrUpstream(err)
			}
			ids = append(ids, term.ID)
		}
	}
	return ids, nil
}

// writeLog appends the incoming log entry. Best-effort: a failed write is
// reported to the operational log and never alters the computed response.
func (u *gatewayUsecase) writeLog(ctx context.Context, req *entity.InboundRequest, status int, resp *entity.APIResponse) {
	headerJSON, _ := json.Marshal(req.Headers)
	filesJSON, _ := json.Marshal(req.Files)
	responseJSON, _ := json.Marshal(resp)

	var paramsJSON []byte
	if req.ParseError != "" {
		paramsJSON, _ = json.Marshal(map[string]string{
			"raw_body":    string(req.RawBody),
			"parse_error": req.ParseError,
		})
	} else {
		paramsJSON, _ = json.Marshal(req.Params)
	}
	if string(paramsJSON) == "null" {
		paramsJSON = []byte("{}")
	}

	entry := &entity.LogEntry{
		Time:          time.Now(),
		Endpoint:      req.Route,
		Method:        req.Method,
		Headers:       string(headerJSON),
		Params:        string(paramsJSON),
		Files:         string(filesJSON),
		Response:      string(responseJSON),
		StatusCode:    status,
		SourceAddress: req.SourceAddress,
		Direction:     entity.DirectionIncoming,
	}

	if err := u.logRepo.Save(ctx, entry); err != nil {
		u.logger.Error("Webhook logging failed",
			zap.String("endpoint", req.Route),
			zap.Error(err),
		)
	}
}

func mediaResult(media *entity.MediaRef) map[string]interface{} {
	return map[string]interface{}{
		"mediaId":  media.ID,
		"mediaUrl": media.URL,
		"editUrl":  media.EditURL,
	}
}

func sanitizePostStatus(status string) string {
	if allowedPostStatuses[status] {
		return status
	}
	return "draft"
}
