package contentstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"go.uber.org/zap"

	"webhook-gateway/internal/config"
	"webhook-gateway/internal/domain/contentstore"
	"webhook-gateway/internal/domain/entity"
)

// Client talks to the host CMS REST API with application-password auth. It
// implements the ContentStore collaborator interface consumed by the
// gateway's usecases.
type Client struct {
	config     *config.Config
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.CMS.Timeout,
		},
		baseURL: strings.TrimRight(cfg.CMS.BaseURL, "/"),
		logger:  logger,
	}
}

type cmsPost struct {
	ID     int64 `json:"id"`
	Title  struct {
		Raw      string `json:"raw"`
		Rendered string `json:"rendered"`
	} `json:"title"`
	Content struct {
		Raw      string `json:"raw"`
		Rendered string `json:"rendered"`
	} `json:"content"`
	Status string `json:"status"`
	Author int64  `json:"author"`
	Type   string `json:"type"`
	Link   string `json:"link"`
}

type cmsMedia struct {
	ID        int64  `json:"id"`
	SourceURL string `json:"source_url"`
}

type cmsTerm struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (c *Client) StoreLocalFile(ctx context.Context, file *entity.UploadedFile) (*entity.MediaRef, error) {
	endpoint := c.baseURL + "/wp-json/wp/v2/media"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(file.Content))
	if err != nil {
		return nil, fmt.Errorf("failed to create media request: %w", err)
	}
	req.Header.Set("Content-Type", file.ContentType)
	req.Header.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.setAuthHeader(req)

	var media cmsMedia
	if err := c.do(req, http.StatusCreated, &media); err != nil {
		return nil, fmt.Errorf("failed to store media: %w", err)
	}

	c.logger.Info("Media stored",
		zap.Int64("media_id", media.ID),
		zap.String("filename", file.Filename),
	)

	return c.mediaRef(&media), nil
}

func (c *Client) StoreRemoteFile(ctx context.Context, fileURL string) (*entity.MediaRef, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download remote file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote file fetch failed: status=%d", resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read remote file: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return c.StoreLocalFile(ctx, &entity.UploadedFile{
		Filename:    remoteFilename(fileURL),
		ContentType: contentType,
		Size:        int64(len(content)),
		Content:     content,
	})
}

func (c *Client) DiscardFile(ctx context.Context, mediaID int64) error {
	endpoint := fmt.Sprintf("%s/wp-json/wp/v2/media/%d?force=true", c.baseURL, mediaID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create media delete request: %w", err)
	}
	c.setAuthHeader(req)

	if err := c.do(req, http.StatusOK, nil); err != nil {
		return fmt.Errorf("failed to discard media %d: %w", mediaID, err)
	}
	return nil
}

func (c *Client) CreateItem(ctx context.Context, createReq *entity.CreateItemRequest) (*entity.Post, error) {
	var post cmsPost
	if err := c.postJSON(ctx, "/wp-json/wp/v2/posts", createReq, http.StatusCreated, &post); err != nil {
		return nil, fmt.Errorf("failed to create content item: %w", err)
	}

	c.logger.Info("Content item created",
		zap.Int64("post_id", post.ID),
		zap.String("status", post.Status),
	)

	return c.toPost(&post), nil
}

func (c *Client) GetItem(ctx context.Context, id int64) (*entity.Post, error) {
	endpoint := fmt.Sprintf("%s/wp-json/wp/v2/posts/%d?context=edit", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create item request: %w", err)
	}
	c.setAuthHeader(req)

	var post cmsPost
	if err := c.do(req, http.StatusOK, &post); err != nil {
		return nil, err
	}
	return c.toPost(&post), nil
}

func (c *Client) GetMedia(ctx context.Context, id int64) (*entity.MediaRef, error) {
	endpoint := fmt.Sprintf("%s/wp-json/wp/v2/media/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create media request: %w", err)
	}
	c.setAuthHeader(req)

	var media cmsMedia
	if err := c.do(req, http.StatusOK, &media); err != nil {
		return nil, err
	}
	return c.mediaRef(&media), nil
}

func (c *Client) ResolveOrCreateTerm(ctx context.Context, name, taxonomy string) (*entity.TermRef, error) {
	route := taxonomyRoute(taxonomy)
	searchURL := fmt.Sprintf("%s/wp-json/wp/v2/%s?search=%s", c.baseURL, route, url.QueryEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create term search request: %w", err)
	}
	c.setAuthHeader(req)

	var matches []cmsTerm
	if err := c.do(req, http.StatusOK, &matches); err != nil {
		return nil, fmt.Errorf("failed to search terms: %w", err)
	}
	for _, term := range matches {
		if strings.EqualFold(term.Name, name) {
			return &entity.TermRef{ID: term.ID, Name: term.Name, Taxonomy: taxonomy}, nil
		}
	}

	var created cmsTerm
	body := map[string]string{"name": name}
	if err := c.postJSON(ctx, "/wp-json/wp/v2/"+route, body, http.StatusCreated, &created); err != nil {
		return nil, fmt.Errorf("failed to create term %q: %w", name, err)
	}

	c.logger.Info("Term created",
		zap.String("name", name),
		zap.String("taxonomy", taxonomy),
		zap.Int64("term_id", created.ID),
	)

	return &entity.TermRef{ID: created.ID, Name: created.Name, Taxonomy: taxonomy}, nil
}

func (c *Client) SetThumbnail(ctx context.Context, itemID, mediaID int64) error {
	body := map[string]int64{"featured_media": mediaID}
	route := fmt.Sprintf("/wp-json/wp/v2/posts/%d", itemID)
	if err := c.postJSON(ctx, route, body, http.StatusOK, nil); err != nil {
		return fmt.Errorf("failed to set thumbnail on item %d: %w", itemID, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, route string, body interface{}, wantStatus int, result interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+route, bytes.NewBuffer(raw))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuthHeader(req)

	return c.do(req, wantStatus, result)
}

func (c *Client) do(req *http.Request, wantStatus int, result interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return contentstore.ErrItemNotFound
	}
	if resp.StatusCode != wantStatus {
		return fmt.Errorf("unexpected status: status=%d, body=%s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

func (c *Client) setAuthHeader(req *http.Request) {
	auth := base64.StdEncoding.EncodeToString([]byte(c.config.CMS.Username + ":" + c.config.CMS.AppPassword))
	req.Header.Set("Authorization", "Basic "+auth)
}

func (c *Client) toPost(p *cmsPost) *entity.Post {
	title := p.Title.Raw
	if title == "" {
		title = p.Title.Rendered
	}
	content := p.Content.Raw
	if content == "" {
		content = p.Content.Rendered
	}
	return &entity.Post{
		ID:       p.ID,
		Title:    title,
		Content:  content,
		Status:   p.Status,
		AuthorID: p.Author,
		Type:     p.Type,
		URL:      p.Link,
		EditURL:  fmt.Sprintf("%s/wp-admin/post.php?post=%d&action=edit", c.baseURL, p.ID),
	}
}

func (c *Client) mediaRef(m *cmsMedia) *entity.MediaRef {
	return &entity.MediaRef{
		ID:      m.ID,
		URL:     m.SourceURL,
		EditURL: fmt.Sprintf("%s/wp-admin/upload.php?item=%d", c.baseURL, m.ID),
	}
}

func taxonomyRoute(taxonomy string) string {
	if taxonomy == "post_tag" {
		return "tags"
	}
	return "categories"
}

func remoteFilename(fileURL string) string {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return "download"
	}
	name := path.Base(parsed.Path)
	if name == "." || name == "/" || name == "" {
		return "download"
	}
	return name
}
