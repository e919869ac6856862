package contentstore

import (
	"context"
	"errors"

	"webhook-gateway/internal/domain/entity"
)

// ErrItemNotFound is returned by lookups when the requested item or media
// does not exist in the host CMS.
var ErrItemNotFound = errors.New("content item not found")

// ContentStore is the host CMS collaborator providing content-item and media
// persistence and lookup. The gateway only consumes this interface; the
// domain events it raises are delivered to the trigger dispatcher separately.
type ContentStore interface {
	// StoreLocalFile persists an uploaded file as a media item.
	StoreLocalFile(ctx context.Context, file *entity.UploadedFile) (*entity.MediaRef, error)
	// StoreRemoteFile fetches url and persists its content as a media item.
	StoreRemoteFile(ctx context.Context, url string) (*entity.MediaRef, error)
	// DiscardFile removes a partially stored media item.
	DiscardFile(ctx context.Context, mediaID int64) error
	// CreateItem creates a content item and returns its stored form.
	CreateItem(ctx context.Context, req *entity.CreateItemRequest) (*entity.Post, error)
	// GetItem looks up a content item. Returns ErrItemNotFound when absent.
	GetItem(ctx context.Context, id int64) (*entity.Post, error)
	// GetMedia looks up a media item. Returns ErrItemNotFound when absent.
	GetMedia(ctx context.Context, id int64) (*entity.MediaRef, error)
	// ResolveOrCreateTerm resolves a free-text term name within a taxonomy,
	// creating the term when it does not exist yet.
	ResolveOrCreateTerm(ctx context.Context, name, taxonomy string) (*entity.TermRef, error)
	// SetThumbnail attaches a media item as a content item's thumbnail.
	SetThumbnail(ctx context.Context, itemID, mediaID int64) error
}
