package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/yjpartners/valet/internal/common"
	"github.com/yjpartners/valet/internal/model"
)

const folderMIMEType = "application/vnd.google-apps.folder"

// DriveStore organizes a folder tree in Google Drive. Item and
// container IDs are Drive file IDs.
type DriveStore struct {
	service *drive.Service
}

// NewDriveStore creates a Drive-backed store from an OAuth2 token
// source.
func NewDriveStore(ctx context.Context, ts oauth2.TokenSource) (*DriveStore, error) {
	service, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("creating Drive service: %w", err)
	}
	return &DriveStore{service: service}, nil
}

// List enumerates the direct, untrashed children of a Drive folder.
func (s *DriveStore) List(ctx context.Context, folderID string) ([]model.Item, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false", escapeQuery(folderID))

	var items []model.Item
	err := s.service.Files.List().
		Q(query).
		Fields("nextPageToken, files(id, name, mimeType)").
		PageSize(100).
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				kind := model.KindFile
				if f.MimeType == folderMIMEType {
					kind = model.KindFolder
				}
				items = append(items, model.Item{
					ID:     f.Id,
					Name:   f.Name,
					Parent: folderID,
					Kind:   kind,
				})
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("listing Drive folder: %w", err)
	}
	return items, nil
}

// EnsureFolder finds the named child folder or creates it. Both the
// search and the create retry on rate limits and server errors.
func (s *DriveStore) EnsureFolder(ctx context.Context, parentID, name string) (string, error) {
	query := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false and '%s' in parents",
		escapeQuery(name), folderMIMEType, escapeQuery(parentID))

	var found *drive.FileList
	err := common.WithRetry(ctx, func() error {
		var listErr error
		found, listErr = s.service.Files.List().
			Q(query).
			Fields("files(id)").
			PageSize(1).
			Context(ctx).
			Do()
		return retryable(listErr)
	}, common.RetryOptions{})
	if err != nil {
		return "", fmt.Errorf("searching for folder %q: %w", name, err)
	}
	if len(found.Files) > 0 {
		return found.Files[0].Id, nil
	}

	var created *drive.File
	err = common.WithRetry(ctx, func() error {
		var createErr error
		created, createErr = s.service.Files.Create(&drive.File{
			Name:     name,
			MimeType: folderMIMEType,
			Parents:  []string{parentID},
		}).Fields("id").Context(ctx).Do()
		return retryable(createErr)
	}, common.RetryOptions{})
	if err != nil {
		return "", fmt.Errorf("creating folder %q: %w", name, err)
	}
	return created.Id, nil
}

// Move re-parents the item into the destination folder. Drive treats
// this as a metadata update, so the file id is stable across moves.
func (s *DriveStore) Move(ctx context.Context, item model.Item, destID string) error {
	err := common.WithRetry(ctx, func() error {
		_, updateErr := s.service.Files.Update(item.ID, nil).
			AddParents(destID).
			RemoveParents(item.Parent).
			Fields("id, parents").
			Context(ctx).
			Do()
		return retryable(updateErr)
	}, common.RetryOptions{})
	if err != nil {
		return fmt.Errorf("moving %s: %w", item.Name, err)
	}
	return nil
}

// retryable tags Drive API errors so WithRetry retries rate limits,
// server-side failures, and transport errors, and nothing else. Rate
// limits are marked with ErrRateLimit so the retry loop backs off to
// its maximum delay straight away.
func retryable(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return &common.RetryableError{Err: fmt.Errorf("%w: %v", common.ErrRateLimit, err), Retryable: true}
		case apiErr.Code >= 500:
			return &common.RetryableError{Err: err, Retryable: true}
		default:
			return &common.RetryableError{Err: err, Retryable: false}
		}
	}
	return &common.RetryableError{Err: err, Retryable: true}
}

// escapeQuery escapes backslashes and single quotes for embedding in a
// Drive query string.
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
