package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hooked-app/hooked-backend/internal/logging"
)

type fakeRepo struct {
	Repository

	deleteImagePath string
	deleteErr       error
	deletedID       string
}

func (f *fakeRepo) Delete(ctx context.Context, id string) (string, error) {
	f.deletedID = id
	return f.deleteImagePath, f.deleteErr
}

type fakeMedia struct {
	uploadURL string
	uploadErr error

	deleteErr  error
	deletedURL string
}

func (f *fakeMedia) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	return f.uploadURL, f.uploadErr
}

func (f *fakeMedia) Delete(ctx context.Context, imageURL string) error {
	f.deletedURL = imageURL
	return f.deleteErr
}

type fakeOrphans struct {
	recorded []string
	err      error
}

func (f *fakeOrphans) Record(ctx context.Context, imageURL, reason string) error {
	f.recorded = append(f.recorded, imageURL)
	return f.err
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestDeleteRemovesImage(t *testing.T) {
	repo := &fakeRepo{deleteImagePath: "https://img.example/x/image/upload/v1/a.jpg"}
	store := &fakeMedia{}
	orphans := &fakeOrphans{}
	svc := NewProjectService(repo, store, orphans, discardLogger())

	res, err := svc.Delete(context.Background(), "64f000000000000000000001")
	require.NoError(t, err)

	assert.Nil(t, res.MediaErr)
	assert.Equal(t, "64f000000000000000000001", repo.deletedID)
	assert.Equal(t, repo.deleteImagePath, store.deletedURL)
	assert.Empty(t, orphans.recorded)
}

func TestDeleteMediaFailureIsBestEffort(t *testing.T) {
	repo := &fakeRepo{deleteImagePath: "https://img.example/x/image/upload/v1/a.jpg"}
	store := &fakeMedia{deleteErr: errors.New("host unreachable")}
	orphans := &fakeOrphans{}
	svc := NewProjectService(repo, store, orphans, discardLogger())

	res, err := svc.Delete(context.Background(), "64f000000000000000000001")

	// The document delete is authoritative: no error, but the media failure
	// is observable and the orphan is recorded for the sweep.
	require.NoError(t, err)
	require.NotNil(t, res.MediaErr)
	assert.ErrorContains(t, res.MediaErr, "host unreachable")
	assert.Equal(t, []string{repo.deleteImagePath}, orphans.recorded)
}

func TestDeleteSkipsMediaForPlaceholderImage(t *testing.T) {
	repo := &fakeRepo{deleteImagePath: "No Image"}
	store := &fakeMedia{deleteErr: errors.New("should not be called")}
	svc := NewProjectService(repo, store, &fakeOrphans{}, discardLogger())

	res, err := svc.Delete(context.Background(), "64f000000000000000000001")
	require.NoError(t, err)
	assert.Nil(t, res.MediaErr)
	assert.Empty(t, store.deletedURL)
}

func TestDeleteDocumentFailurePropagates(t *testing.T) {
	repo := &fakeRepo{deleteErr: errors.New("store down")}
	store := &fakeMedia{}
	svc := NewProjectService(repo, store, &fakeOrphans{}, discardLogger())

	_, err := svc.Delete(context.Background(), "64f000000000000000000001")
	assert.ErrorContains(t, err, "store down")
	assert.Empty(t, store.deletedURL)
}

func TestUploadImagePassesThrough(t *testing.T) {
	store := &fakeMedia{uploadURL: "https://img.example/x/image/upload/v1/new.jpg"}
	svc := NewProjectService(&fakeRepo{}, store, &fakeOrphans{}, discardLogger())

	url, err := svc.UploadImage(context.Background(), []byte("png"), "new.jpg")
	require.NoError(t, err)
	assert.Equal(t, store.uploadURL, url)
}
