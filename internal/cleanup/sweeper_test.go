package cleanup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hooked-app/hooked-backend/internal/logging"
	"github.com/hooked-app/hooked-backend/internal/media"
)

type fakeOrphanStore struct {
	orphans []Orphan
	removed []string
	listErr error
}

func (f *fakeOrphanStore) List(ctx context.Context) ([]Orphan, error) {
	return f.orphans, f.listErr
}

func (f *fakeOrphanStore) Remove(ctx context.Context, id string) error {
	f.removed = append(f.removed, id)
	return nil
}

type fakeMediaStore struct {
	deleted []string
	errFor  map[string]error
}

func (f *fakeMediaStore) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeMediaStore) Delete(ctx context.Context, imageURL string) error {
	f.deleted = append(f.deleted, imageURL)
	return f.errFor[imageURL]
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSweepPrunesDeletedOrphans(t *testing.T) {
	store := &fakeOrphanStore{orphans: []Orphan{
		{ID: "1", ImageURL: "https://img.example.com/demo/image/upload/a.jpg"},
		{ID: "2", ImageURL: "https://img.example.com/demo/image/upload/b.jpg"},
	}}
	ms := &fakeMediaStore{}

	NewSweeper(store, ms, "0 0 0 * * *", testLogger()).Sweep(context.Background())

	assert.Len(t, ms.deleted, 2)
	assert.ElementsMatch(t, []string{"1", "2"}, store.removed)
}

func TestSweepKeepsTransientFailures(t *testing.T) {
	broken := "https://img.example.com/demo/image/upload/broken.jpg"
	fine := "https://img.example.com/demo/image/upload/fine.jpg"

	store := &fakeOrphanStore{orphans: []Orphan{
		{ID: "1", ImageURL: broken},
		{ID: "2", ImageURL: fine},
	}}
	ms := &fakeMediaStore{errFor: map[string]error{
		broken: errors.New("upstream 503"),
	}}

	NewSweeper(store, ms, "0 0 0 * * *", testLogger()).Sweep(context.Background())

	assert.Equal(t, []string{"2"}, store.removed, "only the successful delete is pruned")
}

func TestSweepDropsUnfixableURLs(t *testing.T) {
	bad := "not-a-hosted-image"
	store := &fakeOrphanStore{orphans: []Orphan{{ID: "1", ImageURL: bad}}}
	ms := &fakeMediaStore{errFor: map[string]error{
		bad: fmt.Errorf("%w: no upload segment", media.ErrBadImageURL),
	}}

	NewSweeper(store, ms, "0 0 0 * * *", testLogger()).Sweep(context.Background())

	assert.Equal(t, []string{"1"}, store.removed, "a malformed URL can never succeed later")
}

func TestSweepListFailureIsQuiet(t *testing.T) {
	store := &fakeOrphanStore{listErr: errors.New("db down")}
	ms := &fakeMediaStore{}

	NewSweeper(store, ms, "0 0 0 * * *", testLogger()).Sweep(context.Background())

	assert.Empty(t, ms.deleted)
	assert.Empty(t, store.removed)
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := NewSweeper(&fakeOrphanStore{}, &fakeMediaStore{}, "not a cron spec", testLogger())
	require.Error(t, s.Start())
}
