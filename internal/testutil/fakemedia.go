package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"hotel-backoffice/internal/media"
)

// FakeMediaStore is an in-memory media.Store for tests. It counts every
// upload and delete so tests can assert assets are created and removed
// exactly once, and can be told to fail on demand.
type FakeMediaStore struct {
	mu sync.Mutex

	Uploads     int
	Deletes     map[string]int // delete calls per public ID
	FailUploads bool
	FailDeletes bool

	// FailUploadsAfter, when > 0, fails every upload once that many have
	// succeeded. Lets tests trip the failure mid-way through a batch.
	FailUploadsAfter int
}

func NewFakeMediaStore() *FakeMediaStore {
	return &FakeMediaStore{
		Deletes: make(map[string]int),
	}
}

func (f *FakeMediaStore) Upload(ctx context.Context, r io.Reader, folder string) (*media.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailUploads {
		return nil, errors.New("fake upload failure")
	}
	if f.FailUploadsAfter > 0 && f.Uploads >= f.FailUploadsAfter {
		return nil, errors.New("fake upload failure")
	}

	// Drain the reader like a real store would.
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}

	f.Uploads++
	publicID := fmt.Sprintf("%s/fake-%d", folder, f.Uploads)

	return &media.Asset{
		URL:      "https://cdn.example.com/" + publicID + ".jpg",
		PublicID: publicID,
	}, nil
}

func (f *FakeMediaStore) Delete(ctx context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailDeletes {
		return errors.New("fake delete failure")
	}
	if publicID == "" {
		return nil
	}

	f.Deletes[publicID]++
	return nil
}

// DeleteCount returns how many times an asset was deleted.
func (f *FakeMediaStore) DeleteCount(publicID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Deletes[publicID]
}

// TotalDeletes returns the total number of delete calls with a public ID.
func (f *FakeMediaStore) TotalDeletes() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	total := 0
	for _, n := range f.Deletes {
		total += n
	}
	return total
}
