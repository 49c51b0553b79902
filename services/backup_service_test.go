package services

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/Dosada05/event-companion/models"
	"github.com/Dosada05/event-companion/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSnapshotRepo struct {
	takenAt time.Time
}

func (r *fakeSnapshotRepo) ExportAll(context.Context) (*models.Snapshot, error) {
	return &models.Snapshot{
		TakenAt: r.takenAt,
		Players: []models.Player{{ID: 1, Name: "Alice Johnson"}},
	}, nil
}

type fakeUploader struct {
	uploads []string
	deletes []string
}

func (u *fakeUploader) Upload(_ context.Context, key, _ string, _ io.Reader) (*storage.UploadResult, error) {
	u.uploads = append(u.uploads, key)
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) Delete(_ context.Context, key string) error {
	u.deletes = append(u.deletes, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://backups.example/" + key
}

func TestBackupRunUploadsSnapshot(t *testing.T) {
	repo := &fakeSnapshotRepo{takenAt: time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)}
	uploader := &fakeUploader{}
	service := NewBackupService(repo, uploader, discardLogger())

	result, err := service.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "snapshots/2026-08-29T12-00-00Z.json", result.Key)
	assert.Equal(t, []string{result.Key}, uploader.uploads)
	assert.Empty(t, uploader.deletes)
}

func TestBackupRunPrunesOldSnapshots(t *testing.T) {
	repo := &fakeSnapshotRepo{}
	uploader := &fakeUploader{}
	service := NewBackupService(repo, uploader, discardLogger())

	runs := retainSnapshots + 2
	for i := 0; i < runs; i++ {
		repo.takenAt = time.Date(2026, 8, 29, 0, i, 0, 0, time.UTC)
		_, err := service.Run(context.Background())
		require.NoError(t, err)
	}

	require.Len(t, uploader.uploads, runs)
	// The two oldest uploads are gone; the newest retainSnapshots remain.
	expected := []string{
		fmt.Sprintf("snapshots/%s.json", time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC).Format("2006-01-02T15-04-05Z")),
		fmt.Sprintf("snapshots/%s.json", time.Date(2026, 8, 29, 0, 1, 0, 0, time.UTC).Format("2006-01-02T15-04-05Z")),
	}
	assert.Equal(t, expected, uploader.deletes)
}
