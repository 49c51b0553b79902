package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Dosada05/event-companion/repositories"
	"github.com/Dosada05/event-companion/storage"
)

// retainSnapshots bounds how many snapshot uploads this process keeps in the
// bucket before pruning the oldest ones.
const retainSnapshots = 5

// BackupService exports the whole store as one JSON snapshot and uploads it to
// remote object storage, so another install can be rebuilt from the document.
type BackupService interface {
	Run(ctx context.Context) (*storage.UploadResult, error)
}

type backupService struct {
	snapshotRepo repositories.SnapshotRepository
	uploader     storage.FileUploader
	logger       *slog.Logger

	mu           sync.Mutex
	uploadedKeys []string
}

func NewBackupService(snapshotRepo repositories.SnapshotRepository, uploader storage.FileUploader, logger *slog.Logger) BackupService {
	return &backupService{
		snapshotRepo: snapshotRepo,
		uploader:     uploader,
		logger:       logger,
	}
}

func (s *backupService) Run(ctx context.Context) (*storage.UploadResult, error) {
	snapshot, err := s.snapshotRepo.ExportAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export snapshot: %w", err)
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	key := fmt.Sprintf("snapshots/%s.json", snapshot.TakenAt.Format("2006-01-02T15-04-05Z"))
	result, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to upload snapshot: %w", err)
	}

	s.logger.Info("snapshot uploaded",
		slog.String("key", result.Key),
		slog.Int("bytes", len(data)),
		slog.Int("players", len(snapshot.Players)),
		slog.Int("events", len(snapshot.Events)),
	)
	s.pruneOld(ctx, result.Key)
	return result, nil
}

// pruneOld deletes the oldest snapshots once more than retainSnapshots uploads
// have accumulated. Only keys uploaded by this process are tracked; snapshots
// left by earlier runs stay in the bucket.
func (s *backupService) pruneOld(ctx context.Context, newKey string) {
	s.mu.Lock()
	s.uploadedKeys = append(s.uploadedKeys, newKey)
	var stale []string
	if len(s.uploadedKeys) > retainSnapshots {
		cut := len(s.uploadedKeys) - retainSnapshots
		stale = append(stale, s.uploadedKeys[:cut]...)
		s.uploadedKeys = append(s.uploadedKeys[:0:0], s.uploadedKeys[cut:]...)
	}
	s.mu.Unlock()

	for _, key := range stale {
		if err := s.uploader.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to prune old snapshot", slog.String("key", key), slog.Any("error", err))
			continue
		}
		s.logger.Info("old snapshot pruned", slog.String("key", key))
	}
}
