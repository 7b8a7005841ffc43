package job

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"contact-intake-api/internal/client"
	"contact-intake-api/internal/store"
)

// CleanupJob deletes orphaned contact attachments: blobs whose submission
// record no longer exists, typically left behind when a pipeline run failed
// between uploading files and writing the record.
type CleanupJob struct {
	store       store.SubmissionStore
	s3Client    client.S3ClientInterface
	gracePeriod time.Duration
	logger      *zap.Logger
}

// NewCleanupJob creates a new CleanupJob instance
func NewCleanupJob(
	submissionStore store.SubmissionStore,
	s3Client client.S3ClientInterface,
	gracePeriod time.Duration,
	logger *zap.Logger,
) *CleanupJob {
	return &CleanupJob{
		store:       submissionStore,
		s3Client:    s3Client,
		gracePeriod: gracePeriod,
		logger:      logger,
	}
}

// Run executes one cleanup pass. Blobs younger than the grace period are
// never touched; a submission may still be mid-pipeline.
func (j *CleanupJob) Run() {
	ctx := context.Background()

	j.logger.Info("Starting orphaned attachment cleanup")

	entries, err := j.s3Client.ListFiles(ctx, client.ContactFilePrefix)
	if err != nil {
		j.logger.Error("Failed to list contact attachments", zap.Error(err))
		return
	}

	cutoff := time.Now().Add(-j.gracePeriod)
	checked := make(map[string]bool)
	successCount := 0
	failCount := 0

	for _, entry := range entries {
		if entry.LastModified.After(cutoff) {
			continue
		}

		submissionID := submissionIDFromKey(entry.Key)
		if submissionID == "" {
			j.logger.Warn("Unexpected key under contact prefix", zap.String("key", entry.Key))
			continue
		}

		orphaned, known := checked[submissionID]
		if !known {
			exists, err := j.store.Exists(ctx, submissionID)
			if err != nil {
				j.logger.Error("Failed to check submission record",
					zap.String("submission_id", submissionID),
					zap.Error(err),
				)
				continue
			}
			orphaned = !exists
			checked[submissionID] = orphaned
		}
		if !orphaned {
			continue
		}

		if err := j.s3Client.DeleteFile(ctx, entry.Key); err != nil {
			j.logger.Error("Failed to delete orphaned attachment",
				zap.String("key", entry.Key),
				zap.Error(err),
			)
			failCount++
			continue
		}
		successCount++

		j.logger.Debug("Deleted orphaned attachment",
			zap.String("submission_id", submissionID),
			zap.String("key", entry.Key),
		)
	}

	j.logger.Info("Orphaned attachment cleanup completed",
		zap.Int("scanned", len(entries)),
		zap.Int("deleted", successCount),
		zap.Int("failed", failCount),
	)
}

// submissionIDFromKey extracts the owning submission id from a blob key.
// Keys look like contact/{submissionId}/{fieldName}_{timestamp}{ext}.
func submissionIDFromKey(key string) string {
	rest := strings.TrimPrefix(key, client.ContactFilePrefix)
	if rest == key {
		return ""
	}
	if idx := strings.Index(rest, "/"); idx > 0 {
		return rest[:idx]
	}
	return ""
}
