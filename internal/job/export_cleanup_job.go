package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/mblog/internal/filestore"
	"github.com/xxxsen/mblog/internal/service"
)

// ExportCleanupJob removes export archives older than the retention
// window from the file store.
type ExportCleanupJob struct {
	store     filestore.Store
	retention time.Duration
}

func NewExportCleanupJob(store filestore.Store, retention time.Duration) *ExportCleanupJob {
	return &ExportCleanupJob{store: store, retention: retention}
}

func (j *ExportCleanupJob) Name() string {
	return "export_cleanup"
}

func (j *ExportCleanupJob) Run(ctx context.Context) error {
	if j.store == nil || j.retention <= 0 {
		return nil
	}
	objects, err := j.store.List(ctx, service.ExportPrefix)
	if err != nil {
		return err
	}
	cutoff := time.Now().Add(-j.retention)
	removed := 0
	for _, object := range objects {
		if object.ModTime.IsZero() || object.ModTime.After(cutoff) {
			continue
		}
		if err := j.store.Delete(ctx, object.Key); err != nil {
			logutil.GetLogger(ctx).Warn("delete stale export failed", zap.String("key", object.Key), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		logutil.GetLogger(ctx).Info("stale exports removed", zap.Int("count", removed))
	}
	return nil
}
