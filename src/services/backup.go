package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/username/equityflow/src/logger"
)

// backupFileLayout names backup files so they sort chronologically.
const backupFileLayout = "ledger-20060102-150405.sql"

// RunBackup writes a script export of the ledger into dir and returns its path.
// The file only appears under its final name once fully written.
func RunBackup(ctx context.Context, svc LedgerService, dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, now.Format(backupFileLayout))

	tmp, err := os.CreateTemp(dir, ".ledger-*.sql.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := svc.ExportScript(ctx, tmp); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close backup file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to finalize backup file: %w", err)
	}
	return path, nil
}

// NewBackupScheduler returns a stopped cron scheduler that runs RunBackup on
// the given schedule (standard five-field cron syntax or descriptors such as
// "@daily"). Call Start to begin and Stop to end.
func NewBackupScheduler(svc LedgerService, dir, schedule string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx := context.Background()
		path, err := RunBackup(ctx, svc, dir, time.Now())
		if err != nil {
			logger.L.Error("Scheduled ledger backup failed", "dir", dir, "error", err)
			return
		}
		logger.L.Info("Scheduled ledger backup written", "path", path)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", schedule, err)
	}
	return c, nil
}
