package cron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"faturadash/internal/config"
	"faturadash/internal/models"
	"faturadash/internal/repository"
	"faturadash/internal/storage"
	"faturadash/internal/webhook"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.ScheduledDispatch{}, &models.GeneratedPdf{}))
	return db
}

// newTestScheduler wires a scheduler against an in-memory store and the
// given fake webhook/storage endpoints, with the throttle collapsed so
// cycles finish instantly.
func newTestScheduler(t *testing.T, webhookURL, storageURL string, retainFailedOnce bool) (*Scheduler, *Repos) {
	t.Helper()

	db := newTestDB(t)
	repos := &Repos{
		Dispatch: repository.NewDispatchRepository(db),
		Pdf:      repository.NewPdfRepository(db),
	}

	cfg := &config.Config{
		Webhook: config.WebhookConfig{URL: webhookURL, Timeout: 2 * time.Second},
		Storage: config.StorageConfig{
			BaseURL:       storageURL,
			APIKey:        "test-key",
			Bucket:        "celesc-faturas",
			FaturasFolder: "faturas",
			ResumosFolder: "resumos",
			PollInterval:  25 * time.Second,
		},
		Scheduler: config.SchedulerConfig{
			Interval:         time.Minute,
			DispatchThrottle: time.Millisecond,
			RetainFailedOnce: retainFailedOnce,
		},
	}

	s := New(cfg, repos, webhook.New(&cfg.Webhook), storage.New(&cfg.Storage), nil, zap.NewNop())
	return s, repos
}
