package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ponte/internal/domain"
	"ponte/internal/logging"
	"ponte/internal/ports"
)

// SQLiteArchive implements ports.QueryArchive using GORM
type SQLiteArchive struct {
	db *gorm.DB
}

// Verify interface compliance at compile time
var _ ports.QueryArchive = (*SQLiteArchive)(nil)

// gormLogger routes GORM diagnostics through the ponte logger
type gormLogger struct {
	level logger.LogLevel
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{level: level}
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Info {
		logging.Logger.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Warn {
		logging.Logger.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Error {
		logging.Logger.Error(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level < logger.Info {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.Logger.Error("gorm query error",
			"error", err,
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else {
		logging.Logger.Debug("gorm query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	}
}

func newGormLogger() logger.Interface {
	if os.Getenv("PONTE_DEBUG") == "1" {
		return (&gormLogger{}).LogMode(logger.Info)
	}
	return (&gormLogger{}).LogMode(logger.Silent)
}

// NewSQLiteArchive opens (or creates) the query archive database
func NewSQLiteArchive(dbPath string) (*SQLiteArchive, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode tolerates the engine and CLI commands touching the archive
	// at the same time
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := db.AutoMigrate(&QueryModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &SQLiteArchive{db: db}, nil
}

// Record writes one finished query to the archive
func (a *SQLiteArchive) Record(ctx context.Context, rec ports.QueryRecord) error {
	model := QueryModel{
		CacheCreation:  rec.Usage.CacheCreationInputTokens,
		CacheRead:      rec.Usage.CacheReadInputTokens,
		ContextPercent: rec.ContextPercent,
		DurationMS:     rec.Duration.Milliseconds(),
		InputTokens:    rec.Usage.InputTokens,
		Outcome:        string(rec.Outcome),
		OutputTokens:   rec.Usage.OutputTokens,
		SessionID:      rec.SessionID,
		StartedAt:      rec.StartedAt.UTC(),
		WorkingDir:     rec.WorkingDir,
	}

	if err := a.db.WithContext(ctx).Create(&model).Error; err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrBusy {
			logging.Logger.Warn("Archive busy, dropping query record")
			return nil
		}
		return fmt.Errorf("failed to record query: %w", err)
	}
	return nil
}

// TotalsSince aggregates queries started at or after since
func (a *SQLiteArchive) TotalsSince(ctx context.Context, since time.Time) (ports.QueryTotals, error) {
	var row struct {
		Queries       int
		InputTokens   int
		OutputTokens  int
		CacheRead     int
		CacheCreation int
	}

	err := a.db.WithContext(ctx).
		Model(&QueryModel{}).
		Select("COUNT(*) AS queries, "+
			"COALESCE(SUM(input_tokens), 0) AS input_tokens, "+
			"COALESCE(SUM(output_tokens), 0) AS output_tokens, "+
			"COALESCE(SUM(cache_read), 0) AS cache_read, "+
			"COALESCE(SUM(cache_creation), 0) AS cache_creation").
		Where("started_at >= ?", since.UTC()).
		Scan(&row).Error
	if err != nil {
		return ports.QueryTotals{}, fmt.Errorf("failed to aggregate queries: %w", err)
	}

	return ports.QueryTotals{
		Queries:       row.Queries,
		InputTokens:   row.InputTokens,
		OutputTokens:  row.OutputTokens,
		CacheRead:     row.CacheRead,
		CacheCreation: row.CacheCreation,
	}, nil
}

// OutcomeCountsSince groups queries by terminal outcome
func (a *SQLiteArchive) OutcomeCountsSince(ctx context.Context, since time.Time) (map[domain.Outcome]int, error) {
	var rows []struct {
		Outcome string
		Count   int
	}

	err := a.db.WithContext(ctx).
		Model(&QueryModel{}).
		Select("outcome, COUNT(*) AS count").
		Where("started_at >= ?", since.UTC()).
		Group("outcome").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count outcomes: %w", err)
	}

	counts := make(map[domain.Outcome]int, len(rows))
	for _, r := range rows {
		counts[domain.Outcome(r.Outcome)] = r.Count
	}
	return counts, nil
}

// Close closes the underlying database
func (a *SQLiteArchive) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
