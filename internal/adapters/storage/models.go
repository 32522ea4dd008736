package storage

import "time"

// QueryModel is the GORM model for archived queries
type QueryModel struct {
	ID             uint   `gorm:"primaryKey"`
	CacheCreation  int    `gorm:"not null;default:0"`
	CacheRead      int    `gorm:"not null;default:0"`
	ContextPercent int    `gorm:"not null;default:0"`
	CreatedAt      time.Time
	DurationMS     int64     `gorm:"not null;default:0"`
	InputTokens    int       `gorm:"not null;default:0"`
	Outcome        string    `gorm:"not null;index:idx_outcome"`
	OutputTokens   int       `gorm:"not null;default:0"`
	SessionID      string    `gorm:"index:idx_session_id"`
	StartedAt      time.Time `gorm:"not null;index:idx_started_at"`
	WorkingDir     string    `gorm:"default:''"`
}

// TableName specifies the table name for GORM
func (QueryModel) TableName() string { return "queries" }
