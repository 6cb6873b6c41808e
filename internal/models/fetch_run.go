package models

import (
	"time"

	"gorm.io/datatypes"
)

// FetchRun records one invocation of the per-ticker fetch process.
type FetchRun struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Ticker string `gorm:"type:varchar(12);not null;index" json:"ticker"`
	Status string `gorm:"type:varchar(10);not null;index" json:"status"`
	// Output holds {stdout, stderr, exit_code} captured from the process.
	Output     datatypes.JSON `gorm:"type:jsonb" json:"output"`
	DurationMs int64          `gorm:"not null" json:"duration_ms"`
	CreatedAt  time.Time      `gorm:"type:timestamptz;autoCreateTime;index" json:"created_at"`
}

func (FetchRun) TableName() string {
	return "fetch_runs"
}
