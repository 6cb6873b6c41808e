package models

import "time"

// WatchlistEntry is a tracked ticker symbol. Tickers are stored normalized
// (uppercase, no whitespace); the unique index is the real duplicate guard.
type WatchlistEntry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Ticker    string    `gorm:"type:varchar(12);not null;uniqueIndex" json:"ticker"`
	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"-"`
}

func (WatchlistEntry) TableName() string {
	return "watchlist"
}
