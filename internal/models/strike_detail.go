package models

// StrikeDetail is the net exposure at a single strike for one (ticker, day).
// Strike-ascending ordering is applied at query time, not stored.
type StrikeDetail struct {
	ID       uint    `gorm:"primaryKey;autoIncrement" json:"-"`
	TickerID uint    `gorm:"not null;index:idx_details_ticker_date" json:"ticker_id"`
	Date     string  `gorm:"type:varchar(10);not null;index:idx_details_ticker_date" json:"date"`
	Strike   float64 `gorm:"not null" json:"strike"`
	NetGex   float64 `gorm:"not null" json:"net_gex"`
}

func (StrikeDetail) TableName() string {
	return "details"
}
