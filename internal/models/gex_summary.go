package models

// GexSummary is one day's aggregate exposure for a ticker. Rows are written
// by the fetch pipeline and are immutable from the read path's perspective.
type GexSummary struct {
	ID       uint    `gorm:"primaryKey;autoIncrement" json:"-"`
	TickerID uint    `gorm:"not null;index;uniqueIndex:idx_summaries_ticker_date" json:"ticker_id"`
	Date     string  `gorm:"type:varchar(10);not null;uniqueIndex:idx_summaries_ticker_date" json:"date"`
	TotalGex float64 `gorm:"not null" json:"total_gex"`
	// FlipPrice is the strike where net exposure crosses from negative to
	// positive, closest to spot.
	FlipPrice  float64 `gorm:"not null" json:"flip_price"`
	Percentile float64 `gorm:"not null" json:"percentile"`
}

func (GexSummary) TableName() string {
	return "summaries"
}
