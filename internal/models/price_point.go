package models

// PricePoint is the closing spot price for one (ticker, day).
type PricePoint struct {
	ID       uint    `gorm:"primaryKey;autoIncrement" json:"-"`
	TickerID uint    `gorm:"not null;uniqueIndex:idx_prices_ticker_date" json:"ticker_id"`
	Date     string  `gorm:"type:varchar(10);not null;uniqueIndex:idx_prices_ticker_date" json:"date"`
	Price    float64 `gorm:"not null" json:"price"`
}

func (PricePoint) TableName() string {
	return "prices"
}
