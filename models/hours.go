package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BusinessHours is one shift of the weekly schedule. A day may have several.
type BusinessHours struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	DayOfWeek  int    `gorm:"not null;index" json:"day_of_week"` // 0 = Sunday, as time.Weekday
	OpenTime   string `gorm:"type:varchar(5);not null" json:"open_time"`
	CloseTime  string `gorm:"type:varchar(5);not null" json:"close_time"`
	ShiftOrder int    `gorm:"not null" json:"shift_order"`
}

// SpecialHours overrides the weekly schedule for one calendar date.
type SpecialHours struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Date      string  `gorm:"type:varchar(10);uniqueIndex;not null" json:"date"` // 2006-01-02
	IsClosed  bool    `gorm:"not null" json:"is_closed"`
	OpenTime  *string `gorm:"type:varchar(5)" json:"open_time"`
	CloseTime *string `gorm:"type:varchar(5)" json:"close_time"`
	Reason    string  `json:"reason"`
}

// Settings is the single configuration row of the shop.
type Settings struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	AvgPrepMinutes    int             `gorm:"not null" json:"avg_prep_minutes"`
	DeliveryFee       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"delivery_fee"`
	MinOrderAmount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"min_order_amount"`
	TemporarilyClosed bool            `gorm:"not null" json:"temporarily_closed"`
	StatusMessage     string          `json:"status_message"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (s Settings) PrepDuration() time.Duration {
	return time.Duration(s.AvgPrepMinutes) * time.Minute
}

// DefaultSettings seeds the settings row on first start.
func DefaultSettings() Settings {
	return Settings{
		ID:             1,
		AvgPrepMinutes: 30,
		DeliveryFee:    decimal.RequireFromString("2.50"),
		MinOrderAmount: decimal.Zero,
	}
}
