package entity

type Field struct {
	Base
	Name         string  `db:"name"`
	City         string  `db:"city"`
	Category     string  `db:"category"`
	PricePerHour float64 `db:"price_per_hour"`
	OpenHour     int     `db:"open_hour"`
	CloseHour    int     `db:"close_hour"`
}
