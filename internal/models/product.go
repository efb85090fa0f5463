package models

import "time"

type ProductCategory string

const (
	CategorySativa ProductCategory = "Sativa"
	CategoryIndica ProductCategory = "Indica"
	CategoryHybrid ProductCategory = "Hybrid"
)

type ProductType string

const (
	TypeCannabis ProductType = "Cannabis"
	TypeHash     ProductType = "Hash"
	TypeCaliPax  ProductType = "Cali Pax"
	TypeEdibles  ProductType = "Edibles"
	TypePreRolls ProductType = "Pre-Rolls"
	TypeVapes    ProductType = "Vapes"
	TypeWax      ProductType = "Wax"
)

// Product: one catalogue entry. Stock is split over three physical
// locations; quantities are grams for flower/hash and units for the
// rest, the arithmetic is the same either way.
type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"size:100;not null"`
	Category    ProductCategory `gorm:"size:20;not null"`
	ProductType ProductType     `gorm:"size:20;not null"`
	ProductCode string          `gorm:"size:50;uniqueIndex;not null"`

	OnShelfGrams  int `gorm:"not null;default:0"`
	InternalGrams int `gorm:"not null;default:0"`
	ExternalGrams int `gorm:"not null;default:0"`

	CostPrice  float64 `gorm:"not null"`
	ShelfPrice float64 `gorm:"not null"`

	DealPrice     *float64
	DealStartDate *time.Time
	DealEndDate   *time.Time

	ImageURL string `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectivePrice: deal price while the deal window is open, shelf
// price otherwise.
func (p *Product) EffectivePrice(now time.Time) float64 {
	if p.DealPrice != nil && p.DealStartDate != nil && p.DealEndDate != nil {
		if !now.Before(*p.DealStartDate) && !now.After(*p.DealEndDate) {
			return *p.DealPrice
		}
	}
	return p.ShelfPrice
}

func (p *Product) TotalStock() int {
	return p.OnShelfGrams + p.InternalGrams + p.ExternalGrams
}
