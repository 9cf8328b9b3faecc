package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Prices are stored as DECIMAL(20,6): at most six fractional digits and a
// value below MaxPrice. Inputs outside that range are rejected, never rounded.
const PriceScale = 6

// MaxPrice is the exclusive upper bound of a price.
var MaxPrice = decimal.New(1, 14)

// ItemStatus is caller-controlled item data. No transitions are enforced.
type ItemStatus string

const (
	ItemStatusActive   ItemStatus = "active"
	ItemStatusInactive ItemStatus = "inactive"
	ItemStatusArchived ItemStatus = "archived"
)

// Item is a record owned by exactly one user. UserID never changes after
// creation.
type Item struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	Name        string           `json:"name" gorm:"size:100;not null;index"`
	Description *string          `json:"description" gorm:"type:text"`
	Price       *decimal.Decimal `json:"price" gorm:"type:decimal(20,6)"`
	Status      ItemStatus       `json:"status" gorm:"type:varchar(16);not null"`
	UserID      uint             `json:"user_id" gorm:"not null;index"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// NewItem carries the caller-supplied fields of a new item. The owner is
// never taken from here.
type NewItem struct {
	Name        string           `json:"name" validate:"required,min=1,max=100"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=500"`
	Price       *decimal.Decimal `json:"price,omitempty" validate:"omitempty,gte=0"`
	Status      ItemStatus       `json:"status,omitempty" validate:"omitempty,oneof=active inactive archived"`
}

// ItemPatch is a partial update; nil fields are left unchanged.
type ItemPatch struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=500"`
	Price       *decimal.Decimal `json:"price,omitempty" validate:"omitempty,gte=0"`
	Status      *ItemStatus      `json:"status,omitempty" validate:"omitempty,oneof=active inactive archived"`
}

// Columns returns the column assignments for the supplied fields.
func (p ItemPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 4)
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Price != nil {
		cols["price"] = *p.Price
	}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	return cols
}
