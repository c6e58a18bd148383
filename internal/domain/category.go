package domain

import "github.com/shopspring/decimal"

// Category is a user-defined spending category
type Category struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	ColorCode    string           `json:"colorCode"`
	CategoryIcon int              `json:"categoryIcon"`
	Budget       *decimal.Decimal `json:"budget,omitempty"`
}

// Ref returns the denormalized reference used inside expense payloads
func (c Category) Ref() CategoryRef {
	return CategoryRef{
		ID:           c.ID,
		Name:         c.Name,
		ColorCode:    c.ColorCode,
		CategoryIcon: c.CategoryIcon,
	}
}
