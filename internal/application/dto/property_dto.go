package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePropertyRequest alta de inmueble.
type CreatePropertyRequest struct {
	Title       string           `json:"title" validate:"required,min=1,max=200"`
	Description string           `json:"description"`
	Type        string           `json:"type" validate:"required"`
	Address     string           `json:"address"`
	City        string           `json:"city"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Area        *decimal.Decimal `json:"area"`
	Status      string           `json:"status"`
	AssignedTo  string           `json:"assignedTo"`
}

// UpdatePropertyRequest actualización parcial.
type UpdatePropertyRequest struct {
	Title       *string          `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Type        *string          `json:"type"`
	Address     *string          `json:"address"`
	City        *string          `json:"city"`
	Price       *decimal.Decimal `json:"price"`
	Area        *decimal.Decimal `json:"area"`
	Status      *string          `json:"status"`
	AssignedTo  *string          `json:"assignedTo"`
}

// PropertyResponse salida de un inmueble.
type PropertyResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Type        string           `json:"type"`
	Address     string           `json:"address"`
	City        string           `json:"city"`
	Price       decimal.Decimal  `json:"price"`
	Area        *decimal.Decimal `json:"area"`
	Status      string           `json:"status"`
	AssignedTo  *string          `json:"assignedTo"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}
