package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLeadRequest alta de lead. AssignedTo vacío = el creador.
type CreateLeadRequest struct {
	Name       string           `json:"name" validate:"required,min=1,max=200"`
	Email      string           `json:"email" validate:"omitempty,email"`
	Phone      string           `json:"phone" validate:"omitempty,max=30"`
	Company    string           `json:"company" validate:"omitempty,max=200"`
	Source     string           `json:"source"`
	Status     string           `json:"status"`
	Budget     *decimal.Decimal `json:"budget"`
	Notes      string           `json:"notes"`
	AssignedTo string           `json:"assignedTo"`
}

// UpdateLeadRequest actualización parcial: sólo se aplican los campos presentes.
type UpdateLeadRequest struct {
	Name       *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Email      *string          `json:"email" validate:"omitempty,email"`
	Phone      *string          `json:"phone" validate:"omitempty,max=30"`
	Company    *string          `json:"company" validate:"omitempty,max=200"`
	Source     *string          `json:"source"`
	Status     *string          `json:"status"`
	Budget     *decimal.Decimal `json:"budget"`
	Notes      *string          `json:"notes"`
	AssignedTo *string          `json:"assignedTo"`
}

// LeadResponse salida de un lead.
type LeadResponse struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Email      string           `json:"email"`
	Phone      string           `json:"phone"`
	Company    string           `json:"company"`
	Source     string           `json:"source"`
	Status     string           `json:"status"`
	Budget     *decimal.Decimal `json:"budget"`
	Notes      string           `json:"notes"`
	AssignedTo *string          `json:"assignedTo"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}
