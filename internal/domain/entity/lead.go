package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lead. Converted es el único estado de cierre ganado.
const (
	LeadStatusNew          = "New"
	LeadStatusContacted    = "Contacted"
	LeadStatusQualified    = "Qualified"
	LeadStatusProposalSent = "Proposal Sent"
	LeadStatusLost         = "Lost"
	LeadStatusConverted    = "Converted"
)

// LeadStatuses en orden de embudo.
var LeadStatuses = []string{
	LeadStatusNew, LeadStatusContacted, LeadStatusQualified,
	LeadStatusProposalSent, LeadStatusLost, LeadStatusConverted,
}

// LeadSources orígenes aceptados; Website por defecto.
var LeadSources = []string{"Website", "LinkedIn", "Referral", "Cold Call", "Social Media", "Ads", "Other"}

// Lead oportunidad comercial. Budget alimenta revenue (Converted) o pipeline (resto).
type Lead struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	Company    string
	Source     string
	Status     string
	Budget     *decimal.Decimal
	Notes      string
	AssignedTo *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Record proyecta el lead a la vista de rollup.
func (l *Lead) Record() Record {
	return Record{ID: l.ID, Kind: KindLead, OwnerID: l.AssignedTo, Value: l.Budget, State: l.Status}
}

// ValidLeadStatus indica si s es un estado de lead conocido.
func ValidLeadStatus(s string) bool { return contains(LeadStatuses, s) }

// ValidLeadSource indica si s es un origen conocido.
func ValidLeadSource(s string) bool { return contains(LeadSources, s) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
