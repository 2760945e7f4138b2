package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PropertyTypes tipos de inmueble.
var PropertyTypes = []string{"Apartment", "House", "Commercial", "Land"}

// PropertyStatuses estados de inmueble; Available por defecto.
var PropertyStatuses = []string{"Available", "Sold", "Rented"}

// Property inmueble del inventario de la agencia. Su estado no alimenta rollups financieros.
type Property struct {
	ID          string
	Title       string
	Description string
	Type        string
	Address     string
	City        string
	Price       decimal.Decimal
	Area        *decimal.Decimal
	Status      string
	AssignedTo  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Record proyecta la propiedad a la vista de visibilidad.
func (p *Property) Record() Record {
	price := p.Price
	return Record{ID: p.ID, Kind: KindProperty, OwnerID: p.AssignedTo, Value: &price, State: p.Status}
}

// ValidPropertyType indica si t es un tipo de inmueble conocido.
func ValidPropertyType(t string) bool { return contains(PropertyTypes, t) }

// ValidPropertyStatus indica si s es un estado de inmueble conocido.
func ValidPropertyStatus(s string) bool { return contains(PropertyStatuses, s) }
