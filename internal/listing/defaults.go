package listing

import (
	"strings"

	"immo-client/internal/model"
)

// Property types offered by the composer.
const (
	TypeStudio     = "studio"
	TypeApartment  = "appartement"
	TypeVilla      = "villa"
	TypeDuplex     = "duplex"
	TypeHouse      = "maison"
	TypeRoom       = "chambre"
	TypeOffice     = "bureau"
	TypeShop       = "magasin"
	TypeLand       = "terrain"
	TypeWarehouse  = "entrepot"
	TypeResidence  = "residence"
	TypeBuilding   = "immeuble"
	TypeFarmland   = "plantation"
	TypeCommercial = "local-commercial"
)

// Visibility levels accepted by the API.
const (
	VisibilityStandard = "standard"
	VisibilityPremium  = "premium"
	VisibilityVIP      = "vip"
)

// Rent periods offered for rentals.
var RentPeriods = []string{"day", "week", "month", "year"}

// CompositionDefaults are the suggested room counts of a property type.
type CompositionDefaults struct {
	BedroomCount    int
	LivingRoomCount int
}

// StudioTemplate is forced onto the composition of a studio.
var StudioTemplate = model.Composition{
	BedroomCount:    0,
	LivingRoomCount: 1,
	BathroomCount:   1,
	KitchenCount:    1,
	HasGuestToilet:  false,
}

var propertyDefaults = map[string]CompositionDefaults{
	TypeStudio:     {BedroomCount: 0, LivingRoomCount: 1},
	TypeApartment:  {BedroomCount: 2, LivingRoomCount: 1},
	TypeVilla:      {BedroomCount: 4, LivingRoomCount: 2},
	TypeDuplex:     {BedroomCount: 3, LivingRoomCount: 1},
	TypeHouse:      {BedroomCount: 3, LivingRoomCount: 1},
	TypeRoom:       {BedroomCount: 1, LivingRoomCount: 0},
	TypeResidence:  {BedroomCount: 2, LivingRoomCount: 1},
	TypeBuilding:   {BedroomCount: 0, LivingRoomCount: 0},
	TypeOffice:     {BedroomCount: 0, LivingRoomCount: 0},
	TypeShop:       {BedroomCount: 0, LivingRoomCount: 0},
	TypeCommercial: {BedroomCount: 0, LivingRoomCount: 0},
	TypeWarehouse:  {BedroomCount: 0, LivingRoomCount: 0},
	TypeLand:       {BedroomCount: 0, LivingRoomCount: 0},
	TypeFarmland:   {BedroomCount: 0, LivingRoomCount: 0},
}

// DefaultsFor reports the suggested composition of propertyType.
func DefaultsFor(propertyType string) (CompositionDefaults, bool) {
	d, ok := propertyDefaults[normalizeType(propertyType)]
	return d, ok
}

// PropertyTypes lists every recognized property type.
func PropertyTypes() []string {
	return []string{
		TypeStudio, TypeApartment, TypeVilla, TypeDuplex, TypeHouse, TypeRoom, TypeResidence,
		TypeBuilding, TypeOffice, TypeShop, TypeCommercial, TypeWarehouse, TypeLand, TypeFarmland,
	}
}

func isStudio(propertyType string) bool {
	return normalizeType(propertyType) == TypeStudio
}

func normalizeType(propertyType string) string {
	return strings.ToLower(strings.TrimSpace(propertyType))
}
