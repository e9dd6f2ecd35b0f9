package listing

import (
	"immo-client/internal/model"
)

type Identity struct {
	Title        string
	Description  string
	Status       string
	PropertyType string
	Surface      float64
}

// Draft is the in-progress listing.
type Draft struct {
	Identity         Identity
	Contact          model.Contact
	Location         model.Localisation
	Composition      model.Composition
	InteriorFeatures []string
	ExteriorFeatures []string
	Transaction      model.Transaction
	Building         model.Construction
	Media            []model.MediaFile
	Visibility       model.Visibilite
}

// NewDraft returns a draft holding the initial form values.
func NewDraft() Draft {
	return Draft{
		Identity: Identity{Status: "available"},
		Transaction: model.Transaction{
			TransactionType: model.TransactionSale,
			Currency:        "XOF",
		},
		Visibility: model.Visibilite{Level: VisibilityStandard},
	}
}

// clone copies the slices so the caller cannot mutate the composer's draft.
func (d Draft) clone() Draft {
	out := d
	out.InteriorFeatures = append([]string(nil), d.InteriorFeatures...)
	out.ExteriorFeatures = append([]string(nil), d.ExteriorFeatures...)
	out.Media = append([]model.MediaFile(nil), d.Media...)
	if d.Location.Latitude != nil {
		v := *d.Location.Latitude
		out.Location.Latitude = &v
	}
	if d.Location.Longitude != nil {
		v := *d.Location.Longitude
		out.Location.Longitude = &v
	}
	if d.Transaction.Deposit != nil {
		v := *d.Transaction.Deposit
		out.Transaction.Deposit = &v
	}
	if d.Transaction.Advance != nil {
		v := *d.Transaction.Advance
		out.Transaction.Advance = &v
	}
	return out
}

// Request maps the draft onto the add-annonce payload.
func (d Draft) Request() model.AnnonceRequest {
	c := d.clone()
	return model.AnnonceRequest{
		Title:                 c.Identity.Title,
		Description:           c.Identity.Description,
		Statut:                c.Identity.Status,
		Type:                  c.Identity.PropertyType,
		Surface:               c.Identity.Surface,
		Contact:               c.Contact,
		Localisation:          c.Location,
		Composition:           c.Composition,
		Transaction:           c.Transaction,
		Construction:          c.Building,
		Visibilite:            c.Visibility,
		EquipementsInterieurs: c.InteriorFeatures,
		EquipementsExterieurs: c.ExteriorFeatures,
		Medias:                c.Media,
	}
}
