package model

import "time"

// Transaction types accepted by the listing API.
const (
	TransactionSale   = "sale"
	TransactionRental = "rental"
)

type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type Localisation struct {
	City      string   `json:"city"`
	District  string   `json:"district"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type Composition struct {
	BedroomCount    int  `json:"bedroomCount"`
	LivingRoomCount int  `json:"livingRoomCount"`
	BathroomCount   int  `json:"bathroomCount"`
	KitchenCount    int  `json:"kitchenCount"`
	HasGuestToilet  bool `json:"hasGuestToilet"`
}

type Transaction struct {
	TransactionType string `json:"transactionType"`
	Price           int64  `json:"price"`
	RentPeriod      string `json:"rentPeriod,omitempty"`
	Currency        string `json:"currency"`
	IsNegotiable    bool   `json:"isNegotiable"`
	Deposit         *int64 `json:"deposit,omitempty"`
	Advance         *int64 `json:"advance,omitempty"`
}

type Construction struct {
	Year      int    `json:"constructionYear,omitempty"`
	Condition string `json:"constructionCondition,omitempty"`
	Type      string `json:"constructionType,omitempty"`
}

type Visibilite struct {
	Level      string `json:"level"`
	IsFeatured bool   `json:"isFeatured"`
}

// MediaFile is one attachment sent under the shared "medias" form field.
type MediaFile struct {
	Name        string
	ContentType string
	Content     []byte
}

func (f MediaFile) Size() int64 {
	return int64(len(f.Content))
}

// AnnonceRequest is the multipart payload of POST /annonces/add-annonce.
type AnnonceRequest struct {
	Title                 string
	Description           string
	Statut                string
	Type                  string
	Surface               float64
	Contact               Contact
	Localisation          Localisation
	Composition           Composition
	Transaction           Transaction
	Construction          Construction
	Visibilite            Visibilite
	EquipementsInterieurs []string
	EquipementsExterieurs []string
	Medias                []MediaFile
}

type Annonce struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Statut       string       `json:"statut"`
	Type         string       `json:"type"`
	Surface      float64      `json:"surface"`
	Contact      Contact      `json:"contact"`
	Localisation Localisation `json:"localisation"`
	Composition  Composition  `json:"composition"`
	Transaction  Transaction  `json:"transaction"`
	Visibilite   Visibilite   `json:"visibilite"`
	Medias       []string     `json:"medias,omitempty"`
	OwnerID      string       `json:"ownerId,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

type ListAnnoncesQuery struct {
	City            string
	Type            string
	TransactionType string
	Page            int
	Limit           int
}
