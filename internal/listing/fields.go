package listing

import (
	"fmt"
	"strings"

	"immo-client/internal/model"
)

// Field names one control of the form.
type Field string

const (
	FieldTitle        Field = "title"
	FieldDescription  Field = "description"
	FieldStatus       Field = "status"
	FieldPropertyType Field = "propertyType"
	FieldSurface      Field = "surface"

	FieldContactName  Field = "contact.name"
	FieldContactPhone Field = "contact.phone"
	FieldContactEmail Field = "contact.email"

	FieldCity      Field = "location.city"
	FieldDistrict  Field = "location.district"
	FieldAddress   Field = "location.address"
	FieldLatitude  Field = "location.latitude"
	FieldLongitude Field = "location.longitude"

	FieldBedrooms    Field = "composition.bedroomCount"
	FieldLivingRooms Field = "composition.livingRoomCount"
	FieldBathrooms   Field = "composition.bathroomCount"
	FieldKitchens    Field = "composition.kitchenCount"
	FieldGuestToilet Field = "composition.hasGuestToilet"

	FieldInteriorFeatures Field = "interiorFeatures"
	FieldExteriorFeatures Field = "exteriorFeatures"

	FieldTransactionType Field = "transaction.transactionType"
	FieldPrice           Field = "transaction.price"
	FieldRentPeriod      Field = "transaction.rentPeriod"
	FieldCurrency        Field = "transaction.currency"
	FieldNegotiable      Field = "transaction.isNegotiable"
	FieldDeposit         Field = "transaction.deposit"
	FieldAdvance         Field = "transaction.advance"

	FieldConstructionYear      Field = "building.constructionYear"
	FieldConstructionCondition Field = "building.constructionCondition"
	FieldConstructionType      Field = "building.constructionType"

	FieldMedia Field = "media"

	FieldVisibilityLevel Field = "visibility.level"
	FieldFeatured        Field = "visibility.isFeatured"
)

var compositionFields = []Field{FieldBedrooms, FieldLivingRooms, FieldBathrooms, FieldKitchens, FieldGuestToilet}

var rentalFields = []Field{FieldRentPeriod, FieldDeposit, FieldAdvance}

// Section is the group a field belongs to: the part before the dot, or
// "identity" for the top level scalars.
func (f Field) Section() string {
	if i := strings.IndexByte(string(f), '.'); i > 0 {
		return string(f)[:i]
	}
	switch f {
	case FieldInteriorFeatures, FieldExteriorFeatures:
		return "features"
	case FieldMedia:
		return "media"
	default:
		return "identity"
	}
}

type accessor struct {
	get func(*Draft) any
	set func(*Draft, any) error
}

var accessors = map[Field]accessor{
	FieldTitle:        stringField(func(d *Draft) *string { return &d.Identity.Title }),
	FieldDescription:  stringField(func(d *Draft) *string { return &d.Identity.Description }),
	FieldStatus:       stringField(func(d *Draft) *string { return &d.Identity.Status }),
	FieldPropertyType: stringField(func(d *Draft) *string { return &d.Identity.PropertyType }),
	FieldSurface:      floatField(func(d *Draft) *float64 { return &d.Identity.Surface }),

	FieldContactName:  stringField(func(d *Draft) *string { return &d.Contact.Name }),
	FieldContactPhone: stringField(func(d *Draft) *string { return &d.Contact.Phone }),
	FieldContactEmail: stringField(func(d *Draft) *string { return &d.Contact.Email }),

	FieldCity:      stringField(func(d *Draft) *string { return &d.Location.City }),
	FieldDistrict:  stringField(func(d *Draft) *string { return &d.Location.District }),
	FieldAddress:   stringField(func(d *Draft) *string { return &d.Location.Address }),
	FieldLatitude:  optionalFloatField(func(d *Draft) **float64 { return &d.Location.Latitude }),
	FieldLongitude: optionalFloatField(func(d *Draft) **float64 { return &d.Location.Longitude }),

	FieldBedrooms:    intField(func(d *Draft) *int { return &d.Composition.BedroomCount }),
	FieldLivingRooms: intField(func(d *Draft) *int { return &d.Composition.LivingRoomCount }),
	FieldBathrooms:   intField(func(d *Draft) *int { return &d.Composition.BathroomCount }),
	FieldKitchens:    intField(func(d *Draft) *int { return &d.Composition.KitchenCount }),
	FieldGuestToilet: boolField(func(d *Draft) *bool { return &d.Composition.HasGuestToilet }),

	FieldInteriorFeatures: stringsField(func(d *Draft) *[]string { return &d.InteriorFeatures }),
	FieldExteriorFeatures: stringsField(func(d *Draft) *[]string { return &d.ExteriorFeatures }),

	FieldTransactionType: stringField(func(d *Draft) *string { return &d.Transaction.TransactionType }),
	FieldPrice:           int64Field(func(d *Draft) *int64 { return &d.Transaction.Price }),
	FieldRentPeriod:      stringField(func(d *Draft) *string { return &d.Transaction.RentPeriod }),
	FieldCurrency:        stringField(func(d *Draft) *string { return &d.Transaction.Currency }),
	FieldNegotiable:      boolField(func(d *Draft) *bool { return &d.Transaction.IsNegotiable }),
	FieldDeposit:         optionalInt64Field(func(d *Draft) **int64 { return &d.Transaction.Deposit }),
	FieldAdvance:         optionalInt64Field(func(d *Draft) **int64 { return &d.Transaction.Advance }),

	FieldConstructionYear:      intField(func(d *Draft) *int { return &d.Building.Year }),
	FieldConstructionCondition: stringField(func(d *Draft) *string { return &d.Building.Condition }),
	FieldConstructionType:      stringField(func(d *Draft) *string { return &d.Building.Type }),

	FieldMedia: mediaField(func(d *Draft) *[]model.MediaFile { return &d.Media }),

	FieldVisibilityLevel: stringField(func(d *Draft) *string { return &d.Visibility.Level }),
	FieldFeatured:        boolField(func(d *Draft) *bool { return &d.Visibility.IsFeatured }),
}

// Fields lists every control in display order.
func Fields() []Field {
	return []Field{
		FieldTitle, FieldDescription, FieldStatus, FieldPropertyType, FieldSurface,
		FieldContactName, FieldContactPhone, FieldContactEmail,
		FieldCity, FieldDistrict, FieldAddress, FieldLatitude, FieldLongitude,
		FieldBedrooms, FieldLivingRooms, FieldBathrooms, FieldKitchens, FieldGuestToilet,
		FieldInteriorFeatures, FieldExteriorFeatures,
		FieldTransactionType, FieldPrice, FieldRentPeriod, FieldCurrency, FieldNegotiable, FieldDeposit, FieldAdvance,
		FieldConstructionYear, FieldConstructionCondition, FieldConstructionType,
		FieldMedia,
		FieldVisibilityLevel, FieldFeatured,
	}
}

// Value reads field from d.
func (d Draft) Value(field Field) (any, bool) {
	acc, ok := accessors[field]
	if !ok {
		return nil, false
	}
	return acc.get(&d), true
}

func typeError(want string, got any) error {
	return fmt.Errorf("%w: expects %s, got %T", model.ErrInvalidInput, want, got)
}

func stringField(ptr func(*Draft) *string) accessor {
	return accessor{
		get: func(d *Draft) any { return *ptr(d) },
		set: func(d *Draft, v any) error {
			s, ok := v.(string)
			if !ok {
				return typeError("string", v)
			}
			*ptr(d) = s
			return nil
		},
	}
}

func intField(ptr func(*Draft) *int) accessor {
	return accessor{
		get: func(d *Draft) any { return *ptr(d) },
		set: func(d *Draft, v any) error {
			n, ok := v.(int)
			if !ok {
				return typeError("int", v)
			}
			*ptr(d) = n
			return nil
		},
	}
}

func int64Field(ptr func(*Draft) *int64) accessor {
	return accessor{
		get: func(d *Draft) any { return *ptr(d) },
		set: func(d *Draft, v any) error {
			switch n := v.(type) {
			case int64:
				*ptr(d) = n
			case int:
				*ptr(d) = int64(n)
			default:
				return typeError("int64", v)
			}
			return nil
		},
	}
}

// optionalInt64Field accepts nil to clear the value.
func optionalInt64Field(ptr func(*Draft) **int64) accessor {
	return accessor{
		get: func(d *Draft) any { return *ptr(d) },
		set: func(d *Draft, v any) error {
			switch n := v.(type) {
			case nil:
				*ptr(d) = nil
			case *int64:
				if n == nil {
					*ptr(d) = nil
					return nil
				}
				c := *n
				*ptr(d) = &c
			case int64:
				*ptr(d) = &n
			case int:
				c := int64(n)
				*ptr(d) = &c
			default:
				return typeError("int64 or nil", v)
			}
			return nil
		},
	}
}

func floatField(ptr func(*Draft) *float64) accessor {
	return accessor{
		get: func(d *Draft) any { return *ptr(d) },
		set: func(d *Draft, v any) error {
			switch n := v.(type) {
			case float64:
				*ptr(d) = n
			case int:
				*ptr(d) = float64(n)
			default:
				return typeError("float64", v)
			}
			return nil
		},
	}
}

func optionalFloatField(ptr func(*Draft) **float64) accessor {
	return accessor{
		get: func(d *Draft) any { return *ptr(d) },
		set: func(d *Draft, v any) error {
			switch n := v.(type) {
			case nil:
				*ptr(d) = nil
			case *float64:
				if n == nil {
					*ptr(d) = nil
					return nil
				}
				c := *n
				*ptr(d) = &c
			case float64:
				*ptr(d) = &n
			default:
				return typeError("float64 or nil", v)
			}
			return nil
		},
	}
}

func boolField(ptr func(*Draft) *bool) accessor {
	return accessor{
		get: func(d *Draft) any { return *ptr(d) },
		set: func(d *Draft, v any) error {
			b, ok := v.(bool)
			if !ok {
				return typeError("bool", v)
			}
			*ptr(d) = b
			return nil
		},
	}
}

func stringsField(ptr func(*Draft) *[]string) accessor {
	return accessor{
		get: func(d *Draft) any { return append([]string(nil), *ptr(d)...) },
		set: func(d *Draft, v any) error {
			list, ok := v.([]string)
			if !ok {
				return typeError("[]string", v)
			}
			*ptr(d) = uniqueStrings(list)
			return nil
		},
	}
}

// uniqueStrings trims entries and drops blanks and case-insensitive repeats,
// keeping the first spelling seen.
func uniqueStrings(list []string) []string {
	out := make([]string, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, item := range list {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

func mediaField(ptr func(*Draft) *[]model.MediaFile) accessor {
	return accessor{
		get: func(d *Draft) any { return append([]model.MediaFile(nil), *ptr(d)...) },
		set: func(d *Draft, v any) error {
			files, ok := v.([]model.MediaFile)
			if !ok {
				return typeError("[]model.MediaFile", v)
			}
			*ptr(d) = append([]model.MediaFile(nil), files...)
			return nil
		},
	}
}
