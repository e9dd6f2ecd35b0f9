package listing

import "immo-client/internal/model"

// Change is one user edit.
type Change struct {
	Field Field
	Value any
}

type Assignment struct {
	Field Field
	Value any
}

// Patch is the outcome of a rule. The reducer applies it without running
// any other rule.
type Patch struct {
	// Set writes values unconditionally.
	Set []Assignment
	// Defaults only reach controls the user has not edited.
	Defaults    []Assignment
	Enable      []Field
	Disable     []Field
	Require     []Field
	Unrequire   []Field
	ClearErrors []Field
	// Districts replaces the district options when non-nil.
	Districts *[]Option
}

// Rule derives a patch from a change and the draft it was applied to.
type Rule func(change Change, draft Draft) Patch

var rules = map[Field]Rule{
	FieldCity:            cityRule,
	FieldTransactionType: transactionTypeRule,
	FieldPropertyType:    propertyTypeRule,
}

func cityRule(_ Change, draft Draft) Patch {
	options := Districts(draft.Location.City)
	return Patch{
		Set:       []Assignment{{Field: FieldDistrict, Value: ""}},
		Districts: &options,
	}
}

func transactionTypeRule(_ Change, draft Draft) Patch {
	if draft.Transaction.TransactionType == model.TransactionRental {
		return Patch{Require: rentalFields}
	}

	return Patch{Unrequire: rentalFields, ClearErrors: rentalFields}
}

func propertyTypeRule(_ Change, draft Draft) Patch {
	propertyType := draft.Identity.PropertyType
	if isStudio(propertyType) {
		return Patch{
			Set: []Assignment{
				{Field: FieldBedrooms, Value: StudioTemplate.BedroomCount},
				{Field: FieldLivingRooms, Value: StudioTemplate.LivingRoomCount},
				{Field: FieldBathrooms, Value: StudioTemplate.BathroomCount},
				{Field: FieldKitchens, Value: StudioTemplate.KitchenCount},
				{Field: FieldGuestToilet, Value: StudioTemplate.HasGuestToilet},
			},
			Disable: compositionFields,
		}
	}

	defaults, ok := DefaultsFor(propertyType)
	if !ok {
		return Patch{}
	}

	return Patch{
		Enable: compositionFields,
		Defaults: []Assignment{
			{Field: FieldBedrooms, Value: defaults.BedroomCount},
			{Field: FieldLivingRooms, Value: defaults.LivingRoomCount},
		},
	}
}

// contactPrefill fills name and email from the signed-in user.
func contactPrefill(user model.UserProfile) Patch {
	var set []Assignment
	if name := user.DisplayName(); name != "" {
		set = append(set, Assignment{Field: FieldContactName, Value: name})
	}
	if user.Email != "" {
		set = append(set, Assignment{Field: FieldContactEmail, Value: user.Email})
	}

	return Patch{Set: set}
}
