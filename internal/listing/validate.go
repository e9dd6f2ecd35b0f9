package listing

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"immo-client/internal/config"
	"immo-client/internal/model"
	"immo-client/internal/util"
)

const minConstructionYear = 1900

// Limits are the configurable bounds of a listing.
type Limits struct {
	MinPrice      int64
	MinFiles      int
	MaxFiles      int
	MaxFileSize   int64
	AcceptedTypes []string
	// Now defaults to time.Now; it bounds the construction year.
	Now func() time.Time
}

func DefaultLimits() Limits {
	return Limits{
		MinPrice:      1000,
		MinFiles:      1,
		MaxFiles:      5,
		MaxFileSize:   5 << 20,
		AcceptedTypes: []string{"image/*", ".pdf", ".doc", ".docx"},
	}
}

func LimitsFromConfig(cfg *config.Config) Limits {
	return Limits{
		MinPrice:      cfg.ListingMinPrice,
		MinFiles:      cfg.MediaMinFiles,
		MaxFiles:      cfg.MediaMaxFiles,
		MaxFileSize:   cfg.MediaMaxSize,
		AcceptedTypes: append([]string(nil), cfg.MediaAcceptedTypes...),
	}
}

func (l Limits) currentYear() int {
	if l.Now != nil {
		return l.Now().Year()
	}
	return time.Now().Year()
}

const msgRequired = "This field is required"

// validateField returns the messages of field for the draft. Disabled
// controls are always valid.
func validateField(field Field, d Draft, ctrl *Control, limits Limits) []string {
	if ctrl != nil && ctrl.Disabled {
		return nil
	}

	required := ctrl != nil && ctrl.Required
	var errs []string
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	switch field {
	case FieldTitle:
		title := strings.TrimSpace(d.Identity.Title)
		if title == "" {
			add(msgRequired)
		} else if len([]rune(title)) < 5 {
			add("Title must be at least 5 characters")
		}
	case FieldDescription:
		if strings.TrimSpace(d.Identity.Description) == "" {
			add(msgRequired)
		}
	case FieldStatus:
		if strings.TrimSpace(d.Identity.Status) == "" {
			add(msgRequired)
		}
	case FieldPropertyType:
		if strings.TrimSpace(d.Identity.PropertyType) == "" {
			add(msgRequired)
		} else if _, ok := DefaultsFor(d.Identity.PropertyType); !ok {
			add("Unknown property type %q", d.Identity.PropertyType)
		}
	case FieldSurface:
		if d.Identity.Surface <= 0 {
			add("Surface must be greater than 0")
		}

	case FieldContactName:
		if strings.TrimSpace(d.Contact.Name) == "" {
			add(msgRequired)
		}
	case FieldContactPhone:
		if strings.TrimSpace(d.Contact.Phone) == "" {
			add(msgRequired)
		} else if !validPhone(d.Contact.Phone) {
			add("Invalid phone number")
		}
	case FieldContactEmail:
		if email := strings.TrimSpace(d.Contact.Email); email != "" && !model.IsEmail(email) {
			add("Invalid email address")
		}

	case FieldCity:
		if strings.TrimSpace(d.Location.City) == "" {
			add(msgRequired)
		}
	case FieldDistrict:
		switch {
		case strings.TrimSpace(d.Location.District) == "":
			add(msgRequired)
		case len(Districts(d.Location.City)) > 0 && !knownDistrict(d.Location.City, d.Location.District):
			add("Unknown district for %s", d.Location.City)
		}
	case FieldAddress:
		if strings.TrimSpace(d.Location.Address) == "" {
			add(msgRequired)
		}
	case FieldLatitude:
		if lat := d.Location.Latitude; lat != nil && (*lat < -90 || *lat > 90) {
			add("Latitude must be between -90 and 90")
		}
	case FieldLongitude:
		if lng := d.Location.Longitude; lng != nil && (*lng < -180 || *lng > 180) {
			add("Longitude must be between -180 and 180")
		}

	case FieldBedrooms:
		nonNegative(d.Composition.BedroomCount, add)
	case FieldLivingRooms:
		nonNegative(d.Composition.LivingRoomCount, add)
	case FieldBathrooms:
		nonNegative(d.Composition.BathroomCount, add)
	case FieldKitchens:
		nonNegative(d.Composition.KitchenCount, add)

	case FieldTransactionType:
		switch d.Transaction.TransactionType {
		case model.TransactionSale, model.TransactionRental:
		case "":
			add(msgRequired)
		default:
			add("Transaction type must be sale or rental")
		}
	case FieldPrice:
		if d.Transaction.Price < limits.MinPrice {
			add("Price must be at least %d", limits.MinPrice)
		}
	case FieldCurrency:
		if strings.TrimSpace(d.Transaction.Currency) == "" {
			add(msgRequired)
		}
	case FieldRentPeriod:
		if required && strings.TrimSpace(d.Transaction.RentPeriod) == "" {
			add(msgRequired)
		}
	case FieldDeposit:
		optionalAmount(d.Transaction.Deposit, required, add)
	case FieldAdvance:
		optionalAmount(d.Transaction.Advance, required, add)

	case FieldConstructionYear:
		if year := d.Building.Year; year != 0 && (year < minConstructionYear || year > limits.currentYear()) {
			add("Construction year must be between %d and %d", minConstructionYear, limits.currentYear())
		}

	case FieldMedia:
		errs = append(errs, validateMedia(d.Media, limits)...)

	case FieldVisibilityLevel:
		switch d.Visibility.Level {
		case VisibilityStandard, VisibilityPremium, VisibilityVIP:
		case "":
			add(msgRequired)
		default:
			add("Unknown visibility level %q", d.Visibility.Level)
		}
	}

	return errs
}

func nonNegative(n int, add func(string, ...any)) {
	if n < 0 {
		add("Must be 0 or more")
	}
}

func optionalAmount(v *int64, required bool, add func(string, ...any)) {
	if v == nil {
		if required {
			add(msgRequired)
		}
		return
	}
	if *v < 0 {
		add("Must be 0 or more")
	}
}

func validateMedia(files []model.MediaFile, limits Limits) []string {
	var errs []string
	if len(files) < limits.MinFiles {
		errs = append(errs, fmt.Sprintf("You must upload at least %d files", limits.MinFiles))
	}
	if limits.MaxFiles > 0 && len(files) > limits.MaxFiles {
		errs = append(errs, fmt.Sprintf("You can upload at most %d files", limits.MaxFiles))
	}

	for _, file := range files {
		if limits.MaxFileSize > 0 && file.Size() > limits.MaxFileSize {
			errs = append(errs, fmt.Sprintf("%s exceeds the maximum size of %d bytes", filepath.Base(file.Name), limits.MaxFileSize))
		}

		contentType := file.ContentType
		if contentType == "" {
			contentType = util.DetectMIME(file.Content)
		}
		if len(limits.AcceptedTypes) > 0 && !util.MatchesAccept(limits.AcceptedTypes, file.Name, contentType) {
			errs = append(errs, fmt.Sprintf("%s has a type that is not accepted", filepath.Base(file.Name)))
		}
	}

	return errs
}

func validPhone(raw string) bool {
	digits := 0
	for i, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 8 && digits <= 15
}
