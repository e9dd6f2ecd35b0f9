package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"immo-client/internal/app"
	"immo-client/internal/guard"
	"immo-client/internal/listing"
	"immo-client/internal/model"
	"immo-client/internal/notify"
	"immo-client/internal/widget"
	"immo-client/pkg/apierror"
)

// publisherRoles may open the listing form.
var publisherRoles = []string{"particulier", "entreprise"}

func guardRoute(path string, roles ...string) guard.Route {
	return guard.Route{Path: path, Roles: roles}
}

type listFlag []string

func (l *listFlag) String() string {
	return strings.Join(*l, ",")
}

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func widgetOptions(options []listing.Option) []widget.Option {
	out := make([]widget.Option, len(options))
	for i, option := range options {
		out[i] = widget.Option{Value: option.Value, Label: option.Label}
	}
	return out
}

// pickDistrict resolves an exact value, or a search term matching a
// single district label.
func pickDistrict(options []listing.Option, input string) (string, error) {
	sel := widget.NewSearchSelect(widgetOptions(options))
	if sel.Select(input) {
		return sel.Value(), nil
	}

	sel.Search(input)
	matches := sel.Filtered()
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no district matches %q", input)
	case 1:
		sel.Select(matches[0].Value)
		return sel.Value(), nil
	default:
		labels := make([]string, len(matches))
		for i, m := range matches {
			labels[i] = m.Label
		}
		return "", fmt.Errorf("%q is ambiguous: %s", input, strings.Join(labels, ", "))
	}
}

func pickFeatures(options []listing.Option, raw string) ([]string, error) {
	sel := widget.NewMultiSelect(widgetOptions(options), 0)
	for _, value := range splitList(raw) {
		if !sel.Select(value) {
			return nil, fmt.Errorf("unknown equipment %q", value)
		}
	}
	return sel.Value(), nil
}

func loadMedia(limits listing.Limits, paths []string) ([]model.MediaFile, error) {
	upload := widget.NewFileUpload(limits.AcceptedTypes, limits.MaxFileSize, limits.MaxFiles)
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read media: %w", err)
		}
		if upload.Add(model.MediaFile{Name: filepath.Base(path), Content: content}) == 0 {
			return nil, errors.New(upload.Error())
		}
	}
	if msg := upload.Error(); msg != "" {
		return nil, errors.New(msg)
	}
	return upload.Value(), nil
}

func runPublish(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("publish")
	var (
		title       = fs.String("title", "", "listing title")
		description = fs.String("description", "", "listing description")
		propType    = fs.String("type", "", "property type: "+strings.Join(listing.PropertyTypes(), ", "))
		surface     = fs.Float64("surface", 0, "surface in m²")
		contactName = fs.String("contact-name", "", "contact name (defaults to your profile)")
		phone       = fs.String("phone", "", "contact phone")
		email       = fs.String("contact-email", "", "contact email (defaults to your profile)")
		city        = fs.String("city", "", "city: "+strings.Join(listing.Cities(), ", "))
		district    = fs.String("district", "", "district value or part of its name")
		address     = fs.String("address", "", "street address")
		bedrooms    = fs.Int("bedrooms", 0, "bedroom count")
		livingRooms = fs.Int("living-rooms", 0, "living room count")
		bathrooms   = fs.Int("bathrooms", 0, "bathroom count")
		kitchens    = fs.Int("kitchens", 0, "kitchen count")
		guestToilet = fs.Bool("guest-toilet", false, "has a guest toilet")
		interior    = fs.String("interior", "", "comma separated interior equipment")
		exterior    = fs.String("exterior", "", "comma separated exterior equipment")
		transaction = fs.String("transaction", model.TransactionSale, "sale or rental")
		price       = fs.String("price", "", "price, e.g. \"1 500 000\"")
		rentPeriod  = fs.String("rent-period", "", "rental period: "+strings.Join(listing.RentPeriods, ", "))
		deposit     = fs.String("deposit", "", "rental deposit")
		advance     = fs.String("advance", "", "rental advance")
		negotiable  = fs.Bool("negotiable", false, "price is negotiable")
		year        = fs.Int("year", 0, "construction year")
		condition   = fs.String("condition", "", "construction condition")
		buildType   = fs.String("construction-type", "", "construction type")
		visibility  = fs.String("visibility", listing.VisibilityStandard, "standard, premium or vip")
		featured    = fs.Bool("featured", false, "feature the listing")
		yes         = fs.Bool("yes", false, "publish without asking for confirmation")
		media       listFlag
	)
	fs.Var(&media, "media", "file to attach (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	decision := a.Guards.RequireAuth(guardRoute("/annonces/new", publisherRoles...))
	if !decision.Allow {
		return fmt.Errorf("not allowed to publish, go to %s", decision.Target())
	}

	given := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { given[f.Name] = true })

	composer := a.NewComposer(ctx)
	currency := widget.NewCurrencyInput(widget.WithMin(0))
	amount := func(raw string) int64 {
		currency.Input(raw)
		return currency.Value()
	}
	optionalAmount := func(raw string) *int64 {
		v := amount(raw)
		return &v
	}

	// Order matters: the type and city rules reset dependent fields.
	edits := []struct {
		flag  string
		field listing.Field
		value func() (any, error)
	}{
		{"type", listing.FieldPropertyType, func() (any, error) { return *propType, nil }},
		{"city", listing.FieldCity, func() (any, error) { return *city, nil }},
		{"transaction", listing.FieldTransactionType, func() (any, error) { return *transaction, nil }},
		{"title", listing.FieldTitle, func() (any, error) { return *title, nil }},
		{"description", listing.FieldDescription, func() (any, error) { return *description, nil }},
		{"surface", listing.FieldSurface, func() (any, error) { return *surface, nil }},
		{"contact-name", listing.FieldContactName, func() (any, error) { return *contactName, nil }},
		{"phone", listing.FieldContactPhone, func() (any, error) { return *phone, nil }},
		{"contact-email", listing.FieldContactEmail, func() (any, error) { return *email, nil }},
		{"district", listing.FieldDistrict, func() (any, error) { return pickDistrict(composer.DistrictOptions(), *district) }},
		{"address", listing.FieldAddress, func() (any, error) { return *address, nil }},
		{"bedrooms", listing.FieldBedrooms, func() (any, error) { return *bedrooms, nil }},
		{"living-rooms", listing.FieldLivingRooms, func() (any, error) { return *livingRooms, nil }},
		{"bathrooms", listing.FieldBathrooms, func() (any, error) { return *bathrooms, nil }},
		{"kitchens", listing.FieldKitchens, func() (any, error) { return *kitchens, nil }},
		{"guest-toilet", listing.FieldGuestToilet, func() (any, error) { return *guestToilet, nil }},
		{"interior", listing.FieldInteriorFeatures, func() (any, error) { return pickFeatures(listing.InteriorFeatures(), *interior) }},
		{"exterior", listing.FieldExteriorFeatures, func() (any, error) { return pickFeatures(listing.ExteriorFeatures(), *exterior) }},
		{"price", listing.FieldPrice, func() (any, error) { return amount(*price), nil }},
		{"rent-period", listing.FieldRentPeriod, func() (any, error) { return *rentPeriod, nil }},
		{"deposit", listing.FieldDeposit, func() (any, error) { return optionalAmount(*deposit), nil }},
		{"advance", listing.FieldAdvance, func() (any, error) { return optionalAmount(*advance), nil }},
		{"negotiable", listing.FieldNegotiable, func() (any, error) { return *negotiable, nil }},
		{"year", listing.FieldConstructionYear, func() (any, error) { return *year, nil }},
		{"condition", listing.FieldConstructionCondition, func() (any, error) { return *condition, nil }},
		{"construction-type", listing.FieldConstructionType, func() (any, error) { return *buildType, nil }},
		{"media", listing.FieldMedia, func() (any, error) { return loadMedia(a.Limits, media) }},
		{"visibility", listing.FieldVisibilityLevel, func() (any, error) { return *visibility, nil }},
		{"featured", listing.FieldFeatured, func() (any, error) { return *featured, nil }},
	}

	for _, edit := range edits {
		if !given[edit.flag] {
			continue
		}
		value, err := edit.value()
		if err != nil {
			return fmt.Errorf("-%s: %w", edit.flag, err)
		}
		if err := composer.Set(edit.field, value); err != nil {
			return fmt.Errorf("-%s: %w", edit.flag, err)
		}
	}

	var confirm notify.Confirmer = notify.NewTerminalConfirmer(os.Stdin, out)
	if *yes {
		confirm = notify.AutoConfirm(true)
	}

	annonce, err := composer.Submit(ctx, confirm)
	switch {
	case errors.Is(err, model.ErrInvalidDraft):
		printErrors(out, composer.Errors())
		return errors.New(composer.LastError())
	case errors.Is(err, model.ErrSubmissionCancelled):
		fmt.Fprintln(out, "cancelled")
		return nil
	case err != nil:
		return errors.New(composer.LastError())
	}

	fmt.Fprintf(out, "published %s (%s)\n", annonce.Title, annonce.ID)
	return nil
}

func printErrors(out io.Writer, errs map[listing.Field][]string) {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, string(field))
	}
	sort.Strings(fields)

	for _, field := range fields {
		for _, msg := range errs[listing.Field(field)] {
			fmt.Fprintf(out, "  %s: %s\n", field, msg)
		}
	}
}

func runList(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("list")
	q := model.ListAnnoncesQuery{}
	fs.StringVar(&q.City, "city", "", "filter by city")
	fs.StringVar(&q.Type, "type", "", "filter by property type")
	fs.StringVar(&q.TransactionType, "transaction", "", "sale or rental")
	fs.IntVar(&q.Page, "page", 1, "page number")
	fs.IntVar(&q.Limit, "limit", 20, "page size")
	since := fs.String("since", "", "only listings published on or after this day (2006-01-02)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	picker := widget.NewDatePicker(time.Time{}, time.Now())
	if err := picker.Input(*since); err != nil {
		return err
	}

	resp, err := a.Client.ListAnnonces(ctx, q)
	if err != nil {
		return errors.New(apierror.MessageOr(err, "could not load listings"))
	}

	shown := 0
	for _, annonce := range resp.Data {
		if from := picker.Value(); !from.IsZero() && annonce.CreatedAt.Before(from) {
			continue
		}
		fmt.Fprintf(out, "%-36s  %-12s %-8s %15s %s  %s, %s\n",
			annonce.ID, annonce.Type, annonce.Transaction.TransactionType,
			widget.FormatThousands(annonce.Transaction.Price), annonce.Transaction.Currency,
			annonce.Localisation.District, annonce.Localisation.City)
		shown++
	}

	if resp.Meta != nil {
		fmt.Fprintf(out, "%d shown, page %d/%d, %d total\n", shown, resp.Meta.Page, resp.Meta.TotalPages, resp.Meta.Total)
	}
	return nil
}
