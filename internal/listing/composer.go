package listing

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"immo-client/internal/event"
	"immo-client/internal/model"
	"immo-client/internal/notify"
	"immo-client/pkg/apierror"
)

// Messages surfaced by Submit through LastError.
const (
	FallbackSubmit = "The listing could not be published, please try again"
	MsgInvalid     = "Please correct the highlighted fields"
)

var submitPrompt = notify.Prompt{
	Title:   "Publish listing",
	Message: "Do you want to publish this listing?",
}

// Submitter sends a listing to the API.
type Submitter interface {
	AddAnnonce(ctx context.Context, req model.AnnonceRequest) (model.AddAnnonceResponse, error)
}

// Composer owns one listing form: user edits go through Set, the
// dependency rules run once per edit, and Submit validates, confirms and
// sends the draft.
type Composer struct {
	mu     sync.Mutex
	form   *Form
	limits Limits
	client Submitter
	bus    event.Bus
	logger *slog.Logger

	submitting bool
	lastError  string
}

type ComposerOption func(*Composer)

// WithBus publishes listing.submitted after a successful submission.
func WithBus(bus event.Bus) ComposerOption {
	return func(c *Composer) {
		c.bus = bus
	}
}

func WithLogger(logger *slog.Logger) ComposerOption {
	return func(c *Composer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewComposer(client Submitter, limits Limits, opts ...ComposerOption) *Composer {
	c := &Composer{
		form:   NewForm(),
		limits: limits,
		client: client,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Set records a user edit of field.
func (c *Composer) Set(field Field, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form.edit(field, value, c.limits)
}

// Touch marks field as visited and validates it.
func (c *Composer) Touch(field Field) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.touch(field, c.limits)
}

func (c *Composer) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form.draft.clone()
}

func (c *Composer) Control(field Field) (Control, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctrl, ok := c.form.controls[field]
	if !ok {
		return Control{}, false
	}

	out := *ctrl
	out.Errors = append([]string(nil), ctrl.Errors...)
	return out, true
}

// DistrictOptions are the districts of the selected city.
func (c *Composer) DistrictOptions() []Option {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Option{}, c.form.districts...)
}

// PrefillContact copies the user's name and email into the contact section
// as long as the user has not edited that section. It reports whether the
// draft changed.
func (c *Composer) PrefillContact(user model.UserProfile) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.form.sectionPristine(FieldContactName.Section()) {
		return false
	}

	patch := contactPrefill(user)
	if len(patch.Set) == 0 {
		return false
	}

	c.form.apply(patch)
	return true
}

// WatchSession prefills the contact from every user change until ctx is
// done or events is closed.
func (c *Composer) WatchSession(ctx context.Context, events <-chan event.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if e.Type != event.TypeUserChanged {
				continue
			}
			if user, ok := e.Payload.(model.UserProfile); ok {
				c.PrefillContact(user)
			}
		}
	}
}

// Validate refreshes every control's errors.
func (c *Composer) Validate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form.validate(c.limits)
}

// Errors returns the current messages per field.
func (c *Composer) Errors() map[Field][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form.errors()
}

func (c *Composer) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// LastError is the message of the last failed submission, or "".
func (c *Composer) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// Submit validates the whole draft, asks confirm, then sends it. An
// invalid draft marks every control touched and never reaches the API. The
// draft is kept whatever the outcome.
func (c *Composer) Submit(ctx context.Context, confirm notify.Confirmer) (model.Annonce, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return model.Annonce{}, model.ErrSubmissionInFlight
	}

	if !c.form.validate(c.limits) {
		c.form.markAllTouched()
		invalid := len(c.form.errors())
		c.lastError = MsgInvalid
		c.mu.Unlock()
		return model.Annonce{}, fmt.Errorf("%w: %d fields", model.ErrInvalidDraft, invalid)
	}
	c.submitting = true
	c.lastError = ""
	c.mu.Unlock()

	ok, err := confirm.Confirm(ctx, submitPrompt)
	if err != nil || !ok {
		c.finish("")
		if err != nil {
			return model.Annonce{}, fmt.Errorf("confirm submission: %w", err)
		}
		return model.Annonce{}, model.ErrSubmissionCancelled
	}

	req := c.Draft().Request()
	resp, err := c.client.AddAnnonce(ctx, req)
	if err != nil {
		message := apierror.MessageOr(err, FallbackSubmit)
		c.finish(message)
		c.logger.Warn("listing submission failed", "title", req.Title, "error", err)
		return model.Annonce{}, err
	}

	c.finish("")
	c.logger.Info("listing published", "id", resp.Data.ID, "media", len(req.Medias))
	if c.bus != nil {
		c.bus.Publish(event.New(event.TypeListingSubmitted, resp.Data))
	}

	return resp.Data, nil
}

func (c *Composer) finish(message string) {
	c.mu.Lock()
	c.submitting = false
	c.lastError = message
	c.mu.Unlock()
}
