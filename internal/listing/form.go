package listing

import "fmt"

// Control is the view state of one field.
type Control struct {
	Touched  bool
	Dirty    bool
	Disabled bool
	Required bool
	Errors   []string
}

// Form holds the draft and the state of every control. It is not safe for
// concurrent use; Composer serializes access.
type Form struct {
	draft     Draft
	controls  map[Field]*Control
	districts []Option
}

func NewForm() *Form {
	f := &Form{
		draft:     NewDraft(),
		controls:  make(map[Field]*Control, len(accessors)),
		districts: []Option{},
	}
	for field := range accessors {
		f.controls[field] = &Control{}
	}

	return f
}

// edit records a user edit: value written, control dirty, then the rule
// of the field, if any, applied once.
func (f *Form) edit(field Field, value any, limits Limits) error {
	acc, ok := accessors[field]
	if !ok {
		return fmt.Errorf("unknown field %q", field)
	}

	ctrl := f.controls[field]
	if ctrl.Disabled {
		return fmt.Errorf("%s is disabled", field)
	}

	if err := acc.set(&f.draft, value); err != nil {
		return fmt.Errorf("set %s: %w", field, err)
	}
	ctrl.Dirty = true
	ctrl.Errors = validateField(field, f.draft, ctrl, limits)

	if rule, ok := rules[field]; ok {
		f.apply(rule(Change{Field: field, Value: value}, f.draft.clone()))
	}

	return nil
}

// apply is the single reducer of the form. Values it writes are neither
// validated nor fed back into the rules.
func (f *Form) apply(p Patch) {
	for _, a := range p.Set {
		_ = accessors[a.Field].set(&f.draft, a.Value)
	}

	for _, a := range p.Defaults {
		if f.controls[a.Field].Dirty {
			continue
		}
		_ = accessors[a.Field].set(&f.draft, a.Value)
	}

	for _, field := range p.Disable {
		ctrl := f.controls[field]
		ctrl.Disabled = true
		ctrl.Errors = nil
	}
	for _, field := range p.Enable {
		f.controls[field].Disabled = false
	}

	for _, field := range p.Require {
		f.controls[field].Required = true
	}
	for _, field := range p.Unrequire {
		f.controls[field].Required = false
	}
	for _, field := range p.ClearErrors {
		f.controls[field].Errors = nil
	}

	if p.Districts != nil {
		f.districts = append([]Option{}, (*p.Districts)...)
	}
}

func (f *Form) touch(field Field, limits Limits) {
	ctrl, ok := f.controls[field]
	if !ok {
		return
	}
	ctrl.Touched = true
	ctrl.Errors = validateField(field, f.draft, ctrl, limits)
}

// validate refreshes the errors of every control and reports whether the
// form is valid.
func (f *Form) validate(limits Limits) bool {
	valid := true
	for field, ctrl := range f.controls {
		ctrl.Errors = validateField(field, f.draft, ctrl, limits)
		if len(ctrl.Errors) > 0 {
			valid = false
		}
	}
	return valid
}

func (f *Form) markAllTouched() {
	for _, ctrl := range f.controls {
		ctrl.Touched = true
	}
}

func (f *Form) sectionPristine(section string) bool {
	for field, ctrl := range f.controls {
		if field.Section() == section && (ctrl.Dirty || ctrl.Touched) {
			return false
		}
	}
	return true
}

func (f *Form) errors() map[Field][]string {
	out := map[Field][]string{}
	for field, ctrl := range f.controls {
		if len(ctrl.Errors) > 0 {
			out[field] = append([]string(nil), ctrl.Errors...)
		}
	}
	return out
}
