package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RequiredFields marks which built-in booking form fields a customer must fill
type RequiredFields struct {
	Name    bool `json:"name"`
	Email   bool `json:"email"`
	Phone   bool `json:"phone"`
	Message bool `json:"message"`
}

// BookingForm is the business-defined form shown with a booking
type BookingForm struct {
	RequiredFields RequiredFields `json:"requiredFields"`
	CustomFields   CustomFields   `json:"customFields"`
}

// DefaultBookingForm requires name and email and has no custom fields
func DefaultBookingForm() BookingForm {
	return BookingForm{
		RequiredFields: RequiredFields{Name: true, Email: true},
		CustomFields:   CustomFields{},
	}
}

// CustomFieldType is the wire tag of a custom field variant
type CustomFieldType string

const (
	FieldTypeText     CustomFieldType = "text"
	FieldTypeSelect   CustomFieldType = "select"
	FieldTypeCheckbox CustomFieldType = "checkbox"
)

// CustomField is one of TextField, SelectField or CheckboxField.
// Only SelectField carries options.
type CustomField interface {
	Base() FieldBase
	Type() CustomFieldType
	// ValidateAnswer checks a non-empty answer against the variant
	ValidateAnswer(answer string) error
}

// FieldBase holds the attributes shared by every variant
type FieldBase struct {
	ID       string
	Label    string
	Required bool
}

func (b FieldBase) Base() FieldBase { return b }

// TextField accepts free text
type TextField struct {
	FieldBase
}

func (TextField) Type() CustomFieldType { return FieldTypeText }

func (f TextField) ValidateAnswer(answer string) error {
	if len(answer) > MaxFieldAnswerLength {
		return fmt.Errorf("%w: %s is longer than %d characters", ErrInvalidFieldAnswer, f.ID, MaxFieldAnswerLength)
	}
	return nil
}

// SelectField accepts one of a fixed list of options
type SelectField struct {
	FieldBase
	Options []string
}

func (SelectField) Type() CustomFieldType { return FieldTypeSelect }

func (f SelectField) ValidateAnswer(answer string) error {
	for _, opt := range f.Options {
		if opt == answer {
			return nil
		}
	}
	return fmt.Errorf("%w: %s must be one of %s", ErrInvalidFieldAnswer, f.ID, strings.Join(f.Options, ", "))
}

// CheckboxField accepts "true" or "false"
type CheckboxField struct {
	FieldBase
}

func (CheckboxField) Type() CustomFieldType { return FieldTypeCheckbox }

func (f CheckboxField) ValidateAnswer(answer string) error {
	if answer != "true" && answer != "false" {
		return fmt.Errorf("%w: %s must be true or false", ErrInvalidFieldAnswer, f.ID)
	}
	return nil
}

// CustomFields is the ordered list of custom fields with a tagged JSON encoding:
// {"id","label","type","required","options"}
type CustomFields []CustomField

type customFieldJSON struct {
	ID       string          `json:"id"`
	Label    string          `json:"label"`
	Type     CustomFieldType `json:"type"`
	Required bool            `json:"required"`
	Options  []string        `json:"options,omitempty"`
}

func (fs CustomFields) MarshalJSON() ([]byte, error) {
	out := make([]customFieldJSON, 0, len(fs))
	for _, f := range fs {
		base := f.Base()
		item := customFieldJSON{ID: base.ID, Label: base.Label, Type: f.Type(), Required: base.Required}
		if sel, ok := f.(SelectField); ok {
			item.Options = sel.Options
		}
		out = append(out, item)
	}
	return json.Marshal(out)
}

func (fs *CustomFields) UnmarshalJSON(data []byte) error {
	var raw []customFieldJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCustomField, err)
	}

	fields := make(CustomFields, 0, len(raw))
	for i, item := range raw {
		f, err := item.toField()
		if err != nil {
			return fmt.Errorf("customFields[%d]: %w", i, err)
		}
		fields = append(fields, f)
	}

	if err := fields.Validate(); err != nil {
		return err
	}
	*fs = fields
	return nil
}

func (c customFieldJSON) toField() (CustomField, error) {
	base := FieldBase{ID: strings.TrimSpace(c.ID), Label: strings.TrimSpace(c.Label), Required: c.Required}

	switch c.Type {
	case FieldTypeText:
		if len(c.Options) > 0 {
			return nil, fmt.Errorf("%w: options are only allowed on select fields", ErrInvalidCustomField)
		}
		return TextField{FieldBase: base}, nil
	case FieldTypeCheckbox:
		if len(c.Options) > 0 {
			return nil, fmt.Errorf("%w: options are only allowed on select fields", ErrInvalidCustomField)
		}
		return CheckboxField{FieldBase: base}, nil
	case FieldTypeSelect:
		return SelectField{FieldBase: base, Options: c.Options}, nil
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidCustomField, c.Type)
	}
}

// Validate checks ids, labels and select options
func (fs CustomFields) Validate() error {
	if len(fs) > MaxCustomFields {
		return fmt.Errorf("%w: at most %d custom fields are allowed", ErrInvalidCustomField, MaxCustomFields)
	}

	seen := make(map[string]struct{}, len(fs))
	for _, f := range fs {
		base := f.Base()
		if base.ID == "" || base.Label == "" {
			return fmt.Errorf("%w: id and label are required", ErrInvalidCustomField)
		}
		if _, dup := seen[base.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidCustomField, base.ID)
		}
		seen[base.ID] = struct{}{}

		if sel, ok := f.(SelectField); ok {
			if len(sel.Options) == 0 {
				return fmt.Errorf("%w: select field %q has no options", ErrInvalidCustomField, base.ID)
			}
			for _, opt := range sel.Options {
				if strings.TrimSpace(opt) == "" {
					return fmt.Errorf("%w: select field %q has an empty option", ErrInvalidCustomField, base.ID)
				}
			}
		}
	}
	return nil
}

// Submission is what a customer sends with the booking form
type Submission struct {
	Name    string
	Email   string
	Phone   string
	Message string
	Answers map[string]string
}

// ValidateSubmission checks required built-in fields and custom field answers
// and returns the answers as validated: trimmed, with blank ones dropped.
// Answers for unknown field ids are rejected.
func (f BookingForm) ValidateSubmission(s Submission) (map[string]string, error) {
	required := []struct {
		name  string
		on    bool
		value string
	}{
		{"name", f.RequiredFields.Name, s.Name},
		{"email", f.RequiredFields.Email, s.Email},
		{"phone", f.RequiredFields.Phone, s.Phone},
		{"message", f.RequiredFields.Message, s.Message},
	}
	for _, r := range required {
		if r.on && strings.TrimSpace(r.value) == "" {
			return nil, fmt.Errorf("%w: %s", ErrRequiredField, r.name)
		}
	}

	answers := make(map[string]string, len(s.Answers))
	known := make(map[string]struct{}, len(f.CustomFields))
	for _, field := range f.CustomFields {
		base := field.Base()
		known[base.ID] = struct{}{}

		answer := strings.TrimSpace(s.Answers[base.ID])
		if answer == "" {
			if base.Required {
				return nil, fmt.Errorf("%w: %s", ErrRequiredField, base.ID)
			}
			continue
		}
		if err := field.ValidateAnswer(answer); err != nil {
			return nil, err
		}
		answers[base.ID] = answer
	}

	for id := range s.Answers {
		if _, ok := known[id]; !ok {
			return nil, fmt.Errorf("%w: unknown field %q", ErrInvalidFieldAnswer, id)
		}
	}
	return answers, nil
}
