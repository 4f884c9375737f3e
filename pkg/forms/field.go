package forms

// FieldType identifies the input type of a form field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldTel      FieldType = "tel"
	FieldTextarea FieldType = "textarea"
	FieldHidden   FieldType = "hidden"
)

// ParseFieldType maps a config value to a FieldType. Unknown values are text.
func ParseFieldType(s string) FieldType {
	switch t := FieldType(s); t {
	case FieldEmail, FieldTel, FieldTextarea, FieldHidden:
		return t
	default:
		return FieldText
	}
}

// Field describes one input of a form.
type Field struct {
	// Name is the key the value is submitted under.
	Name string

	// Type is the input type.
	Type FieldType

	// Label is the display label.
	Label string

	// Placeholder is the placeholder text.
	Placeholder string

	// Required rejects empty values.
	Required bool

	// Validators run on non-empty values, in order.
	Validators []Validator
}

// FieldOption is a function that configures a field.
type FieldOption func(*Field)

// NewField creates a new field. Email and tel fields get a format validator.
func NewField(name string, fieldType FieldType, label string, opts ...FieldOption) Field {
	field := Field{
		Name:  name,
		Type:  fieldType,
		Label: label,
	}

	switch fieldType {
	case FieldEmail:
		field.Validators = append(field.Validators, EmailValidator{})
	case FieldTel:
		field.Validators = append(field.Validators, PhoneValidator{})
	}

	for _, opt := range opts {
		opt(&field)
	}

	return field
}

// WithRequired marks the field as required.
func WithRequired() FieldOption {
	return func(f *Field) {
		f.Required = true
	}
}

// WithPlaceholder sets the placeholder text.
func WithPlaceholder(placeholder string) FieldOption {
	return func(f *Field) {
		f.Placeholder = placeholder
	}
}

// WithValidator adds a validator.
func WithValidator(v Validator) FieldOption {
	return func(f *Field) {
		f.Validators = append(f.Validators, v)
	}
}

// WithMaxLength adds a maximum length validator.
func WithMaxLength(n int) FieldOption {
	return func(f *Field) {
		f.Validators = append(f.Validators, MaxLengthValidator{Max: n})
	}
}
