package forms

import (
	"sort"
	"strings"
	"sync"
)

// Schema is the expected shape of one form, identified by its data-form-id.
type Schema struct {
	ID     string
	Fields []Field
}

// NewSchema creates a schema.
func NewSchema(id string, fields ...Field) Schema {
	return Schema{ID: id, Fields: fields}
}

// FieldErrors maps field names to validation messages.
type FieldErrors map[string][]string

// Validate checks data against the schema. Values for unknown fields are
// ignored here; Clean drops them.
func (s Schema) Validate(data map[string]string) FieldErrors {
	errs := FieldErrors{}

	for _, field := range s.Fields {
		value := data[field.Name]

		if strings.TrimSpace(value) == "" {
			if field.Required {
				errs[field.Name] = append(errs[field.Name], RequiredValidator{}.Message())
			}
			continue
		}

		for _, v := range field.Validators {
			if err := v.Validate(value); err != nil {
				errs[field.Name] = append(errs[field.Name], v.Message())
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Clean returns the trimmed values of the schema's fields only.
func (s Schema) Clean(data map[string]string) map[string]string {
	out := make(map[string]string, len(s.Fields))
	for _, field := range s.Fields {
		if v, ok := data[field.Name]; ok {
			out[field.Name] = strings.TrimSpace(v)
		}
	}
	return out
}

// Field returns the named field.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Registry holds the schemas of the forms rendered on the site.
type Registry struct {
	schemas map[string]Schema
	mu      sync.RWMutex
}

// NewRegistry creates a registry holding schemas.
func NewRegistry(schemas ...Schema) *Registry {
	r := &Registry{schemas: make(map[string]Schema)}
	for _, s := range schemas {
		r.Register(s)
	}
	return r
}

// Register adds or replaces a schema.
func (r *Registry) Register(s Schema) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[s.ID] = s
}

// Get returns the schema for a form id.
func (r *Registry) Get(id string) (Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[id]
	return s, ok
}

// IDs returns the registered form ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.schemas))
	for id := range r.schemas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
