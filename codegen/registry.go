package codegen

import "fmt"

// DefaultSize is the slot size of a type the registry does not know.
const DefaultSize = 8

// TypeInfo describes one named type. Directive is the storage directive of
// a scalar type and empty for structs.
type TypeInfo struct {
	Name      string
	Size      int
	Directive string
}

func (t TypeInfo) IsScalar() bool { return t.Directive != "" }

// Registry maps type names to sizes. It starts with the scalar types and
// learns structs as their layouts are generated.
type Registry struct {
	types []TypeInfo
}

func NewRegistry() *Registry {
	return &Registry{types: []TypeInfo{
		{"int", 8, "dq"},
		{"s64", 8, "dq"},
		{"u64", 8, "dq"},
		{"s32", 4, "dd"},
		{"u32", 4, "dd"},
		{"s16", 2, "dw"},
		{"u16", 2, "dw"},
		{"s8", 1, "db"},
		{"u8", 1, "db"},
	}}
}

func (r *Registry) Lookup(name string) (TypeInfo, bool) {
	for _, t := range r.types {
		if t.Name == name {
			return t, true
		}
	}
	return TypeInfo{}, false
}

// Size returns the byte size of name, DefaultSize if it is unknown.
func (r *Registry) Size(name string) int {
	if t, ok := r.Lookup(name); ok {
		return t.Size
	}
	return DefaultSize
}

// RegisterStruct records a struct layout. Names must be unique across
// scalars and structs.
func (r *Registry) RegisterStruct(name string, size int) error {
	if _, ok := r.Lookup(name); ok {
		return fmt.Errorf("type %s is already defined", name)
	}
	r.types = append(r.types, TypeInfo{Name: name, Size: size})
	return nil
}
