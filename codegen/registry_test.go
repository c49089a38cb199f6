package codegen

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestRegistryScalars(t *testing.T) {
	tests := []struct {
		name      string
		size      int
		directive string
	}{
		{"int", 8, "dq"},
		{"s64", 8, "dq"},
		{"u64", 8, "dq"},
		{"s32", 4, "dd"},
		{"u32", 4, "dd"},
		{"s16", 2, "dw"},
		{"u16", 2, "dw"},
		{"s8", 1, "db"},
		{"u8", 1, "db"},
	}

	r := NewRegistry()
	for _, tt := range tests {
		info, ok := r.Lookup(tt.name)
		be.True(t, ok)
		be.Equal(t, info.Size, tt.size)
		be.Equal(t, info.Directive, tt.directive)
		be.True(t, info.IsScalar())
	}
}

func TestRegistryStructs(t *testing.T) {
	r := NewRegistry()
	be.Equal(t, r.Size("Vec"), DefaultSize)

	be.Err(t, r.RegisterStruct("Vec", 12), nil)
	info, ok := r.Lookup("Vec")
	be.True(t, ok)
	be.Equal(t, info.Size, 12)
	be.True(t, !info.IsScalar())
	be.Equal(t, r.Size("Vec"), 12)

	be.Err(t, r.RegisterStruct("Vec", 4), "type Vec is already defined")
	be.Err(t, r.RegisterStruct("u8", 4), "type u8 is already defined")
	be.Equal(t, r.Size("Vec"), 12)
}
