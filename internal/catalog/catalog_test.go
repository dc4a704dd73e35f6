package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSize(t *testing.T) {
	tests := []struct {
		selector string
		want     Size
	}{
		{"2", Size{Code: "2", Name: "Medium", CPU: 4, MemoryGB: 8, DiskGB: 100}},
		{"Medium", Size{Code: "2", Name: "Medium", CPU: 4, MemoryGB: 8, DiskGB: 100}},
		{"medium", Size{Code: "2", Name: "Medium", CPU: 4, MemoryGB: 8, DiskGB: 100}},
		{"  LARGE ", Size{Code: "3", Name: "Large", CPU: 8, MemoryGB: 16, DiskGB: 200}},
		{"Small", Size{Code: "1", Name: "Small", CPU: 2, MemoryGB: 4, DiskGB: 50}},
		{"xlarge", Size{Code: "4", Name: "XLarge", CPU: 16, MemoryGB: 32, DiskGB: 500}},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			got, err := ResolveSize(tt.selector)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveSize_NotFound(t *testing.T) {
	for _, sel := range []string{"", "Huge", "5", "Med"} {
		_, err := ResolveSize(sel)
		assert.ErrorIs(t, err, ErrNotFound, "selector %q", sel)
	}
}

func TestResolveTemplate(t *testing.T) {
	tmpl, err := ResolveTemplate("1")
	require.NoError(t, err)
	assert.Equal(t, "template-splunk-enterprise", tmpl.Template)
	assert.Equal(t, "Splunk", tmpl.Name)

	tmpl, err = ResolveTemplate(" 2 ")
	require.NoError(t, err)
	assert.Equal(t, "template-cribl-stream", tmpl.Template)

	_, err = ResolveTemplate("7")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = ResolveTemplate("B")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveOSType(t *testing.T) {
	os, err := ResolveOSType(DefaultOSType)
	require.NoError(t, err)
	assert.Equal(t, "rhel9_64Guest", os.GuestID)

	os, err = ResolveOSType("3")
	require.NoError(t, err)
	assert.Equal(t, "windows2019srv_64Guest", os.GuestID)

	_, err = ResolveOSType("0")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDefaultsResolve(t *testing.T) {
	_, err := ResolveSize(DefaultTemplateSize)
	assert.NoError(t, err)
	_, err = ResolveSize(DefaultStandardSize)
	assert.NoError(t, err)
}

func TestListingsAreCopies(t *testing.T) {
	list := Templates()
	require.Len(t, list, 6)
	list[0].Template = "tampered"

	tmpl, err := ResolveTemplate("1")
	require.NoError(t, err)
	assert.Equal(t, "template-splunk-enterprise", tmpl.Template)

	assert.Len(t, Sizes(), 4)
	assert.Len(t, OSTypes(), 5)
}

func TestSelectorCodesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range Sizes() {
		assert.False(t, seen[Normalize(s.Code)])
		assert.False(t, seen[Normalize(s.Name)])
		seen[Normalize(s.Code)] = true
		seen[Normalize(s.Name)] = true
	}
}
