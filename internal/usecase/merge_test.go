package usecase

import (
	"testing"

	"github.com/setupscatalog/linkengine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_NamePriority(t *testing.T) {
	merged := Merge(
		domain.PartialProduct{Name: "Foo"},
		domain.PartialProduct{Name: "Bar"},
		domain.PartialProduct{Name: "Baz"},
		"",
	)
	assert.Equal(t, "Foo", merged.Name)

	merged = Merge(
		domain.PartialProduct{},
		domain.PartialProduct{Name: "Bar"},
		domain.PartialProduct{Name: "Baz"},
		"",
	)
	assert.Equal(t, "Bar", merged.Name)

	merged = Merge(domain.PartialProduct{}, domain.PartialProduct{Name: "  "}, domain.PartialProduct{Name: "Baz"}, "")
	assert.Equal(t, "Baz", merged.Name)
}

func TestMerge_ImagePriority(t *testing.T) {
	merged := Merge(
		domain.PartialProduct{},
		domain.PartialProduct{Image: "https://a.com/og.jpg"},
		domain.PartialProduct{Image: "https://a.com/tw.jpg"},
		"",
	)
	assert.Equal(t, "https://a.com/og.jpg", merged.Image)

	merged = Merge(domain.PartialProduct{}, domain.PartialProduct{}, domain.PartialProduct{Image: "https://a.com/tw.jpg"}, "")
	assert.Equal(t, "https://a.com/tw.jpg", merged.Image)
}

func TestMerge_PricePriority(t *testing.T) {
	tests := []struct {
		name      string
		jsonLD    string
		og        string
		html      string
		wantValue float64
		wantNil   bool
	}{
		{name: "json-ld wins", jsonLD: "1899.90", og: "1500.00", html: "10,00", wantValue: 1899.90},
		{name: "open graph second", og: "1500.00", html: "10,00", wantValue: 1500.00},
		{name: "html last", html: "1.299,90", wantValue: 1299.90},
		{name: "unparseable json-ld falls through", jsonLD: "consulte", og: "249,90", wantValue: 249.90},
		{name: "zero falls through", jsonLD: "0", html: "89,90", wantValue: 89.90},
		{name: "nothing usable", jsonLD: "abc", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := Merge(
				domain.PartialProduct{Price: tt.jsonLD},
				domain.PartialProduct{Price: tt.og},
				domain.PartialProduct{},
				tt.html,
			)
			if tt.wantNil {
				assert.Nil(t, merged.Price)
				return
			}
			require.NotNil(t, merged.Price)
			assert.InDelta(t, tt.wantValue, merged.Price.Value, 0.001)
		})
	}
}
