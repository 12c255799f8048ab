package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftline/stockdesk/internal/service/catalog"
)

func codes(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func TestGenerateUniqueCode_BaseShape(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{"brand plus initials plus size", "ABC Xtra Yummy Zesty 20 KG", "ABCXYZ20KG"},
		{"multi pack size", "Sunrise Mango Pickle Jar 2 x 5 Kg", "SUNMP2X5KG"},
		{"no size token", "Sunrise Mango Pickle", "SUNMP"},
		{"packaging words skipped", "Tulip Jar Pack Chutney 500 GM", "TULC500GM"},
		{"vowel-led words skipped for initials", "Tulip Apple Onion Chutney 1 KG", "TULC1KG"},
		{"single word", "Turmeric", "TUR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := catalog.GenerateUniqueCode(tc.description, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGenerateUniqueCode_CollisionSuffix(t *testing.T) {
	existing := codes("ABCXYZ20KG")

	got, err := catalog.GenerateUniqueCode("ABC Xtra Yummy Zesty 20 KG", existing)
	require.NoError(t, err)
	assert.Equal(t, "ABCXYZ20KG-1", got)

	existing = codes("ABCXYZ20KG", "ABCXYZ20KG-1", "ABCXYZ20KG-2")
	got, err = catalog.GenerateUniqueCode("ABC Xtra Yummy Zesty 20 KG", existing)
	require.NoError(t, err)
	assert.Equal(t, "ABCXYZ20KG-3", got)
}

func TestGenerateUniqueCode_Deterministic(t *testing.T) {
	first, err := catalog.GenerateUniqueCode("Sunrise Mango Pickle 2 x 5 Kg", nil)
	require.NoError(t, err)
	second, err := catalog.GenerateUniqueCode("Sunrise Mango Pickle 2 x 5 Kg", nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateUniqueCode_RejectsEmptyDescription(t *testing.T) {
	for _, desc := range []string{"", "   ", "20 KG", "123 456"} {
		_, err := catalog.GenerateUniqueCode(desc, nil)
		assert.ErrorIs(t, err, catalog.ErrNoDescription, "description %q", desc)
	}
}
