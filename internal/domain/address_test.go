package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAddressInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "single line passes through",
			in:   "123 Main St, Seattle, WA 98101",
			want: "123 Main St, Seattle, WA 98101",
		},
		{
			name: "two lines join street and city",
			in:   "123 Main St\nSeattle, WA 98101",
			want: "123 Main St, Seattle, WA 98101",
		},
		{
			name: "three lines",
			in:   "123 Main St\nSeattle\nWA 98101",
			want: "123 Main St, Seattle, WA 98101",
		},
		{
			name: "five lines join everything",
			in:   "Suite 400\n123 Main St\nSeattle\nWA\n98101",
			want: "Suite 400, 123 Main St, Seattle, WA, 98101",
		},
		{
			name: "blank lines and padding dropped",
			in:   "  123 Main St  \n\n  Seattle, WA  \n",
			want: "123 Main St, Seattle, WA",
		},
		{
			name: "windows line endings",
			in:   "1620 Belmont Ave\r\nVictoria, BC",
			want: "1620 Belmont Ave, Victoria, BC",
		},
		{
			name: "empty input",
			in:   "   \n  ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAddressInput(tt.in))
		})
	}
}

func TestAddressRewrites_StripsUnitDesignators(t *testing.T) {
	rewrites := AddressRewrites("123 Main St Apt 4B, Seattle, WA")

	assert.Contains(t, rewrites, "123 Main St, Seattle, WA")
}

func TestAddressRewrites_AppendsInferredCountry(t *testing.T) {
	bc := AddressRewrites("1620 Belmont Ave, Victoria, BC")
	assert.Contains(t, bc, "1620 Belmont Ave, Victoria, BC, Canada")

	us := AddressRewrites("123 Main St, Seattle, WA")
	assert.Contains(t, us, "123 Main St, Seattle, WA, USA")
}

func TestAddressRewrites_NoCountrySuffixWhenAlreadyPresent(t *testing.T) {
	rewrites := AddressRewrites("1620 Belmont Ave, Victoria, BC, Canada")

	assert.NotContains(t, rewrites, "1620 Belmont Ave, Victoria, BC, Canada, Canada")
}

func TestAddressRewrites_ExpandsAbbreviations(t *testing.T) {
	rewrites := AddressRewrites("123 Main St, Seattle, WA")
	assert.Contains(t, rewrites, "123 Main Street, Seattle, WA")

	withPeriod := AddressRewrites("456 Oak Ave., Portland, OR")
	assert.Contains(t, withPeriod, "456 Oak Avenue, Portland, OR")
}

func TestAddressRewrites_DropsDuplicatesAndIdentity(t *testing.T) {
	// No unit, no state token, no abbreviation: nothing to rewrite.
	rewrites := AddressRewrites("Parliament Hill, Ottawa")

	assert.Empty(t, rewrites)
}
