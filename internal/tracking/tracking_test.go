package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLast8(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"ups with prefix", "1Z999AA10123456784", "23456784"},
		{"digits only", "999AA10123456784", "23456784"},
		{"usps 22 digits", "9400111899223100012345", "00012345"},
		{"exactly 8 digits", "12345678", "12345678"},
		{"seven digits", "1234567", ""},
		{"letters only", "TRACKING", ""},
		{"empty", "", ""},
		{"whitespace", "   ", ""},
		{"formatted with spaces", "1Z 999 AA1 01 2345 6784", "23456784"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Last8(tt.input))
		})
	}
}

func TestMatch_SuffixEquality(t *testing.T) {
	// Same shipment scanned with and without the carrier prefix.
	assert.True(t, Match("1Z999AA10123456784", "999AA10123456784"))
	// Same digits, different separators.
	assert.True(t, Match("9400-1118-9922-3100-0123-45", "9400111899223100012345"))
	// Different trailing digits never match.
	assert.False(t, Match("1Z999AA10123456784", "1Z999AA10123456785"))
}

func TestMatch_ShortTrackingExclusion(t *testing.T) {
	// Fewer than 8 digits falls back to exact equality only.
	assert.False(t, Match("1234567", "99991234567"))
	assert.False(t, Match("1234567", "7654321"))
	assert.True(t, Match("1234567", "1234567"))
	assert.True(t, Match("ABC-123", "ABC-123"))
}

func TestMatch_EmptyNeverMatches(t *testing.T) {
	assert.False(t, Match("", ""))
	assert.False(t, Match("", "1Z999AA10123456784"))
	assert.False(t, Match("   ", "   "))
}

func TestNormalizeKey18(t *testing.T) {
	assert.Equal(t, "1Z999AA10123456784", NormalizeKey18("1z 999-aa1_0123456784"))
	assert.Equal(t, "", NormalizeKey18(""))
	assert.Equal(t, "", NormalizeKey18("---"))
	// Longer than 18 alphanumerics keeps the tail.
	assert.Equal(t, "111899223100012345", NormalizeKey18("9400111899223100012345"))
}

func TestDetectCarrier(t *testing.T) {
	tests := []struct {
		tracking string
		expected Carrier
	}{
		{"1Z999AA10123456784", CarrierUPS},
		{"9400111899223100012345", CarrierUSPS},
		{"9612345676543212345678", CarrierFedEx},
		{"JD014600003828152425", CarrierDHL},
		{"TBA123456789000", CarrierAmazon},
		{"123456789012", CarrierFedEx},       // numeric 12
		{"123456789012345", CarrierFedEx},    // numeric 15
		{"12345678901234567890", CarrierUSPS}, // numeric 20
		{"XYZ", CarrierUnknown},
		{"", CarrierUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DetectCarrier(tt.tracking), tt.tracking)
	}
}

func TestFormatForDisplay(t *testing.T) {
	assert.Equal(t, "23456784", FormatForDisplay("1Z999AA10123456784"))
	assert.Equal(t, "SHORT", FormatForDisplay("SHORT"))
}

func TestHasDigits(t *testing.T) {
	assert.True(t, HasDigits("ABC123"))
	assert.False(t, HasDigits("ABCDEF"))
	assert.False(t, HasDigits(""))
}
