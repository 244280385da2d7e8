package tracking

import (
	"strings"
)

// Carrier identifies the shipping carrier inferred from a tracking number format.
type Carrier string

const (
	CarrierUPS     Carrier = "UPS"
	CarrierUSPS    Carrier = "USPS"
	CarrierFedEx   Carrier = "FedEx"
	CarrierDHL     Carrier = "DHL"
	CarrierAmazon  Carrier = "AMAZON"
	CarrierUnknown Carrier = "Unknown"
)

// SuffixLen is the number of trailing digits used to associate an order with
// its pack and test events. Carriers and marketplaces format the same shipment
// differently, but the trailing digits survive the reformatting.
const SuffixLen = 8

// KeyLen is the length of the normalized alphanumeric key used for
// exception matching, where the full tail is needed to avoid collisions
// between open exceptions from different stations.
const KeyLen = 18

// DigitsOnly strips every non-digit character from s.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Last8 returns the rightmost 8 digits of the tracking number after stripping
// non-digits, or "" when fewer than 8 digits remain. Callers must treat "" as
// "no suffix key": it never matches anything.
func Last8(trackingNumber string) string {
	digits := DigitsOnly(strings.TrimSpace(trackingNumber))
	if len(digits) < SuffixLen {
		return ""
	}
	return digits[len(digits)-SuffixLen:]
}

// Match reports whether two tracking numbers identify the same shipment:
// both carry at least 8 digits and the trailing 8 digits are equal.
// Numbers with fewer than 8 digits only match on exact string equality.
func Match(a, b string) bool {
	ka := Last8(a)
	kb := Last8(b)
	if ka == "" || kb == "" {
		ta := strings.TrimSpace(a)
		return ta != "" && ta == strings.TrimSpace(b)
	}
	return ka == kb
}

// NormalizeKey18 uppercases the tracking number, strips everything that is not
// A-Z or 0-9 and returns the rightmost 18 characters. Used for exception
// matching where the digit-only suffix would be too collision-prone.
// Returns "" for blank input.
func NormalizeKey18(trackingNumber string) string {
	trimmed := strings.TrimSpace(trackingNumber)
	if trimmed == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(trimmed))
	for _, r := range strings.ToUpper(trimmed) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	key := b.String()
	if key == "" {
		return ""
	}
	if len(key) > KeyLen {
		key = key[len(key)-KeyLen:]
	}
	return key
}

// DetectCarrier guesses the carrier from the tracking number prefix.
func DetectCarrier(trackingNumber string) Carrier {
	t := strings.ToUpper(strings.TrimSpace(trackingNumber))
	if t == "" {
		return CarrierUnknown
	}

	switch {
	case strings.HasPrefix(t, "1Z"):
		return CarrierUPS
	case strings.HasPrefix(t, "94"), strings.HasPrefix(t, "92"),
		strings.HasPrefix(t, "93"), strings.HasPrefix(t, "42"),
		strings.HasPrefix(t, "04"):
		return CarrierUSPS
	case strings.HasPrefix(t, "96"):
		return CarrierFedEx
	case strings.HasPrefix(t, "JD"), strings.HasPrefix(t, "JJD"):
		return CarrierDHL
	case strings.HasPrefix(t, "TBA"):
		return CarrierAmazon
	}

	// Numeric-only fallbacks.
	if isAllDigits(t) {
		switch {
		case len(t) == 12 || len(t) == 15:
			return CarrierFedEx
		case len(t) >= 20 && len(t) <= 22:
			return CarrierUSPS
		}
	}

	return CarrierUnknown
}

// FormatForDisplay shortens a tracking number to its trailing 8 characters
// for table cells and scan confirmations.
func FormatForDisplay(trackingNumber string) string {
	if len(trackingNumber) > SuffixLen {
		return trackingNumber[len(trackingNumber)-SuffixLen:]
	}
	return trackingNumber
}

// HasDigits reports whether the string contains at least one digit. Scanner
// input without digits is never a tracking number.
func HasDigits(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
