package normalize

import (
	"regexp"
	"testing"

	"github.com/orderpipe/orderpipe/pkg/orderpipe"
)

func strPtr(s string) *string    { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestHashAddress_Deterministic(t *testing.T) {
	a := orderpipe.Address{
		Street:    strPtr("26 July Corridor"),
		Area:      strPtr("Sheikh Zayed"),
		City:      strPtr("Giza"),
		District:  strPtr("First District"),
		Country:   strPtr("Egypt"),
		Latitude:  floatPtr(30.01234),
		Longitude: floatPtr(31.20987),
	}

	first := HashAddress(a)
	second := HashAddress(a)
	if first != second {
		t.Errorf("hash not deterministic: %s vs %s", first, second)
	}

	if !regexp.MustCompile(`^[0-9a-f]{32}$`).MatchString(first) {
		t.Errorf("hash %q is not 32 lowercase hex characters", first)
	}
}

func TestHashAddress_IgnoresCaseAndWhitespace(t *testing.T) {
	base := orderpipe.Address{
		Street:  strPtr("26 July Corridor"),
		City:    strPtr("Giza"),
		Country: strPtr("Egypt"),
	}
	variant := orderpipe.Address{
		Street:  strPtr("  26 JULY CORRIDOR "),
		City:    strPtr("giza"),
		Country: strPtr("EGYPT  "),
	}

	if HashAddress(base) != HashAddress(variant) {
		t.Error("case and whitespace variations should hash identically")
	}
}

func TestHashAddress_IgnoresNonIdentifyingFields(t *testing.T) {
	base := orderpipe.Address{
		Street: strPtr("Tahrir St"),
		City:   strPtr("Cairo"),
	}
	decorated := base
	decorated.Floor = strPtr("3")
	decorated.Apartment = strPtr("12B")
	decorated.Building = strPtr("Tower A")
	decorated.Landmark = strPtr("next to the pharmacy")
	decorated.SpecialInstructions = strPtr("ring twice")
	decorated.PostalCode = strPtr("11511")
	decorated.Governorate = strPtr("Cairo")
	decorated.CountryCode = strPtr("EG")

	if HashAddress(base) != HashAddress(decorated) {
		t.Error("non-identifying fields must not influence the hash")
	}
}

func TestHashAddress_CoordinatePrecision(t *testing.T) {
	base := orderpipe.Address{
		Street:    strPtr("Tahrir St"),
		Latitude:  floatPtr(30.044419),
		Longitude: floatPtr(31.235711),
	}
	jitter := orderpipe.Address{
		Street:    strPtr("Tahrir St"),
		Latitude:  floatPtr(30.044421), // rounds to the same 5 decimals
		Longitude: floatPtr(31.235713),
	}
	moved := orderpipe.Address{
		Street:    strPtr("Tahrir St"),
		Latitude:  floatPtr(30.05),
		Longitude: floatPtr(31.235711),
	}

	if HashAddress(base) != HashAddress(jitter) {
		t.Error("sub-precision coordinate jitter should hash identically")
	}
	if HashAddress(base) == HashAddress(moved) {
		t.Error("distinct coordinates should hash differently")
	}
}

func TestHashAddress_DistinguishesNilFromEmpty(t *testing.T) {
	// A nil field and an empty string field normalize identically;
	// changing an identifying field's value must change the hash.
	withDistrict := orderpipe.Address{
		Street:   strPtr("Main St"),
		District: strPtr("Zamalek"),
	}
	withoutDistrict := orderpipe.Address{
		Street: strPtr("Main St"),
	}

	if HashAddress(withDistrict) == HashAddress(withoutDistrict) {
		t.Error("district value should influence the hash")
	}
}

func TestNormalizeAddress_StoresOriginalsHashesNormalized(t *testing.T) {
	sec := section{
		file: "a.json",
		path: "pickup_address",
		m: map[string]any{
			"street":    "  26 JULY Corridor ",
			"city":      "Giza",
			"latitude":  30.01234,
			"longitude": 31.20987,
			"floor":     float64(3),
		},
	}

	addr, err := normalizeAddress(sec)
	if err != nil {
		t.Fatalf("normalizeAddress error: %v", err)
	}

	// Stored value keeps original casing and whitespace
	if *addr.Street != "  26 JULY Corridor " {
		t.Errorf("street stored as %q", *addr.Street)
	}
	// Numeric floor renders as string
	if *addr.Floor != "3" {
		t.Errorf("floor = %q, want 3", *addr.Floor)
	}
	if addr.AddressID != HashAddress(addr) {
		t.Error("AddressID should equal the content hash")
	}
}

func TestNormalizeAddress_BadCoordinate(t *testing.T) {
	sec := section{
		file: "a.json",
		path: "dropoff_address",
		m: map[string]any{
			"street":   "Main St",
			"latitude": []any{30.0},
		},
	}

	_, err := normalizeAddress(sec)
	if err == nil {
		t.Fatal("expected error for non-numeric latitude")
	}
}
