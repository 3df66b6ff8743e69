package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/orderpipe/orderpipe/pkg/orderpipe"
)

// HashAddress derives the synthetic address identifier from the
// identifying fields of a location: street, area, city, district,
// country, latitude and longitude.
//
// Text fields are trimmed and casefolded before hashing so cosmetic
// variations collapse to the same identifier. Coordinates are rounded to
// CoordinatePrecision decimal places. The normalized values are joined
// with "|" and the identifier is the first AddressHashLength hex
// characters of the SHA-256 digest.
//
// Fields outside the identifying set (floor, apartment, landmark, ...)
// never influence the hash: two orders delivered to different apartments
// of the same building share one address row.
func HashAddress(a orderpipe.Address) string {
	parts := []string{
		normalizeText(a.Street),
		normalizeText(a.Area),
		normalizeText(a.City),
		normalizeText(a.District),
		normalizeText(a.Country),
		normalizeCoordinate(a.Latitude),
		normalizeCoordinate(a.Longitude),
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])[:orderpipe.AddressHashLength]
}

func normalizeText(s *string) string {
	if s == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*s))
}

func normalizeCoordinate(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', orderpipe.CoordinatePrecision, 64)
}

// normalizeAddress builds an Address row from a nested address section
// and stamps it with its content hash. The stored attribute values keep
// their original casing; normalization applies to hashing only.
func normalizeAddress(s section) (orderpipe.Address, error) {
	var (
		a   orderpipe.Address
		err error
	)

	if a.Floor, err = s.optString("floor"); err != nil {
		return a, err
	}
	if a.Apartment, err = s.optString("apartment"); err != nil {
		return a, err
	}
	if a.Building, err = s.optString("building"); err != nil {
		return a, err
	}
	if a.Street, err = s.optString("street"); err != nil {
		return a, err
	}
	if a.Area, err = s.optString("area"); err != nil {
		return a, err
	}
	if a.City, err = s.optString("city"); err != nil {
		return a, err
	}
	if a.District, err = s.optString("district"); err != nil {
		return a, err
	}
	if a.Governorate, err = s.optString("governorate"); err != nil {
		return a, err
	}
	if a.PostalCode, err = s.optString("postal_code"); err != nil {
		return a, err
	}
	if a.Country, err = s.optString("country"); err != nil {
		return a, err
	}
	if a.CountryCode, err = s.optString("country_code"); err != nil {
		return a, err
	}
	if a.Latitude, err = s.optFloat("latitude"); err != nil {
		return a, err
	}
	if a.Longitude, err = s.optFloat("longitude"); err != nil {
		return a, err
	}
	if a.Landmark, err = s.optString("landmark"); err != nil {
		return a, err
	}
	if a.SpecialInstructions, err = s.optString("special_instructions"); err != nil {
		return a, err
	}

	a.AddressID = HashAddress(a)
	return a, nil
}
