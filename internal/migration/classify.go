package migration

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/petmap/pet-marketplace/internal/models"
)

// locationShape is the tagged classification of a stored location value.
// Every document falls into exactly one case; there is no duck-typed
// fallthrough.
type locationShape int

const (
	// shapeAbsent: the field is missing entirely. Correct for an unknown
	// location; the sparse index skips it. No rewrite.
	shapeAbsent locationShape = iota
	// shapeCanonical: already a valid GeoJSON Point. No rewrite.
	shapeCanonical
	// shapeLegacy: the bare {latitude, longitude} shape with in-range
	// values. Reprojected in place to a GeoJSON Point.
	shapeLegacy
	// shapeMalformed: anything else, including null, wrong types, and
	// out-of-range coordinates. The field is removed; a null or
	// degenerate value would otherwise be indexed, unlike a missing one.
	shapeMalformed
)

// classify inspects the location value of one document at the given
// field path and, for the legacy shape, extracts the coordinates in
// caller order (lat, lng).
func classify(doc bson.Raw, path ...string) (locationShape, float64, float64) {
	raw, err := doc.LookupErr(path...)
	if err != nil {
		return shapeAbsent, 0, 0
	}
	if raw.Type != bson.TypeEmbeddedDocument {
		return shapeMalformed, 0, 0
	}

	loc := raw.Document()

	if isCanonicalPoint(loc) {
		return shapeCanonical, 0, 0
	}

	lat, okLat := numericField(loc, "latitude")
	lng, okLng := numericField(loc, "longitude")
	if okLat && okLng {
		if models.ValidateLatLng(lat, lng) != nil {
			return shapeMalformed, 0, 0
		}
		return shapeLegacy, lat, lng
	}

	return shapeMalformed, 0, 0
}

func isCanonicalPoint(doc bson.Raw) bool {
	typeVal, err := doc.LookupErr("type")
	if err != nil {
		return false
	}
	if s, ok := typeVal.StringValueOK(); !ok || s != "Point" {
		return false
	}

	coordsVal, err := doc.LookupErr("coordinates")
	if err != nil || coordsVal.Type != bson.TypeArray {
		return false
	}
	elems, err := coordsVal.Array().Values()
	if err != nil || len(elems) != 2 {
		return false
	}
	lng, okLng := rawNumber(elems[0])
	lat, okLat := rawNumber(elems[1])
	if !okLng || !okLat {
		return false
	}
	return models.ValidateLatLng(lat, lng) == nil
}

func numericField(doc bson.Raw, key string) (float64, bool) {
	val, err := doc.LookupErr(key)
	if err != nil {
		return 0, false
	}
	return rawNumber(val)
}

func rawNumber(val bson.RawValue) (float64, bool) {
	switch val.Type {
	case bson.TypeDouble:
		return val.Double(), true
	case bson.TypeInt32:
		return float64(val.Int32()), true
	case bson.TypeInt64:
		return float64(val.Int64()), true
	default:
		return 0, false
	}
}
