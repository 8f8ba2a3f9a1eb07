// Package curves registers the available ecc.Point implementations.
package curves

import (
	"slices"

	"github.com/vocdoni/trustledger/crypto/ecc"
	bjj "github.com/vocdoni/trustledger/crypto/ecc/bjj_iden3"
)

// New returns a fresh point of the curve identified by curveType. It panics
// on an unknown type; use IsValid to check a type string first.
func New(curveType string) ecc.Point {
	switch curveType {
	case bjj.CurveType:
		return bjj.New()
	default:
		panic("unsupported curve type: " + curveType)
	}
}

// Curves returns the list of supported curve type identifiers.
func Curves() []string {
	return []string{
		bjj.CurveType,
	}
}

// IsValid reports whether curveType names a supported implementation.
func IsValid(curveType string) bool {
	return slices.Contains(Curves(), curveType)
}
