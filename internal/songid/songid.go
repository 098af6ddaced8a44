// Package songid reconciles the three chart-category numbering ranges with
// the compact numbering used by the Lxns catalog and API.
//
// Internal ids: < 10000 standard, 10000-99999 deluxe, >= 100000 party (utage).
// The compact form strips the deluxe prefix: compact = id mod 10000.
package songid

import "maiscore/pkg/models"

const (
	deluxeBase  = 10000
	utageBase   = 100000
	compactBase = 1000
)

// Classify returns the chart category for an internal song id.
func Classify(id int) models.SongCategory {
	switch {
	case IsStandard(id):
		return models.CategoryStandard
	case IsDeluxe(id):
		return models.CategoryDeluxe
	default:
		return models.CategoryUtage
	}
}

// ToCompact converts an internal song id to the compact numbering. Only the
// deluxe range changes; standard and party ids pass through.
func ToCompact(id int) int {
	if IsDeluxe(id) {
		return id % deluxeBase
	}
	return id
}

// FromCompact converts a compact song id back to the internal numbering.
// Compact ids in [1000, 10000) are deluxe charts and regain the prefix.
// Ids below 1000 are ambiguous between standard and deluxe; they are treated
// as standard, matching the upstream convention.
func FromCompact(id int) int {
	if id >= compactBase && id < deluxeBase {
		return id + deluxeBase
	}
	return id
}

// IsStandard reports whether id is in the standard range.
func IsStandard(id int) bool {
	return id < deluxeBase
}

// IsDeluxe reports whether id is in the deluxe range.
func IsDeluxe(id int) bool {
	return id >= deluxeBase && id < utageBase
}

// IsUtage reports whether id is in the party range.
func IsUtage(id int) bool {
	return id >= utageBase
}
