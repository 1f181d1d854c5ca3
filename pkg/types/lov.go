package types

// ValueLabel is a single entry of a list of values: a canonical value and the
// text displayed for it. Order of entries is meaningful and preserved end-to-end.
type ValueLabel struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// LovType tells how a list of values is produced.
type LovType string

const (
	// LovTypeStatic marks LOVs backed by a closed enumeration known at build time.
	LovTypeStatic LovType = "STATIC_TYPE"
	// LovTypeDynamic marks LOVs backed by a query against live entity data.
	LovTypeDynamic LovType = "DYNAMIC_TYPE"
)

// LovTypeValues lists the LovType members in declaration order.
// The slice backs the built-in static LOV for this enumeration.
func LovTypeValues() []LovType {
	return []LovType{LovTypeStatic, LovTypeDynamic}
}

// LovListResponse is the payload returned by the LOV endpoints.
type LovListResponse struct {
	Code   int          `json:"code"`
	Values []ValueLabel `json:"values"`
}
