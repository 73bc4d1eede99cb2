// README: Shared value objects used across modules.
package types

// ID is an opaque entity identifier.
type ID string

// Point is a WGS 84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
