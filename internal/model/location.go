// Package model defines the normalized records exchanged between the
// acquisition layer, the scoring engine, and callers of the core.
package model

// Location is a resolved geographic position. It is immutable once created
// by the geocoder and is cached by the input string that produced it.
type Location struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	ResolvedName string  `json:"resolved_name"`
	Region       string  `json:"region"`
}
