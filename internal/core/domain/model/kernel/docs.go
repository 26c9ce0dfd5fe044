// Package kernel holds the value objects shared by every dispatch aggregate:
// UUID identifiers and GeoPoint coordinates, together with the geo utilities
// (haversine distance and travel-time estimation) the scorers build on.
//
// Values are immutable and constructor-guarded; their zero values fail Validate.
package kernel
