// Package kernel holds the value objects shared by every aggregate of the parcel
// engine: UUID identifiers, GeoPoint coordinates with great-circle distance,
// and the Clock abstraction.
package kernel
