// Package services provides domain services that implement business rules
// spanning several aggregates, or pure calculations that belong to none.
//
// The package includes:
//   - CandidateRanker: orders available couriers for a mission's offer cascade
//   - PricingEngine and DynamicCoefficient: deterministic parcel quotes
//   - RevenueSplitter: the per-mode split of a settled price
//   - ProofValidator: pickup/delivery code and geofence checks
//   - DispatchPolicy: the timing and distance constants of dispatch
//
// Every service here is free of I/O; inputs such as the current time or the
// supply/demand counts are passed in by the command and query handlers.
package services
