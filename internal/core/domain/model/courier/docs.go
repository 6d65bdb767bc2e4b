// Package courier provides the Courier aggregate: the identity, availability
// and last known position of the people who carry parcels.
//
// The package includes:
//   - Courier: the aggregate root read by candidate ranking and by the supply
//     side of dynamic pricing
//
// Key business rules:
//   - Couriers must have a valid unique identifier, a name and a phone number
//   - A position update always carries its own timestamp; older updates are ignored
//   - Only available couriers are offered missions
package courier
