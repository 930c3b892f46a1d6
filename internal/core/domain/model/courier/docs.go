// Package courier provides the courier entity as seen by the marketplace core.
//
// Couriers are registered and activated by the onboarding layer; the core only
// reads them to decide whether a courier may be assigned to a delivery.
//
// Key business rules:
//   - Couriers must have a valid unique identifier and a non-empty name
//   - Only active couriers can be assigned to deliveries
package courier
