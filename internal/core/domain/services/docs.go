// Package services provides domain services that implement business rules
// spanning several aggregates of the marketplace.
//
// The package includes:
//   - DeliveryDispatcher: checks a courier against the courier directory and assigns a delivery
//   - FeeRuleResolver: picks the courier fee rule for a distance and guards bucket overlaps
//   - FeePolicy: splits order revenue into platform and payment fees and prices courier trips
//
// Services are stateless and operate on aggregates loaded by the application layer.
package services
