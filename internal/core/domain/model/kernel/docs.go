// Package kernel provides the shared value objects of the marketplace domain:
//   - UUID: identifier of every entity and aggregate
//   - Actor: the authenticated caller (role and identity) passed into every command
//
// Values are immutable and safe for concurrent use.
package kernel
