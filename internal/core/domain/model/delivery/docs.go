// Package delivery implements the Delivery aggregate: courier assignment, the
// single-winner acceptance step and the courier-driven progress to DELIVERED.
//
// The aggregate only decides whether a step is legal. Mutual exclusion between
// concurrent couriers comes from loading the delivery under a row lock before any
// of these methods run.
package delivery
