// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries read the tables directly and return read models; they never load
// aggregates and never take row locks.
package queries

import (
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// requireParty fails with Forbidden unless the actor is an admin or acts as
// one of the given parties.
func requireParty(actor kernel.Actor, action string, parties ...party) error {
	if actor.Is(kernel.RoleAdmin) {
		return nil
	}
	for _, p := range parties {
		if p.id != nil && actor.IsParty(p.role, *p.id) {
			return nil
		}
	}
	return errs.NewForbiddenError(action)
}

type party struct {
	role kernel.Role
	id   *kernel.UUID
}
