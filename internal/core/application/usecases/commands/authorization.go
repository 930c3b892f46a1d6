package commands

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// requireRole fails with Forbidden unless the actor has one of roles.
func requireRole(actor kernel.Actor, action string, roles ...kernel.Role) error {
	for _, role := range roles {
		if actor.Is(role) {
			return nil
		}
	}
	return errs.NewForbiddenError(action)
}

// requireStoreOwner fails with Forbidden unless actor operates storeID.
// Admins pass when allowAdmin is set.
func requireStoreOwner(
	ctx context.Context,
	stores ports.StoreDirectory,
	actor kernel.Actor,
	storeID kernel.UUID,
	action string,
	allowAdmin bool,
) error {
	if allowAdmin && actor.Is(kernel.RoleAdmin) {
		return nil
	}
	if !actor.Is(kernel.RoleStoreOwner) {
		return errs.NewForbiddenError(action)
	}

	ownerID, err := stores.OwnerOf(ctx, storeID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return errs.NewForbiddenErrorWithCause(action, err)
	}
	if err != nil {
		return err
	}
	if !ownerID.IsEqual(actor.ID()) {
		return errs.NewForbiddenError(action)
	}
	return nil
}
