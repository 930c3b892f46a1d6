package kernel

import (
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor constructor")

// Role is the kind of party acting on the marketplace.
type Role int

const (
	RoleUnknown Role = iota
	RoleBuyer
	RoleStoreOwner
	RoleCourier
	// RoleAdmin is operations staff and internal batch triggers.
	RoleAdmin
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:    "UNKNOWN",
		RoleBuyer:      "BUYER",
		RoleStoreOwner: "STORE_OWNER",
		RoleCourier:    "COURIER",
		RoleAdmin:      "ADMIN",
	}
}

func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "UNKNOWN"
}

func (r Role) Validate() error {
	if r <= RoleUnknown || r > RoleAdmin {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// ParseRole accepts the role names used in access tokens, case-insensitively.
func ParseRole(s string) (Role, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for role, name := range getRoleStrings() {
		if role != RoleUnknown && name == normalized {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
}

// Actor is the authenticated caller. It is resolved once at the transport boundary
// and passed explicitly into every command.
type Actor struct {
	role  Role
	id    UUID
	guard guard.ConstructorGuard
}

func NewActor(role Role, id UUID) (Actor, error) {
	if err := errors.Join(role.Validate(), id.Validate()); err != nil {
		return Actor{}, err
	}
	return Actor{role: role, id: id, guard: guard.NewConstructorGuard()}, nil
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

func (a Actor) Role() Role { return a.role }

func (a Actor) ID() UUID { return a.id }

func (a Actor) Is(role Role) bool {
	return a.role == role
}

// IsParty reports whether the actor acts in role on behalf of id.
func (a Actor) IsParty(role Role, id UUID) bool {
	return a.role == role && a.id.IsEqual(id)
}

func (a Actor) String() string {
	return a.role.String() + ":" + a.id.String()
}
