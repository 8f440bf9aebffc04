// Package policy is the access decision layer: pure predicates over actor
// role, ownership and visibility. Every authorization rule in the API
// reduces to one of these calls plus an existence check on the target id,
// so role handling lives in exactly one place.
package policy

import (
	"agora/internal/models"
)

// CanView reports whether actor may read a resource with the given privacy
// flag. Public resources are visible to everyone, including anonymous
// callers (nil actor). Private resources are visible to admins only;
// customers do not see private resources even when they own them.
func CanView(actor *models.User, isPrivate bool) bool {
	if !isPrivate {
		return true
	}
	return actor != nil && actor.IsAdmin()
}

// CanMutate reports whether actor may modify or delete a resource owned by
// ownerID. Admins always may; the owner may when ownerMayMutate is set.
// Category-style resources pass ownerMayMutate=false to stay admin-only.
func CanMutate(actor *models.User, ownerID uint, ownerMayMutate bool) bool {
	if actor == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	return ownerMayMutate && actor.ID == ownerID
}

// CanCreateContent reports whether actor may create topics, replies or
// messages. Any authenticated user qualifies.
func CanCreateContent(actor *models.User) bool {
	return actor != nil
}

// CanCreateCategory reports whether actor may create categories.
func CanCreateCategory(actor *models.User) bool {
	return actor != nil && actor.IsAdmin()
}

// CanManageUsers reports whether actor may list, inspect, re-role or
// delete user accounts.
func CanManageUsers(actor *models.User) bool {
	return actor != nil && actor.IsAdmin()
}

// IsOwner reports whether actor is the owner of a resource. Used where
// ownership alone decides (best-reply assignment, message editing) and
// admins do not bypass the check.
func IsOwner(actor *models.User, ownerID uint) bool {
	return actor != nil && actor.ID == ownerID
}
