// Package policy is the authorization engine for the application. It decides,
// per operation on a per-entity basis, whether the acting principal may
// perform it. Decisions are pure functions of the principal and an entity
// snapshot: no I/O, no store access. Services call Authorize before every
// store mutation and run the check plus its side effects in one transaction.
//
// The rule model is additive: an operation is allowed if any applicable grant
// matches. There is no explicit deny that overrides a grant. Unknown entity
// types deny.
package policy

import (
	"github.com/google/uuid"

	"github.com/forkful/forkful-v2/backend/internal/models"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

type Operation string

const (
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Reason categorizes a denial. Callers surface denied reads as a plain
// not-found so a denial is indistinguishable from absence.
type Reason string

const (
	ReasonNotAuthenticated  Reason = "not-authenticated"
	ReasonNotOwner          Reason = "not-owner"
	ReasonNotAdmin          Reason = "not-admin"
	ReasonTargetPrivate     Reason = "target-private"
	ReasonNotFoundOrDeleted Reason = "target-not-found-or-deleted"
)

// Principal is the identity (or anonymity) on whose behalf an operation is
// attempted. Anonymous principals have a nil ID; guests interacting with chat
// carry a session token instead.
type Principal struct {
	ID        uuid.UUID
	Role      Role
	SessionID string
}

// Anonymous returns an unauthenticated principal. sessionID may be empty; it
// is only consulted for guest chat conversations.
func Anonymous(sessionID string) Principal {
	return Principal{Role: RoleGuest, SessionID: sessionID}
}

func (p Principal) Authenticated() bool {
	return p.ID != uuid.Nil
}

func (p Principal) IsAdmin() bool {
	return p.Authenticated() && p.Role == RoleAdmin
}

type Decision struct {
	Allowed bool
	Reason  Reason
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason Reason) Decision {
	return Decision{Reason: reason}
}

// ReviewRead pairs a review with its target recipe: a review is readable by
// anyone who may read the recipe, and always by its author.
type ReviewRead struct {
	Review *models.Review
	Recipe *models.Recipe
}

// Authorize evaluates the grant set for one operation on one entity snapshot.
func Authorize(p Principal, op Operation, entity any) Decision {
	if entity == nil {
		return Deny(ReasonNotFoundOrDeleted)
	}

	switch e := entity.(type) {
	case *models.Recipe:
		return authorizeRecipe(p, op, e)
	case *models.Favorite:
		return authorizeFavorite(p, e)
	case *models.Collection:
		return authorizeCollection(p, op, e)
	case *models.Review:
		return authorizeReview(p, op, e)
	case ReviewRead:
		return authorizeReviewRead(p, op, e)
	case *models.ChatConversation:
		return authorizeConversation(p, e)
	case *models.ActivityLog:
		return authorizeActivityLog(p, e)
	case *models.AdminAction:
		return authorizeAdminAction(p)
	case *models.User:
		return authorizeUser(p, op, e)
	default:
		return Deny(ReasonNotFoundOrDeleted)
	}
}

func authorizeRecipe(p Principal, op Operation, r *models.Recipe) Decision {
	if r == nil {
		return Deny(ReasonNotFoundOrDeleted)
	}
	// Admin override on recipes is unconditional.
	if p.IsAdmin() {
		return Allow()
	}
	owner := p.Authenticated() && p.ID == r.UserID

	switch op {
	case OpRead:
		if r.IsPublic && !r.IsDeleted {
			return Allow()
		}
		if owner {
			return Allow()
		}
		if r.IsDeleted {
			return Deny(ReasonNotFoundOrDeleted)
		}
		return Deny(ReasonTargetPrivate)
	case OpCreate:
		// The row being created must declare the creator as owner.
		if !p.Authenticated() {
			return Deny(ReasonNotAuthenticated)
		}
		if owner {
			return Allow()
		}
		return Deny(ReasonNotOwner)
	case OpUpdate, OpDelete:
		if !p.Authenticated() {
			return Deny(ReasonNotAuthenticated)
		}
		if owner {
			return Allow()
		}
		return Deny(ReasonNotOwner)
	}
	return Deny(ReasonNotOwner)
}

func authorizeFavorite(p Principal, f *models.Favorite) Decision {
	if f == nil {
		return Deny(ReasonNotFoundOrDeleted)
	}
	if !p.Authenticated() {
		return Deny(ReasonNotAuthenticated)
	}
	// Favorites are private to the favoriting user for every operation.
	if p.ID == f.UserID {
		return Allow()
	}
	return Deny(ReasonNotOwner)
}

func authorizeCollection(p Principal, op Operation, c *models.Collection) Decision {
	if c == nil {
		return Deny(ReasonNotFoundOrDeleted)
	}
	owner := p.Authenticated() && p.ID == c.UserID

	if op == OpRead {
		if c.IsPublic || owner {
			return Allow()
		}
		return Deny(ReasonTargetPrivate)
	}
	if !p.Authenticated() {
		return Deny(ReasonNotAuthenticated)
	}
	if owner {
		return Allow()
	}
	return Deny(ReasonNotOwner)
}

func authorizeReview(p Principal, op Operation, r *models.Review) Decision {
	if r == nil {
		return Deny(ReasonNotFoundOrDeleted)
	}
	if !p.Authenticated() {
		return Deny(ReasonNotAuthenticated)
	}
	// Reads by non-authors require the target recipe; use ReviewRead.
	if p.ID == r.UserID {
		return Allow()
	}
	if op == OpRead {
		return Deny(ReasonTargetPrivate)
	}
	return Deny(ReasonNotOwner)
}

func authorizeReviewRead(p Principal, op Operation, rr ReviewRead) Decision {
	if rr.Review == nil || rr.Recipe == nil {
		return Deny(ReasonNotFoundOrDeleted)
	}
	if op != OpRead {
		return authorizeReview(p, op, rr.Review)
	}
	if p.Authenticated() && p.ID == rr.Review.UserID {
		return Allow()
	}
	return authorizeRecipe(p, OpRead, rr.Recipe)
}

func authorizeConversation(p Principal, c *models.ChatConversation) Decision {
	if c == nil {
		return Deny(ReasonNotFoundOrDeleted)
	}
	// Ownership is exclusive-or between a user and a guest session token.
	if c.UserID != nil {
		if !p.Authenticated() {
			return Deny(ReasonNotAuthenticated)
		}
		if p.ID == *c.UserID {
			return Allow()
		}
		return Deny(ReasonNotOwner)
	}
	if c.SessionID != "" && p.SessionID == c.SessionID {
		return Allow()
	}
	if !p.Authenticated() && p.SessionID == "" {
		return Deny(ReasonNotAuthenticated)
	}
	return Deny(ReasonNotOwner)
}

func authorizeActivityLog(p Principal, a *models.ActivityLog) Decision {
	if a == nil {
		return Deny(ReasonNotFoundOrDeleted)
	}
	if !p.Authenticated() {
		return Deny(ReasonNotAuthenticated)
	}
	if p.ID == a.UserID {
		return Allow()
	}
	return Deny(ReasonNotOwner)
}

func authorizeAdminAction(p Principal) Decision {
	if !p.Authenticated() {
		return Deny(ReasonNotAuthenticated)
	}
	if p.IsAdmin() {
		return Allow()
	}
	return Deny(ReasonNotAdmin)
}

func authorizeUser(p Principal, op Operation, u *models.User) Decision {
	if u == nil {
		return Deny(ReasonNotFoundOrDeleted)
	}
	if op == OpCreate {
		// Sign-up is open.
		return Allow()
	}
	if !p.Authenticated() {
		return Deny(ReasonNotAuthenticated)
	}
	if p.IsAdmin() {
		return Allow()
	}
	if op == OpDelete {
		// Hard deletion cascades; admin only.
		return Deny(ReasonNotAdmin)
	}
	if p.ID == u.ID {
		return Allow()
	}
	return Deny(ReasonNotOwner)
}
