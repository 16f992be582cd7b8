package service

import (
	"github.com/forkful/forkful-v2/backend/internal/policy"
)

// authorizeRead maps a read decision onto the error taxonomy. Every denied
// read becomes ErrNotFound: a caller probing an id they may not see learns
// nothing beyond "no such thing".
func authorizeRead(p policy.Principal, entity any) error {
	if d := policy.Authorize(p, policy.OpRead, entity); !d.Allowed {
		return ErrNotFound
	}
	return nil
}

// authorizeMutation maps a mutation decision onto the error taxonomy. An
// entity the principal cannot even read stays indistinguishable from a
// missing one; beyond that, anonymous callers are told to authenticate and
// everyone else that the operation is off limits.
func authorizeMutation(p policy.Principal, op policy.Operation, entity any) error {
	d := policy.Authorize(p, op, entity)
	if d.Allowed {
		return nil
	}
	// Creates target an entity that doesn't exist yet, so there is nothing
	// whose existence could leak.
	if op != policy.OpCreate {
		if readDenied := policy.Authorize(p, policy.OpRead, entity); !readDenied.Allowed {
			return ErrNotFound
		}
	}
	if d.Reason == policy.ReasonNotAuthenticated {
		return ErrUnauthorized
	}
	return ErrForbidden
}
