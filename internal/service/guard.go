package service

import (
	"github.com/nkazarin/noteboard/internal/apperror"
	"github.com/nkazarin/noteboard/internal/model"
)

// requireOwner is the single authorization decision point for owned
// resources. Notes and comments both route every view/edit/delete through it.
//
// The decision is a pure function of (resource, identity): the identity is
// always passed in explicitly by the caller, never read from any ambient
// state.
//
// POLICY:
//   - anonymous (empty userID) never passes
//   - an authenticated non-owner never passes
//   - the owner always passes
//
// On refusal the answer is NotFound, not Forbidden. A 404 is indistinguishable
// from a genuinely missing record, so a non-owner cannot probe which slugs or
// IDs exist. Do not "fix" this to a 403 — the hidden-existence behaviour is
// the contract.
func requireOwner(resource model.Owned, kind, key, userID string) error {
	if userID == "" || resource.OwnerID() != userID {
		return apperror.NotFound(kind, key)
	}
	return nil
}
