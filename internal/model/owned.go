package model

// Owned is implemented by every resource that belongs to a single user.
//
// WHY AN INTERFACE?
// Notes and comments enforce the same rule: only the author may view, edit or
// delete the record. Without this interface, that check would be copy-pasted
// per entity ("if note.AuthorID != userID", "if comment.AuthorID != userID", ...).
// With it, one guard function in the service layer makes the decision for any
// owned resource, and adding a new owned entity means implementing one method.
//
// The guard is a pure function of (resource, identity) — the identity is always
// passed in explicitly, never read from ambient state, so the decision is
// trivially testable.
type Owned interface {
	// OwnerID returns the ID of the user who created the resource.
	OwnerID() string
}
