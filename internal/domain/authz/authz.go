// Package authz holds the ownership authorization gate: the pure decision
// of whether an identity may act on a post. It has no side effects and no
// knowledge of HTTP or storage.
package authz

import (
	"microblog/internal/domain/model"
)

type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

type Decision int

const (
	Deny Decision = iota
	Permit
)

// Authorize decides whether identity may perform action on post.
// Viewing is always permitted, including anonymously. Creation requires a
// non-anonymous identity and a non-empty author on the submission.
// Edit and delete require the identity to be the post's author.
func Authorize(identity model.Identity, post *model.Post, action Action) Decision {
	switch action {
	case ActionView:
		return Permit
	case ActionCreate:
		if identity.IsAnonymous() || post == nil || post.Author == "" {
			return Deny
		}
		return Permit
	case ActionEdit, ActionDelete:
		if identity.IsAnonymous() || post == nil {
			return Deny
		}
		if identity.Username != post.Author {
			return Deny
		}
		return Permit
	}
	return Deny
}

// IsAuthor reports whether the viewer wrote the post. Display hint only;
// access control goes through Authorize.
func IsAuthor(identity model.Identity, post model.Post) bool {
	return !identity.IsAnonymous() && identity.Username == post.Author
}
