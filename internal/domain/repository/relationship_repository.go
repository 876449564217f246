package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
)

// RelationshipRepository stores the friends and pending-request sets of users.
// Every method is a single atomic unit against the store.
type RelationshipRepository interface {
	// AddPendingRequest adds senderID to recipientID's pending set unless the two
	// are already friends or a request exists in either direction.
	// It reports whether the set changed.
	AddPendingRequest(ctx context.Context, recipientID, senderID string) (bool, error)
	// AcceptRequest removes friendID from userID's pending set and records the
	// friendship on both sides. Returns ErrNotFound if no such pending request.
	AcceptRequest(ctx context.Context, userID, friendID string) error
	// RemovePendingRequest removes senderID from recipientID's pending set; absent is not an error.
	RemovePendingRequest(ctx context.Context, recipientID, senderID string) error
	// RemoveFriendship deletes both sides. Returns ErrNotFound if they were not friends.
	RemoveFriendship(ctx context.Context, userID, friendID string) error

	AreFriends(ctx context.Context, userID, otherID string) (bool, error)
	HasPendingRequest(ctx context.Context, recipientID, senderID string) (bool, error)
	ListFriendIDs(ctx context.Context, userID string) ([]string, error)
	ListPendingRequesters(ctx context.Context, userID string) ([]*entity.User, error)
	ListFriends(ctx context.Context, userID string) ([]*entity.User, error)
	// SuggestFor lists every user other than userID that is neither a friend nor
	// linked to userID by a pending request, ordered by creation.
	SuggestFor(ctx context.Context, userID string) ([]*entity.User, error)
}
