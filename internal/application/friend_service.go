package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-social/internal/domain/repository"
	tpl "github.com/oksasatya/go-ddd-social/pkg/mailer/templates"
)

// FriendService manages the friend-request lifecycle and friendship sets.
type FriendService struct {
	Users     repo.UserRepository
	Relations repo.RelationshipRepository
	Logger    *logrus.Logger
	notify    notifications
}

func NewFriendService(users repo.UserRepository, relations repo.RelationshipRepository, logger *logrus.Logger, notify NotifyOptions) *FriendService {
	return &FriendService{Users: users, Relations: relations, Logger: logger, notify: newNotifications(notify, logger)}
}

// SendFriendRequest records senderID in recipientID's pending set.
func (s *FriendService) SendFriendRequest(ctx context.Context, senderID, recipientID string) error {
	if senderID == recipientID {
		return ErrSelfRequest
	}
	recipient, err := s.Users.GetByID(ctx, recipientID)
	if err != nil {
		return notFound(err, "recipient")
	}
	friends, err := s.Relations.AreFriends(ctx, senderID, recipientID)
	if err != nil {
		return err
	}
	if friends {
		return ErrAlreadyRelated
	}
	// a request already waiting on the sender's side counts as related too
	reverse, err := s.Relations.HasPendingRequest(ctx, senderID, recipientID)
	if err != nil {
		return err
	}
	if reverse {
		return ErrAlreadyRelated
	}
	added, err := s.Relations.AddPendingRequest(ctx, recipientID, senderID)
	if err != nil {
		// the sender may have been deleted while still holding a token
		return notFound(err, "user")
	}
	if !added {
		return ErrAlreadyRelated
	}

	if sender, err := s.Users.GetByID(ctx, senderID); err == nil {
		s.notify.send(ctx, tpl.FriendRequest, recipient, sender, "/friends/requests", tpl.WithTime(time.Now()))
	}
	return nil
}

// AcceptFriendRequest turns friendID's pending request into a symmetric friendship.
func (s *FriendService) AcceptFriendRequest(ctx context.Context, userID, friendID string) error {
	if err := s.Relations.AcceptRequest(ctx, userID, friendID); err != nil {
		return mapMiss(err, ErrRequestNotFound)
	}
	user, uErr := s.Users.GetByID(ctx, userID)
	friend, fErr := s.Users.GetByID(ctx, friendID)
	if uErr == nil && fErr == nil {
		s.notify.send(ctx, tpl.FriendAccepted, friend, user, "/friends")
	}
	return nil
}

// RejectFriendRequest is idempotent: rejecting an absent request succeeds.
func (s *FriendService) RejectFriendRequest(ctx context.Context, userID, friendID string) error {
	return s.Relations.RemovePendingRequest(ctx, userID, friendID)
}

func (s *FriendService) ListPendingRequests(ctx context.Context, userID string) ([]entity.UserSummary, error) {
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		return nil, notFound(err, "user")
	}
	users, err := s.Relations.ListPendingRequesters(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}

// SuggestFriends lists users that are neither friends nor linked by a pending request.
func (s *FriendService) SuggestFriends(ctx context.Context, userID string) ([]entity.UserSummary, error) {
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		return nil, notFound(err, "user")
	}
	users, err := s.Relations.SuggestFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}

func (s *FriendService) ListFriends(ctx context.Context, userID string) ([]entity.UserSummary, error) {
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		return nil, notFound(err, "user")
	}
	users, err := s.Relations.ListFriends(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}

// RemoveFriend deletes the friendship on both sides
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID string) error {
	if err := s.Relations.RemoveFriendship(ctx, userID, friendID); err != nil {
		return notFound(err, "friend")
	}
	return nil
}

func summaries(users []*entity.User) []entity.UserSummary {
	out := make([]entity.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out
}
