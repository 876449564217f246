package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
	tpl "github.com/oksasatya/go-ddd-social/pkg/mailer/templates"
)

type FriendServiceSuite struct {
	suite.Suite
	env  *env
	ctx  context.Context
	a, b *entity.User
}

func (s *FriendServiceSuite) SetupTest() {
	s.env = newEnv(s.T())
	s.ctx = context.Background()
	s.a = s.env.signup(s.T(), "alice")
	s.b = s.env.signup(s.T(), "bob")
}

func (s *FriendServiceSuite) pending(userID string) []string {
	list, err := s.env.friends.ListPendingRequests(s.ctx, userID)
	s.Require().NoError(err)
	return ids(list)
}

func (s *FriendServiceSuite) friendsOf(userID string) []string {
	list, err := s.env.friends.ListFriends(s.ctx, userID)
	s.Require().NoError(err)
	return ids(list)
}

func (s *FriendServiceSuite) TestRequestThenAccept() {
	s.Require().NoError(s.env.friends.SendFriendRequest(s.ctx, s.a.ID, s.b.ID))
	s.Equal([]string{s.a.ID}, s.pending(s.b.ID))
	s.Empty(s.pending(s.a.ID))

	s.Require().NoError(s.env.friends.AcceptFriendRequest(s.ctx, s.b.ID, s.a.ID))
	s.Equal([]string{s.b.ID}, s.friendsOf(s.a.ID))
	s.Equal([]string{s.a.ID}, s.friendsOf(s.b.ID))
	s.Empty(s.pending(s.b.ID))

	s.Equal([]string{tpl.FriendRequest, tpl.FriendAccepted}, s.env.notifier.templates())
	s.Equal("bob@test.io", s.env.notifier.jobs[0].To)
	s.Equal("alice@test.io", s.env.notifier.jobs[1].To)
}

func (s *FriendServiceSuite) TestDuplicateRequestIsAlreadyRelated() {
	s.Require().NoError(s.env.friends.SendFriendRequest(s.ctx, s.a.ID, s.b.ID))
	s.ErrorIs(s.env.friends.SendFriendRequest(s.ctx, s.a.ID, s.b.ID), ErrAlreadyRelated)
	s.Equal([]string{s.a.ID}, s.pending(s.b.ID))
}

func (s *FriendServiceSuite) TestReverseRequestIsAlreadyRelated() {
	s.Require().NoError(s.env.friends.SendFriendRequest(s.ctx, s.a.ID, s.b.ID))
	s.ErrorIs(s.env.friends.SendFriendRequest(s.ctx, s.b.ID, s.a.ID), ErrAlreadyRelated)
	s.Empty(s.pending(s.a.ID))
}

func (s *FriendServiceSuite) TestRequestToFriendIsAlreadyRelated() {
	s.env.befriend(s.T(), s.a, s.b)
	s.ErrorIs(s.env.friends.SendFriendRequest(s.ctx, s.b.ID, s.a.ID), ErrAlreadyRelated)
}

func (s *FriendServiceSuite) TestRequestValidation() {
	s.ErrorIs(s.env.friends.SendFriendRequest(s.ctx, s.a.ID, s.a.ID), ErrSelfRequest)
	s.ErrorIs(s.env.friends.SendFriendRequest(s.ctx, s.a.ID, "missing"), ErrNotFound)
}

func (s *FriendServiceSuite) TestRequestFromDeletedSenderIsNotFound() {
	s.Require().NoError(s.env.users.DeleteUser(s.ctx, s.a.ID))
	err := s.env.friends.SendFriendRequest(s.ctx, s.a.ID, s.b.ID)
	s.ErrorIs(err, ErrNotFound)
	s.Empty(s.pending(s.b.ID))
}

func (s *FriendServiceSuite) TestAcceptWithoutRequest() {
	s.ErrorIs(s.env.friends.AcceptFriendRequest(s.ctx, s.b.ID, s.a.ID), ErrRequestNotFound)
	s.Empty(s.friendsOf(s.a.ID))
}

func (s *FriendServiceSuite) TestAcceptTwiceFailsSecondTime() {
	s.Require().NoError(s.env.friends.SendFriendRequest(s.ctx, s.a.ID, s.b.ID))
	s.Require().NoError(s.env.friends.AcceptFriendRequest(s.ctx, s.b.ID, s.a.ID))
	s.ErrorIs(s.env.friends.AcceptFriendRequest(s.ctx, s.b.ID, s.a.ID), ErrRequestNotFound)
	s.Equal([]string{s.a.ID}, s.friendsOf(s.b.ID))
}

func (s *FriendServiceSuite) TestRejectIsIdempotent() {
	s.Require().NoError(s.env.friends.SendFriendRequest(s.ctx, s.a.ID, s.b.ID))
	s.Require().NoError(s.env.friends.RejectFriendRequest(s.ctx, s.b.ID, s.a.ID))
	s.Empty(s.pending(s.b.ID))
	s.Require().NoError(s.env.friends.RejectFriendRequest(s.ctx, s.b.ID, s.a.ID))
	s.Empty(s.pending(s.b.ID))
	s.Empty(s.friendsOf(s.b.ID))

	// a rejected sender may ask again
	s.NoError(s.env.friends.SendFriendRequest(s.ctx, s.a.ID, s.b.ID))
}

func (s *FriendServiceSuite) TestRemoveFriend() {
	s.env.befriend(s.T(), s.a, s.b)
	s.Require().NoError(s.env.friends.RemoveFriend(s.ctx, s.a.ID, s.b.ID))
	s.Empty(s.friendsOf(s.a.ID))
	s.Empty(s.friendsOf(s.b.ID))
	s.ErrorIs(s.env.friends.RemoveFriend(s.ctx, s.a.ID, s.b.ID), ErrNotFound)
}

func (s *FriendServiceSuite) TestSuggestions() {
	c := s.env.signup(s.T(), "carol")
	d := s.env.signup(s.T(), "dave")
	e := s.env.signup(s.T(), "erin")
	s.env.befriend(s.T(), s.a, s.b)
	s.Require().NoError(s.env.friends.SendFriendRequest(s.ctx, c.ID, s.a.ID))
	s.Require().NoError(s.env.friends.SendFriendRequest(s.ctx, s.a.ID, d.ID))

	got, err := s.env.friends.SuggestFriends(s.ctx, s.a.ID)
	s.Require().NoError(err)
	s.Equal([]string{e.ID}, ids(got))

	_, err = s.env.friends.SuggestFriends(s.ctx, "missing")
	s.ErrorIs(err, ErrNotFound)
}

func (s *FriendServiceSuite) TestNotifierFailureDoesNotFailRequest() {
	s.env.notifier.err = errBroken
	s.NoError(s.env.friends.SendFriendRequest(s.ctx, s.a.ID, s.b.ID))
	s.NotEmpty(s.env.logs.AllEntries())
}

func TestFriendServiceSuite(t *testing.T) {
	suite.Run(t, new(FriendServiceSuite))
}

func TestConcurrentAcceptAndReject(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a, b := e.signup(t, "alice"), e.signup(t, "bob")
	require.NoError(t, e.friends.SendFriendRequest(ctx, a.ID, b.ID))

	var wg sync.WaitGroup
	var acceptErr, rejectErr error
	wg.Add(2)
	go func() { defer wg.Done(); acceptErr = e.friends.AcceptFriendRequest(ctx, b.ID, a.ID) }()
	go func() { defer wg.Done(); rejectErr = e.friends.RejectFriendRequest(ctx, b.ID, a.ID) }()
	wg.Wait()

	require.NoError(t, rejectErr)
	friends, err := e.friends.ListFriends(ctx, b.ID)
	require.NoError(t, err)
	if acceptErr != nil {
		assert.ErrorIs(t, acceptErr, ErrRequestNotFound)
		assert.Empty(t, friends)
	} else {
		assert.Equal(t, []string{a.ID}, ids(friends))
	}
	pending, _ := e.friends.ListPendingRequests(ctx, b.ID)
	assert.Empty(t, pending)
}
