package application

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGroupPostRequiresMembership(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin, member, outsider := e.signup(t, "admin"), e.signup(t, "member"), e.signup(t, "outsider")
	g := newGroup(t, e, admin)
	_, err := e.groups.JoinGroup(ctx, g.ID, member.ID)
	require.NoError(t, err)

	_, err = e.posts.CreateGroupPost(ctx, g.ID, outsider.ID, CreatePostInput{Content: "hi"})
	assert.ErrorIs(t, err, ErrForbidden)
	list, err := e.posts.ListGroupPosts(ctx, g.ID, admin.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	p, err := e.posts.CreateGroupPost(ctx, g.ID, member.ID, CreatePostInput{Content: "from member"})
	require.NoError(t, err)
	assert.Equal(t, g.ID, p.GroupID)

	_, err = e.posts.CreateGroupPost(ctx, g.ID, admin.ID, CreatePostInput{Content: "from admin"})
	require.NoError(t, err)

	list, err = e.posts.ListGroupPosts(ctx, g.ID, member.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = e.posts.ListGroupPosts(ctx, g.ID, outsider.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = e.posts.CreateGroupPost(ctx, "missing", member.ID, CreatePostInput{Content: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFeedShowsSelfAndFriendsOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a, b, c := e.signup(t, "alice"), e.signup(t, "bob"), e.signup(t, "carol")
	e.befriend(t, a, b)

	own, err := e.posts.CreatePost(ctx, a.ID, CreatePostInput{Content: "mine"})
	require.NoError(t, err)
	friend, err := e.posts.CreatePost(ctx, b.ID, CreatePostInput{Content: "bob's"})
	require.NoError(t, err)
	_, err = e.posts.CreatePost(ctx, c.ID, CreatePostInput{Content: "stranger"})
	require.NoError(t, err)

	feed, err := e.posts.ListFeed(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, friend.ID, feed[0].ID)
	assert.Equal(t, own.ID, feed[1].ID)
}

func TestPostImageUpload(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.signup(t, "alice")

	p, err := e.posts.CreatePost(ctx, a.ID, CreatePostInput{
		Content: "pic",
		Image:   &ImageUpload{Reader: strings.NewReader("jpeg"), Filename: "", ContentType: "image/jpeg; charset=binary"},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(p.ImageRef, ".jpg"))

	b, ct, err := NewAssetService(e.assets).Get(ctx, p.ImageRef)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(b))
	assert.Equal(t, "image/jpeg", ct)
}

func TestDeletePostAuthorOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a, b := e.signup(t, "alice"), e.signup(t, "bob")
	p, err := e.posts.CreatePost(ctx, a.ID, CreatePostInput{Content: "x"})
	require.NoError(t, err)

	assert.ErrorIs(t, e.posts.DeletePost(ctx, p.ID, b.ID), ErrForbidden)
	require.NoError(t, e.posts.DeletePost(ctx, p.ID, a.ID))
	_, err = e.posts.GetPost(ctx, p.ID, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReactionsAreIdempotentAndExclusive(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a, b := e.signup(t, "alice"), e.signup(t, "bob")
	p, err := e.posts.CreatePost(ctx, a.ID, CreatePostInput{Content: "x"})
	require.NoError(t, err)

	got, err := e.posts.Like(ctx, p.ID, b.ID)
	require.NoError(t, err)
	got, err = e.posts.Like(ctx, p.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, got.Likes)

	got, err = e.posts.Dislike(ctx, p.ID, b.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Likes)
	assert.Equal(t, []string{b.ID}, got.Dislikes)

	got, err = e.posts.Unlike(ctx, p.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, got.Dislikes)

	got, err = e.posts.Undislike(ctx, p.ID, b.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Dislikes)

	_, err = e.posts.Like(ctx, "missing", b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReactOnGroupPostRequiresMembership(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin, outsider := e.signup(t, "admin"), e.signup(t, "outsider")
	g := newGroup(t, e, admin)
	p, err := e.posts.CreateGroupPost(ctx, g.ID, admin.ID, CreatePostInput{Content: "x"})
	require.NoError(t, err)

	_, err = e.posts.Like(ctx, p.ID, outsider.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	got, err := e.posts.Like(ctx, p.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{admin.ID}, got.Likes)
}

func TestGroupPostVisibleToMembersOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin, member, outsider := e.signup(t, "admin"), e.signup(t, "member"), e.signup(t, "outsider")
	g := newGroup(t, e, admin)
	_, err := e.groups.JoinGroup(ctx, g.ID, member.ID)
	require.NoError(t, err)
	p, err := e.posts.CreateGroupPost(ctx, g.ID, admin.ID, CreatePostInput{Content: "members only"})
	require.NoError(t, err)
	_, err = e.comments.CreateComment(ctx, p.ID, member.ID, "seen it")
	require.NoError(t, err)

	_, err = e.posts.GetPost(ctx, p.ID, outsider.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = e.comments.ListComments(ctx, p.ID, outsider.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	for _, viewer := range []string{admin.ID, member.ID} {
		got, err := e.posts.GetPost(ctx, p.ID, viewer)
		require.NoError(t, err)
		assert.Equal(t, "members only", got.Content)
		list, err := e.comments.ListComments(ctx, p.ID, viewer)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	}

	// plain posts stay readable by anyone signed in
	plain, err := e.posts.CreatePost(ctx, admin.ID, CreatePostInput{Content: "public"})
	require.NoError(t, err)
	_, err = e.posts.GetPost(ctx, plain.ID, outsider.ID)
	assert.NoError(t, err)
}
