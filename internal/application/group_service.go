package application

import (
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-social/internal/domain/repository"
	"github.com/oksasatya/go-ddd-social/pkg/helpers"
	tpl "github.com/oksasatya/go-ddd-social/pkg/mailer/templates"
)

// MembershipMode distinguishes who asked for a membership change
type MembershipMode int

const (
	// ModeSelfJoin: the requester joins the group themselves
	ModeSelfJoin MembershipMode = iota
	// ModeAdmin: the group admin adds another user
	ModeAdmin
)

// MembershipActor authorizes AddMember
type MembershipActor struct {
	RequesterID string
	Mode        MembershipMode
}

func SelfJoin(userID string) MembershipActor {
	return MembershipActor{RequesterID: userID, Mode: ModeSelfJoin}
}

func AddedBy(adminID string) MembershipActor {
	return MembershipActor{RequesterID: adminID, Mode: ModeAdmin}
}

type GroupService struct {
	Groups repo.GroupRepository
	Users  repo.UserRepository
	Assets AssetStore
	Index  SearchIndex
	Logger *logrus.Logger
	notify notifications
}

func NewGroupService(groups repo.GroupRepository, users repo.UserRepository, assets AssetStore, index SearchIndex, logger *logrus.Logger, notify NotifyOptions) *GroupService {
	return &GroupService{
		Groups: groups,
		Users:  users,
		Assets: assets,
		Index:  index,
		Logger: logger,
		notify: newNotifications(notify, logger),
	}
}

// ImageUpload is an optional image attached to a create/update call
type ImageUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

type CreateGroupInput struct {
	Name        string
	Description string
	ImageRef    string
	Image       *ImageUpload
}

// CreateGroup creates a group administered by adminID with no members.
func (s *GroupService) CreateGroup(ctx context.Context, adminID string, in CreateGroupInput) (*entity.Group, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	if _, err := s.Users.GetByID(ctx, adminID); err != nil {
		return nil, notFound(err, "user")
	}
	ref := in.ImageRef
	if in.Image != nil {
		ref, err = storeImage(ctx, s.Assets, "groups/"+adminID, in.Image.ContentType, in.Image.Reader)
		if err != nil {
			return nil, err
		}
	}
	g := &entity.Group{
		Name:        name,
		Description: in.Description,
		ImageRef:    ref,
		AdminID:     adminID,
		Members:     []string{},
	}
	if err := s.Groups.Create(ctx, g); err != nil {
		return nil, err
	}
	s.indexGroup(ctx, g)
	return g, nil
}

func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*entity.Group, error) {
	g, err := s.Groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, notFound(err, "group")
	}
	return g, nil
}

// AddMember adds userID to the group's members. Admin-initiated adds require
// the requester to be the group admin; self-joins require requester == userID.
func (s *GroupService) AddMember(ctx context.Context, groupID, userID string, by MembershipActor) (*entity.Group, error) {
	g, err := s.Groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, notFound(err, "group")
	}
	switch by.Mode {
	case ModeAdmin:
		if !g.IsAdmin(by.RequesterID) {
			return nil, ErrForbidden
		}
	case ModeSelfJoin:
		if by.RequesterID != userID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}
	member, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	added, err := s.Groups.AddMember(ctx, groupID, userID)
	if err != nil {
		return nil, notFound(err, "group")
	}
	if !added {
		return nil, ErrAlreadyMember
	}
	g.Members = append(g.Members, userID)

	if admin, err := s.Users.GetByID(ctx, g.AdminID); err == nil && admin.ID != userID {
		s.notify.send(ctx, tpl.GroupJoined, admin, member, "/groups/"+g.ID, tpl.WithGroup(g.Name))
	}
	return g, nil
}

// JoinGroup is the self-service path of AddMember
func (s *GroupService) JoinGroup(ctx context.Context, groupID, userID string) (*entity.Group, error) {
	return s.AddMember(ctx, groupID, userID, SelfJoin(userID))
}

func (s *GroupService) LeaveGroup(ctx context.Context, groupID, userID string) (*entity.Group, error) {
	g, err := s.Groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, notFound(err, "group")
	}
	if !g.IsMember(userID) {
		return nil, ErrNotAMember
	}
	removed, err := s.Groups.RemoveMember(ctx, groupID, userID)
	if err != nil {
		return nil, notFound(err, "group")
	}
	if !removed {
		// lost a race with a concurrent leave
		return nil, ErrNotAMember
	}
	members := g.Members[:0]
	for _, m := range g.Members {
		if m != userID {
			members = append(members, m)
		}
	}
	g.Members = members
	return g, nil
}

type UpdateGroupInput struct {
	Patch entity.GroupPatch
	Image *ImageUpload
}

// UpdateGroup applies a partial update; only the admin may change a group.
func (s *GroupService) UpdateGroup(ctx context.Context, groupID, requesterID string, in UpdateGroupInput) (*entity.Group, error) {
	g, err := s.Groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, notFound(err, "group")
	}
	if !g.IsAdmin(requesterID) {
		return nil, ErrForbidden
	}
	patch := in.Patch
	if patch.Name != nil {
		name, err := cleanName(*patch.Name)
		if err != nil {
			return nil, err
		}
		patch.Name = &name
	}
	if in.Image != nil {
		ref, err := storeImage(ctx, s.Assets, "groups/"+g.ID, in.Image.ContentType, in.Image.Reader)
		if err != nil {
			return nil, err
		}
		patch.ImageRef = &ref
	}
	patch.Apply(g)
	if err := s.Groups.Update(ctx, g); err != nil {
		return nil, notFound(err, "group")
	}
	s.indexGroup(ctx, g)
	return g, nil
}

// ListGroupsForUser returns the groups userID belongs to or administers
func (s *GroupService) ListGroupsForUser(ctx context.Context, userID string) ([]*entity.Group, error) {
	return s.Groups.ListForUser(ctx, userID)
}

func (s *GroupService) ListMembers(ctx context.Context, groupID string) ([]entity.UserSummary, error) {
	if _, err := s.Groups.GetByID(ctx, groupID); err != nil {
		return nil, notFound(err, "group")
	}
	users, err := s.Groups.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}

func (s *GroupService) SearchGroups(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.Index == nil || strings.TrimSpace(q) == "" {
		return []map[string]any{}, nil
	}
	return s.Index.SearchGroups(ctx, q, size)
}

func (s *GroupService) indexGroup(ctx context.Context, g *entity.Group) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexGroup(ctx, g); err != nil {
		helpers.LogWarn(s.Logger, "search index failed", err, logrus.Fields{"group_id": g.ID})
	}
}
