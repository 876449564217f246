// Package memory is a process-local implementation of the domain
// repositories. It backs STORE_DRIVER=memory and the service tests.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social/internal/domain/repository"
)

type postRecord struct {
	post      entity.Post
	seq       int64
	reactions map[string]entity.ReactionKind
	reactSeq  map[string]int64
}

type sessionRecord struct {
	session   repository.Session
	expiresAt time.Time
}

// Store holds every entity behind one lock, so each repository call is atomic.
type Store struct {
	mu  sync.RWMutex
	seq int64

	users    map[string]*entity.User
	userSeq  map[string]int64
	byEmail  map[string]string
	friends  map[string]map[string]int64
	pending  map[string]map[string]int64
	groups   map[string]*entity.Group
	groupSeq map[string]int64
	posts    map[string]*postRecord
	comments map[string]*entity.Comment
	cmtSeq   map[string]int64
	sessions map[string]sessionRecord

	now func() time.Time
}

func New() *Store {
	return &Store{
		users:    map[string]*entity.User{},
		userSeq:  map[string]int64{},
		byEmail:  map[string]string{},
		friends:  map[string]map[string]int64{},
		pending:  map[string]map[string]int64{},
		groups:   map[string]*entity.Group{},
		groupSeq: map[string]int64{},
		posts:    map[string]*postRecord{},
		comments: map[string]*entity.Comment{},
		cmtSeq:   map[string]int64{},
		sessions: map[string]sessionRecord{},
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Users() *UserRepository             { return &UserRepository{s: s} }
func (s *Store) Relations() *RelationshipRepository { return &RelationshipRepository{s: s} }
func (s *Store) Groups() *GroupRepository           { return &GroupRepository{s: s} }
func (s *Store) Posts() *PostRepository             { return &PostRepository{s: s} }
func (s *Store) Comments() *CommentRepository       { return &CommentRepository{s: s} }
func (s *Store) Sessions() *SessionRepository       { return &SessionRepository{s: s} }

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

func link(m map[string]map[string]int64, a, b string, seq int64) {
	if m[a] == nil {
		m[a] = map[string]int64{}
	}
	m[a][b] = seq
}

func has(m map[string]map[string]int64, a, b string) bool {
	_, ok := m[a][b]
	return ok
}

// sortedKeys returns the keys of set ordered by their sequence numbers
func sortedKeys(set map[string]int64) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return set[out[i]] < set[out[j]] })
	return out
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

func cloneGroup(g *entity.Group) *entity.Group {
	c := *g
	c.Members = append([]string{}, g.Members...)
	return &c
}

func (s *Store) usersByIDs(ids []string) []*entity.User {
	out := make([]*entity.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out
}

var (
	_ repository.UserRepository         = (*UserRepository)(nil)
	_ repository.RelationshipRepository = (*RelationshipRepository)(nil)
	_ repository.GroupRepository        = (*GroupRepository)(nil)
	_ repository.PostRepository         = (*PostRepository)(nil)
	_ repository.CommentRepository      = (*CommentRepository)(nil)
	_ repository.SessionRepository      = (*SessionRepository)(nil)
)
