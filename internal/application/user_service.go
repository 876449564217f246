package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-social/internal/domain/repository"
	"github.com/oksasatya/go-ddd-social/pkg/helpers"
)

// UserService owns the identity store: signup, sessions and profiles.
type UserService struct {
	Repo       repo.UserRepository
	Sessions   repo.SessionRepository
	JWT        *helpers.JWTManager
	Assets     AssetStore
	Index      SearchIndex
	Logger     *logrus.Logger
	SessionTTL time.Duration
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func NewUserService(repo repo.UserRepository, sessions repo.SessionRepository, jwt *helpers.JWTManager, assets AssetStore, index SearchIndex, logger *logrus.Logger, sessionTTL time.Duration) *UserService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &UserService{
		Repo:       repo,
		Sessions:   sessions,
		JWT:        jwt,
		Assets:     assets,
		Index:      index,
		Logger:     logger,
		SessionTTL: sessionTTL,
	}
}

type SignupInput struct {
	Email    string
	Password string
	Name     string
	Age      int
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates a user with a bcrypt-hashed password
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*entity.User, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:    normalizeEmail(in.Email),
		Password: hash,
		Name:     name,
		Age:      in.Age,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.indexUser(ctx, u)
	return u, nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates access/refresh tokens and records the session.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	pair, err := s.tokens(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate tokens failed")
		}
		return TokenPair{}, err
	}
	sess := repo.Session{UserID: u.ID, SessionID: sid, Email: u.Email, Name: u.Name, CreatedAt: time.Now().UTC()}
	if err := s.Sessions.Save(ctx, sess, s.SessionTTL); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

func (s *UserService) tokens(userID, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh validates a refresh token against the live session and rotates both.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	sess, err := s.Sessions.Get(ctx, claims.UserID)
	if err != nil || sess.SessionID != claims.SessionID {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	if _, err := s.Repo.GetByID(ctx, claims.UserID); err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	sid := uuid.NewString()
	pair, err := s.tokens(claims.UserID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	if err := s.Sessions.Rotate(ctx, claims.UserID, sid, s.SessionTTL); err != nil {
		return TokenPair{}, "", err
	}
	return pair, claims.UserID, nil
}

// Logout drops the server-side session so outstanding tokens stop working
func (s *UserService) Logout(ctx context.Context, userID string) error {
	return s.Sessions.Delete(ctx, userID)
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

type UpdateProfileInput struct {
	Name *string
	Age  *int
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	if in.Name != nil {
		name, err := cleanName(*in.Name)
		if err != nil {
			return nil, err
		}
		u.Name = name
	}
	if in.Age != nil {
		u.Age = *in.Age
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, notFound(err, "user")
	}
	s.indexUser(ctx, u)
	return u, nil
}

// UploadAvatar stores the image in the asset store and points the profile at it
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, contentType string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	ref, err := storeImage(ctx, s.Assets, "avatars/"+userID, contentType, r)
	if err != nil {
		return nil, err
	}
	u.ImageRef = ref
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, notFound(err, "user")
	}
	s.indexUser(ctx, u)
	return u, nil
}

// DeleteUser removes the account; relationship rows go with it
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.Repo.Delete(ctx, userID); err != nil {
		return notFound(err, "user")
	}
	if err := s.Sessions.Delete(ctx, userID); err != nil {
		helpers.LogWarn(s.Logger, "session delete failed", err, logrus.Fields{"user_id": userID})
	}
	if s.Index != nil {
		if err := s.Index.DeleteUser(ctx, userID); err != nil {
			helpers.LogWarn(s.Logger, "search delete failed", err, logrus.Fields{"user_id": userID})
		}
	}
	return nil
}

// SearchUsers runs a full-text query against the search index; without an index it returns nothing
func (s *UserService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.Index == nil || strings.TrimSpace(q) == "" {
		return []map[string]any{}, nil
	}
	return s.Index.SearchUsers(ctx, q, size)
}

func (s *UserService) indexUser(ctx context.Context, u *entity.User) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexUser(ctx, u); err != nil {
		helpers.LogWarn(s.Logger, "search index failed", err, logrus.Fields{"user_id": u.ID})
	}
}
