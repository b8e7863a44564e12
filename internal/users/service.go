package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/db"
	"portfolio-backend/internal/validation"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already registered")
)

type Service struct {
	repo     Repository
	tokens   *auth.Manager
	val      *validation.Validator
	location *time.Location
}

func NewService(repo Repository, tokens *auth.Manager, val *validation.Validator, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		val:      val,
		location: location,
	}
}

// Authenticate checks email and password against the stored bcrypt hash and
// issues a session token. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, req LoginRequest) (LoginResult, error) {
	if err := s.val.Check(req); err != nil {
		return LoginResult{}, err
	}

	user, err := s.repo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, db.Classify(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, req.Password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.NewAccessToken(user.ID, user.Role)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{User: user.Principal(), Token: token}, nil
}

// Resolve maps a session token back to a principal. Tokens for users that no
// longer exist are rejected.
func (s *Service) Resolve(ctx context.Context, token string) (*auth.Principal, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrInvalidToken
		}
		return nil, db.Classify(err)
	}
	return user.Principal(), nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (User, error) {
	req.Email = normalizeEmail(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if err := s.val.Check(req); err != nil {
		return User{}, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           primitive.NewObjectID().Hex(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		CreatedAt:    time.Now().In(s.location),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return User{}, ErrDuplicateEmail
		}
		return User{}, db.Classify(err)
	}
	return user, nil
}

// Usernames serves blog author lookups.
func (s *Service) Usernames(ctx context.Context, ids []string) (map[string]string, error) {
	names, err := s.repo.Usernames(ctx, ids)
	return names, db.Classify(err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
