package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"healthai-backend/internal/apperr"
	"healthai-backend/internal/config"
)

type Service interface {
	Register(ctx context.Context, name, email, password string) (*User, string, error)
	Login(ctx context.Context, email, password string) (*User, string, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	ListUsers(ctx context.Context, actor Identity) ([]User, error)
	UpdateProfile(ctx context.Context, actor Identity, name, email string) (*User, error)
	ParseToken(token string) (Identity, error)
}

type service struct {
	repo Repository
	cfg  config.JWTConfig
}

func NewService(repo Repository, cfg config.JWTConfig) Service {
	return &service{repo: repo, cfg: cfg}
}

type sessionClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func (s *service) Register(ctx context.Context, name, email, password string) (*User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, "", apperr.Validation("name and email are required")
	}
	if len(password) < 6 {
		return nil, "", apperr.Validation("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	u := &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         RolePatient,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, "", apperr.Permission("invalid email or password")
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", apperr.Permission("invalid email or password")
	}

	token, err := s.issueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListUsers(ctx context.Context, actor Identity) ([]User, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Permission("admin access required")
	}
	return s.repo.List(ctx)
}

// UpdateProfile lets a signed-in user change their own name and email.
// Role and password are out of scope here.
func (s *service) UpdateProfile(ctx context.Context, actor Identity, name, email string) (*User, error) {
	if actor.Anonymous() {
		return nil, apperr.Permission("authentication required")
	}
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, apperr.Validation("name and email are required")
	}

	u, err := s.repo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	u.Name = name
	u.Email = email
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) issueToken(u *User) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Name:  u.Name,
		Email: u.Email,
		Role:  string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenExpire)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
}

func (s *service) ParseToken(tokenStr string) (Identity, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return Identity{}, apperr.Permission("invalid or expired session")
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, apperr.Permission("invalid session subject")
	}
	return Identity{ID: id, Name: claims.Name, Email: claims.Email, Role: Role(claims.Role)}, nil
}
