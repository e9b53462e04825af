package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"
	"github.com/pubudu2003060/NoteShare-sub000/internal/core/ports"
	"github.com/pubudu2003060/NoteShare-sub000/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrUnauthorized = errors.New("unauthorized")
)

const (
	tokenUseAccess  = "access"
	tokenUseRefresh = "refresh"
)

// AuthService issues and verifies the two credential kinds: short-lived
// access tokens presented on every request and long-lived refresh tokens held
// in an HTTP-only cookie whose only capability is minting access tokens.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)

	IssueAccessToken(userID domain.UserID, username string) (string, time.Duration, error)
	IssueRefreshToken(userID domain.UserID) (string, time.Duration, error)
	// VerifyAccessToken checks signature, expiry and token use, then confirms
	// the subject still exists. A token for a deleted user fails closed.
	VerifyAccessToken(ctx context.Context, token string) (*Claims, error)
	// VerifyRefreshToken accepts only refresh-use tokens; an access token can
	// never stand in for one.
	VerifyRefreshToken(ctx context.Context, token string) (*Claims, error)
}

type Claims struct {
	UserID   domain.UserID `json:"user_id"`
	Username string        `json:"username"`
	TokenUse string        `json:"token_use"`
	jwt.RegisteredClaims
}

type authService struct {
	jwtSecret       []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	users           ports.UserRepository
}

func NewAuthService(
	jwtSecret string,
	accessTokenTTL time.Duration,
	refreshTokenTTL time.Duration,
	users ports.UserRepository,
) AuthService {
	return &authService{
		jwtSecret:       []byte(jwtSecret),
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
		users:           users,
	}
}

func (s *authService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           domain.UserID(utils.GenerateUserID()),
		Username:     strings.TrimSpace(username),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) IssueAccessToken(userID domain.UserID, username string) (string, time.Duration, error) {
	token, err := s.sign(&Claims{
		UserID:   userID,
		Username: username,
		TokenUse: tokenUseAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	})
	return token, s.accessTokenTTL, err
}

func (s *authService) IssueRefreshToken(userID domain.UserID) (string, time.Duration, error) {
	token, err := s.sign(&Claims{
		UserID:   userID,
		TokenUse: tokenUseRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.refreshTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	})
	return token, s.refreshTokenTTL, err
}

func (s *authService) sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *authService) VerifyAccessToken(ctx context.Context, tokenString string) (*Claims, error) {
	return s.verify(ctx, tokenString, tokenUseAccess)
}

func (s *authService) VerifyRefreshToken(ctx context.Context, tokenString string) (*Claims, error) {
	return s.verify(ctx, tokenString, tokenUseRefresh)
}

func (s *authService) verify(ctx context.Context, tokenString, use string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenUse != use {
		return nil, ErrInvalidToken
	}

	// A credential can outlive its subject; fail closed for deleted users.
	if _, err := s.users.GetByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up token subject: %w", err)
	}

	return claims, nil
}
