package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	userrepo "github.com/yungbote/bookshelf-backend/internal/data/repos/user"
	usertypes "github.com/yungbote/bookshelf-backend/internal/domain/user"
	"github.com/yungbote/bookshelf-backend/internal/platform/ctxutil"
	"github.com/yungbote/bookshelf-backend/internal/platform/dbctx"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthService interface {
	Register(ctx context.Context, username, password string) (*usertypes.User, error)
	Login(ctx context.Context, username, password string) (TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	Logout(ctx context.Context) error
	// LogoutAll revokes every session of the calling user, not just the one
	// behind the presented token.
	LogoutAll(ctx context.Context) error
	// SetContextFromToken validates the bearer token and attaches the caller
	// identity to the context for downstream handlers.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	AccessTTL() time.Duration
}

type jwtClaims struct {
	TokenID string `json:"tid"`
	jwt.RegisteredClaims
}

type authService struct {
	db         *gorm.DB
	log        *logger.Logger
	users      userrepo.UserRepo
	tokens     userrepo.UserTokenRepo
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	users userrepo.UserRepo,
	tokens userrepo.UserTokenRepo,
	jwtSecret string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:         db,
		log:        log.With("service", "AuthService"),
		users:      users,
		tokens:     tokens,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *authService) AccessTTL() time.Duration { return s.accessTTL }

func (s *authService) Register(ctx context.Context, username, password string) (*usertypes.User, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return nil, fmt.Errorf("username must be at least 3 characters")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	exists, err := s.users.UsernameExists(dbctx.Context{Ctx: ctx}, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	row := &usertypes.User{Username: username, Password: string(hash)}
	if _, err := s.users.Create(dbctx.Context{Ctx: ctx}, []*usertypes.User{row}); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user registered", "user_id", row.ID)
	return row, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (TokenPair, error) {
	username = strings.TrimSpace(username)
	found, err := s.users.GetByUsername(dbctx.Context{Ctx: ctx}, username)
	if err != nil {
		return TokenPair{}, fmt.Errorf("look up user: %w", err)
	}
	if found == nil {
		return TokenPair{}, fmt.Errorf("invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(found.Password), []byte(password)); err != nil {
		return TokenPair{}, fmt.Errorf("invalid username or password")
	}

	var pair TokenPair
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		// Drop tokens that already expired so they do not pile up.
		existing, err := s.tokens.GetByUserID(dbc, found.ID)
		if err != nil {
			return fmt.Errorf("load user tokens: %w", err)
		}
		var expired []uuid.UUID
		for _, tok := range existing {
			if tok.ExpiresAt.Before(time.Now()) {
				expired = append(expired, tok.ID)
			}
		}
		if len(expired) > 0 {
			if err := s.tokens.FullDeleteByIDs(dbc, expired); err != nil {
				return fmt.Errorf("delete expired tokens: %w", err)
			}
		}
		out, err := s.issueTokens(dbc, found.ID)
		if err != nil {
			return err
		}
		pair = out
		return nil
	})
	if err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return TokenPair{}, fmt.Errorf("missing refresh token")
	}

	var pair TokenPair
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		existing, err := s.tokens.GetByRefreshToken(dbc, refreshToken)
		if err != nil {
			return fmt.Errorf("look up refresh token: %w", err)
		}
		if existing == nil {
			return fmt.Errorf("unknown refresh token")
		}
		if existing.ExpiresAt.Before(time.Now()) {
			_ = s.tokens.FullDeleteByIDs(dbc, []uuid.UUID{existing.ID})
			return fmt.Errorf("refresh token expired")
		}
		out, err := s.issueTokens(dbc, existing.UserID)
		if err != nil {
			return err
		}
		// Rotate: the old refresh token is single use.
		if err := s.tokens.FullDeleteByIDs(dbc, []uuid.UUID{existing.ID}); err != nil {
			return fmt.Errorf("delete rotated token: %w", err)
		}
		pair = out
		return nil
	})
	if err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

func (s *authService) Logout(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TokenID == uuid.Nil {
		return fmt.Errorf("no authenticated session in context")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		return s.tokens.FullDeleteByIDs(dbc, []uuid.UUID{rd.TokenID})
	})
}

func (s *authService) LogoutAll(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return fmt.Errorf("no authenticated session in context")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		return s.tokens.FullDeleteByUserID(dbc, rd.UserID)
	})
}

func (s *authService) issueTokens(dbc dbctx.Context, userID uuid.UUID) (TokenPair, error) {
	tokenID := uuid.New()
	now := time.Now()
	claims := jwtClaims{
		TokenID: tokenID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh := uuid.New().String()
	row := &usertypes.UserToken{
		ID:           tokenID,
		UserID:       userID,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(s.refreshTTL),
	}
	if _, err := s.tokens.Create(dbc, []*usertypes.UserToken{row}); err != nil {
		return TokenPair{}, fmt.Errorf("store user token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return ctx, fmt.Errorf("missing token")
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return ctx, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok || !parsed.Valid {
		return ctx, fmt.Errorf("invalid token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid subject in token: %w", err)
	}
	tokenID, err := uuid.Parse(claims.TokenID)
	if err != nil {
		return ctx, fmt.Errorf("invalid token id in token: %w", err)
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: userID, TokenID: tokenID}), nil
}
