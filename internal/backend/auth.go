package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/templui/inkpost/internal/model"
	"github.com/templui/inkpost/internal/repository"
	"github.com/templui/inkpost/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrEmailAlreadyExists = errors.New("user already registered")
)

// Auth is the self-hosted auth backend. Sessions are HS256 JWTs held by a
// Keeper; every change is announced on the Feed.
type Auth struct {
	users     repository.UserRepository
	keeper    Keeper
	feed      Feed
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuth(users repository.UserRepository, keeper Keeper, feed Feed, jwtSecret string, jwtExpiry time.Duration) *Auth {
	return &Auth{
		users:     users,
		keeper:    keeper,
		feed:      feed,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// Session returns the identity of the stored session, or nil when there is
// none. An expired or tampered token is discarded.
func (a *Auth) Session(ctx context.Context) (*model.Identity, error) {
	token, err := a.keeper.Load(ctx)
	if errors.Is(err, ErrNoSession) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	identity, err := a.VerifyJWT(token)
	if err != nil {
		slog.Debug("discarding stored session", "error", err)
		if err := a.keeper.Clear(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return identity, nil
}

// OnAuthStateChange registers fn for every later auth event.
func (a *Auth) OnAuthStateChange(fn func(model.AuthEvent)) model.Subscription {
	return a.feed.Subscribe(fn)
}

// SignUp creates the account and signs it in.
func (a *Auth) SignUp(ctx context.Context, email, password string) (*model.Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
	}

	err = a.users.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, ErrEmailAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user signed up", "user_id", user.ID)

	return a.startSession(ctx, user)
}

func (a *Auth) SignIn(ctx context.Context, email, password string) (*model.Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := a.users.ByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := ComparePassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return a.startSession(ctx, user)
}

// SignOut drops the stored session and announces it.
func (a *Auth) SignOut(ctx context.Context) error {
	if err := a.keeper.Clear(ctx); err != nil {
		return err
	}

	return a.feed.Publish(ctx, model.AuthEvent{Kind: model.AuthEventSignedOut})
}

// Refresh reissues the stored token with a fresh expiry.
func (a *Auth) Refresh(ctx context.Context) (*model.Identity, error) {
	identity, err := a.Session(ctx)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, ErrNoSession
	}

	token, err := a.GenerateJWT(identity)
	if err != nil {
		return nil, err
	}
	if err := a.keeper.Save(ctx, token); err != nil {
		return nil, err
	}

	err = a.feed.Publish(ctx, model.AuthEvent{Kind: model.AuthEventTokenRefreshed, Identity: identity})
	if err != nil {
		return nil, err
	}
	return identity, nil
}

func (a *Auth) startSession(ctx context.Context, user *model.User) (*model.Identity, error) {
	identity := user.Identity()

	token, err := a.GenerateJWT(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	if err := a.keeper.Save(ctx, token); err != nil {
		return nil, err
	}

	err = a.feed.Publish(ctx, model.AuthEvent{Kind: model.AuthEventSignedIn, Identity: identity})
	if err != nil {
		// A token nobody was told about would sign the next run in.
		if clearErr := a.keeper.Clear(ctx); clearErr != nil {
			slog.Error("failed to drop unannounced session", "user_id", identity.ID, "error", clearErr)
		}
		return nil, err
	}

	return identity, nil
}

func (a *Auth) GenerateJWT(identity *model.Identity) (string, error) {
	claims := jwt.MapClaims{
		"user_id": identity.ID,
		"email":   identity.Email,
		"exp":     time.Now().Add(a.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(a.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (a *Auth) VerifyJWT(tokenString string) (*model.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(a.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	userID, _ := claims["user_id"].(string)
	email, _ := claims["email"].(string)
	if userID == "" {
		return nil, fmt.Errorf("invalid token: missing user_id")
	}

	return &model.Identity{ID: userID, Email: email}, nil
}

func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
