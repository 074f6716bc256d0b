package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"roleauth/internal/domain"
	jwtpkg "roleauth/internal/pkg/jwt"
	"roleauth/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service contains all business logic for registration, login and the
// refresh rotation protocol.
type Service struct {
	users      UserRepositoryInterface
	roles      RoleRepositoryInterface
	ledger     RefreshTokenLedger
	signer     tokenSigner
	refreshTTL time.Duration
	pepper     string
}

func NewService(
	users UserRepositoryInterface,
	roles RoleRepositoryInterface,
	ledger RefreshTokenLedger,
	signer tokenSigner,
	refreshTTL time.Duration,
	pepper string,
) *Service {
	return &Service{
		users:      users,
		roles:      roles,
		ledger:     ledger,
		signer:     signer,
		refreshTTL: refreshTTL,
		pepper:     pepper,
	}
}

// Register creates the user with a bcrypt-hashed password and assigns the
// default role, creating it when absent. Registration does not start a
// session; no tokens are issued.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameExists
	}

	taken, err = s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(req.DisplayName),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	role, err := s.roles.Ensure(ctx, domain.RoleUser, "Default user role")
	if err != nil {
		return nil, err
	}
	if err := s.users.AddRole(ctx, user, role); err != nil {
		return nil, err
	}
	user.Roles = append(user.Roles, *role)

	user.PasswordHash = ""
	return user, nil
}

// Login verifies credentials and issues an access/refresh token pair. An
// unknown username and a wrong password produce the same error so the
// response never reveals whether the account exists.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// Refresh exchanges a still-active refresh token for a new pair. Consuming
// the presented token and storing its successor is the rotation step: every
// refresh invalidates its predecessor, so a stolen token is good for at most
// one use. Role grants since the original login are picked up here because
// the role set is re-read from storage, never cached.
func (s *Service) Refresh(ctx context.Context, refreshRaw string) (*TokenResponse, error) {
	now := time.Now()
	hash := jwtpkg.HashToken(refreshRaw, s.pepper)

	current, err := s.ledger.Consume(ctx, hash, now)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotActive) {
			s.observeReplay(ctx, hash, now)
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	user, err := s.users.GetByID(ctx, current.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Owner is gone; the presented token is already consumed, so the
			// chain simply ends here.
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	resp, successor, err := s.issueTokenPair(ctx, user, now)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.LinkSuccessor(ctx, current.ID, successor.ID); err != nil {
		log.Printf("refresh_rotation link_successor_failed token_id=%d err=%v", current.ID, err)
	}
	return resp, nil
}

// Logout revokes the presented refresh token. Unknown tokens are ignored;
// logout is idempotent.
func (s *Service) Logout(ctx context.Context, refreshRaw string) error {
	hash := jwtpkg.HashToken(refreshRaw, s.pepper)
	return s.ledger.Revoke(ctx, hash, time.Now())
}

func (s *Service) issueTokens(ctx context.Context, user *domain.User) (*TokenResponse, error) {
	resp, _, err := s.issueTokenPair(ctx, user, time.Now())
	return resp, err
}

func (s *Service) issueTokenPair(ctx context.Context, user *domain.User, now time.Time) (*TokenResponse, *domain.RefreshToken, error) {
	accessToken, err := s.signer.Generate(user.ID, user.Username, user.RoleNames())
	if err != nil {
		return nil, nil, err
	}

	refreshRaw, err := jwtpkg.NewRefreshToken()
	if err != nil {
		return nil, nil, err
	}

	record := &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: jwtpkg.HashToken(refreshRaw, s.pepper),
		ExpiresAt: now.Add(s.refreshTTL),
	}
	if err := s.ledger.Create(ctx, record); err != nil {
		return nil, nil, err
	}

	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshRaw,
		ExpiresAt:    now.Add(s.signer.TTL()),
	}, record, nil
}

// observeReplay logs presentations of already-consumed tokens. The ledger
// retains revoked rows precisely so these show up.
func (s *Service) observeReplay(ctx context.Context, hash string, now time.Time) {
	t, err := s.ledger.GetByHash(ctx, hash)
	if err != nil {
		return
	}
	switch {
	case t.IsRevoked():
		log.Printf("refresh_token_replay user_id=%d token_id=%d revoked_at=%s", t.UserID, t.ID, t.RevokedAt.Format(time.RFC3339))
	case t.IsExpired(now):
		log.Printf("refresh_token_expired user_id=%d token_id=%d expires_at=%s", t.UserID, t.ID, t.ExpiresAt.Format(time.RFC3339))
	}
}
