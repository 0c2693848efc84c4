package auth

import (
	"context"
	"errors"
	"time"

	"outreach_portal_backend/internal/events"
	"outreach_portal_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// Config is the auth subset of the application configuration.
type Config interface {
	GetJWTAccessSecret() string
	GetAccessTokenTTL() time.Duration
}

type Service struct {
	repo     *Repository
	cfg      Config
	eventBus events.Bus
	log      *logger.Logger
}

func NewService(repo *Repository, cfg Config, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, eventBus: eventBus, log: log}
}

type MemberResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginResult struct {
	AccessToken string         `json:"access_token"`
	ExpiresAt   time.Time      `json:"expires_at"`
	Member      MemberResponse `json:"member"`
}

// Login authenticates an existing member by email and password. Unknown
// emails and inactive accounts fail the same way as a wrong password; no
// account is ever created implicitly here.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	member, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, ErrMemberNotFound) {
		s.log.AuthEvent("login", email, false, "unknown email")
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}
	if !member.IsActive {
		s.log.AuthEvent("login", email, false, "inactive account")
		return LoginResult{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)); err != nil {
		s.log.AuthEvent("login", email, false, "wrong password")
		return LoginResult{}, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.cfg.GetAccessTokenTTL())
	token, err := s.issueAccessToken(member, expiresAt)
	if err != nil {
		return LoginResult{}, err
	}

	s.log.AuthEvent("login", email, true, "")
	s.eventBus.Publish(ctx, events.MemberLoggedIn{
		BaseEvent: events.NewBaseEvent(),
		MemberID:  member.ID,
		Email:     member.Email,
	})

	return LoginResult{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		Member:      toMemberResponse(member),
	}, nil
}

func (s *Service) issueAccessToken(member Member, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   member.ID.String(),
		"email": member.Email,
		"roles": []string{member.Role},
		"type":  "access",
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

// Me returns the profile for the authenticated member id. There is no
// fallback lookup; an unknown id is an error.
func (s *Service) Me(ctx context.Context, memberID uuid.UUID) (MemberResponse, error) {
	member, err := s.repo.FindByID(ctx, memberID)
	if err != nil {
		return MemberResponse{}, err
	}
	return toMemberResponse(member), nil
}

func (s *Service) UpdateMe(ctx context.Context, memberID uuid.UUID, name, email *string) (MemberResponse, error) {
	member, err := s.repo.UpdateProfile(ctx, memberID, name, email)
	if err != nil {
		return MemberResponse{}, err
	}
	return toMemberResponse(member), nil
}

func toMemberResponse(m Member) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Role:      m.Role,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}
