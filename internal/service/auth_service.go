package service

import (
	"context"
	"fmt"
	"strings"

	"garage/internal/auth"
	"garage/internal/domain"
	"garage/internal/dto"
	"garage/internal/store"
)

// AuthService covers account registration and login; everything else in the
// service identifies the user by the token subject only.
type AuthService struct {
	store  *store.Store
	hasher *CredentialHasher
	signer *auth.Signer
}

func NewAuthService(st *store.Store, hasher *CredentialHasher, signer *auth.Signer) *AuthService {
	return &AuthService{store: st, hasher: hasher, signer: signer}
}

func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (dto.TokenResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	switch {
	case name == "":
		return dto.TokenResponse{}, fmt.Errorf("%w: name required", ErrInvalidRequest)
	case email == "" || !strings.ContainsRune(email, '@'):
		return dto.TokenResponse{}, fmt.Errorf("%w: valid email required", ErrInvalidRequest)
	case len(req.Password) < 8:
		return dto.TokenResponse{}, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidRequest)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return dto.TokenResponse{}, err
	}
	usr := &domain.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.store.Users().Create(ctx, usr); err != nil {
		if store.IsDuplicate(err) {
			return dto.TokenResponse{}, domain.ErrEmailTaken
		}
		return dto.TokenResponse{}, err
	}
	return s.tokenResponse(usr)
}

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return dto.TokenResponse{}, domain.ErrInvalidCredentials
	}
	usr, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		// Same error whether the account or the password is wrong.
		return dto.TokenResponse{}, domain.ErrInvalidCredentials
	}
	if !s.hasher.Verify(usr.PasswordHash, req.Password) {
		return dto.TokenResponse{}, domain.ErrInvalidCredentials
	}
	return s.tokenResponse(usr)
}

func (s *AuthService) tokenResponse(usr *domain.User) (dto.TokenResponse, error) {
	token, err := s.signer.Issue(usr.ID)
	if err != nil {
		return dto.TokenResponse{}, err
	}
	return dto.TokenResponse{
		UserID:      usr.ID.String(),
		Name:        usr.Name,
		Email:       usr.Email,
		AccessToken: token,
		ExpiresIn:   int64(s.signer.AccessTTL().Seconds()),
	}, nil
}
