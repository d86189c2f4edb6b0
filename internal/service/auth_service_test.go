package service_test

import (
	"context"
	"errors"
	"testing"

	"garage/internal/domain"
	"garage/internal/dto"
	"garage/internal/service"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	reg, err := env.auth.Register(context.Background(), dto.RegisterRequest{
		Name:     "Ada",
		Email:    "Ada@Example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.AccessToken == "" || reg.UserID == "" {
		t.Fatalf("incomplete token response: %+v", reg)
	}
	if reg.Email != "ada@example.com" {
		t.Fatalf("email not lowercased: %q", reg.Email)
	}

	login, err := env.auth.Login(context.Background(), dto.LoginRequest{
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.UserID != reg.UserID {
		t.Fatalf("login resolved a different user")
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []dto.RegisterRequest{
		{Name: "", Email: "a@b.com", Password: "long enough"},
		{Name: "Ada", Email: "", Password: "long enough"},
		{Name: "Ada", Email: "not-an-email", Password: "long enough"},
		{Name: "Ada", Email: "a@b.com", Password: "short"},
	}
	for i, req := range cases {
		if _, err := env.auth.Register(context.Background(), req); !errors.Is(err, service.ErrInvalidRequest) {
			t.Errorf("case %d: expected ErrInvalidRequest, got %v", i, err)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	req := dto.RegisterRequest{Name: "Ada", Email: "dup@example.com", Password: "long enough"}

	if _, err := env.auth.Register(context.Background(), req); err != nil {
		t.Fatalf("first register: %v", err)
	}
	req.Name = "Other"
	if _, err := env.auth.Register(context.Background(), req); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.auth.Register(context.Background(), dto.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "correct horse",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	cases := []dto.LoginRequest{
		{Email: "ada@example.com", Password: "wrong"},
		{Email: "nobody@example.com", Password: "correct horse"},
		{Email: "", Password: ""},
	}
	for i, req := range cases {
		if _, err := env.auth.Login(context.Background(), req); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("case %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}
}
