package services

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Name:  "Sanjay",
		Email: "Sanjay@Example.COM",
		DOB:   "2001-05-14",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected registered user to get an id")
	}
	if user.Email != "sanjay@example.com" {
		t.Fatalf("expected email to be lowercased, got %q", user.Email)
	}

	got, err := svc.Login(ctx, LoginInput{Email: "SANJAY@example.com", DOB: "2001-05-14"})
	if err != nil {
		t.Fatalf("Login with differently-cased email: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("Login returned user %d, want %d", got.ID, user.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	input := RegisterInput{Name: "A", Email: "a@example.com", DOB: "2000-01-01"}
	if _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	input.Email = "A@EXAMPLE.com"
	if _, err := svc.Register(ctx, input); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginWrongBirthdate(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", DOB: "2000-01-01"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name  string
		email string
		dob   string
	}{
		{"wrong dob", "a@example.com", "2000-01-02"},
		{"different format", "a@example.com", "01-01-2000"},
		{"unknown email", "b@example.com", "2000-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Login(ctx, LoginInput{Email: tt.email, DOB: tt.dob}); !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}
