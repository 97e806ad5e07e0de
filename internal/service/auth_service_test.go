package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/domain"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/testutil"
	"golang.org/x/crypto/bcrypt"
)

type stubTokenIssuer struct {
	err error
}

func (s *stubTokenIssuer) Issue(userID uuid.UUID, username string) (string, time.Time, error) {
	if s.err != nil {
		return "", time.Time{}, s.err
	}
	return "token-for-" + username, time.Now().Add(time.Hour), nil
}

func newTestAuthService() (*AuthService, *testutil.MockUserRepository) {
	repo := testutil.NewMockUserRepository()
	return newAuthServiceWithCost(repo, &stubTokenIssuer{}, bcrypt.MinCost), repo
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, repo := newTestAuthService()

	result, err := svc.Register(context.Background(), "  Maria.Souza ", "secret123")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.User.Username != "maria.souza" {
		t.Errorf("Expected normalized username 'maria.souza', got %q", result.User.Username)
	}
	if result.Token != "token-for-maria.souza" {
		t.Errorf("Expected token to be issued, got %q", result.Token)
	}
	if result.User.PasswordHash == "secret123" {
		t.Error("Password must be stored hashed")
	}
	if _, ok := repo.ByUsername["maria.souza"]; !ok {
		t.Error("Expected user to be stored")
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	svc, _ := newTestAuthService()

	if _, err := svc.Register(context.Background(), "maria", "secret123"); err != nil {
		t.Fatalf("First register failed: %v", err)
	}
	_, err := svc.Register(context.Background(), "MARIA", "other-secret")
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Errorf("Expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _ := newTestAuthService()

	tests := []struct {
		name     string
		username string
		password string
		field    string
	}{
		{"short username", "ab", "secret123", "username"},
		{"bad characters", "maria souza", "secret123", "username"},
		{"short password", "maria", "123", "password"},
		{"long password", "maria", string(make([]byte, 73)), "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.username, tt.password)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("Expected ErrInvalidInput, got %v", err)
			}
			var verrs domain.ValidationErrors
			if !errors.As(err, &verrs) || verrs[0].Field != tt.field {
				t.Errorf("Expected field error on %s, got %v", tt.field, err)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newTestAuthService()
	registered, err := svc.Register(context.Background(), "maria", "secret123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	t.Run("correct password", func(t *testing.T) {
		result, err := svc.Login(context.Background(), "Maria", "secret123")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if result.User.ID != registered.User.ID {
			t.Errorf("Expected user %s, got %s", registered.User.ID, result.User.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "maria", "wrong-password")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "nobody", "secret123")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestAuthService_Login_TokenFailure(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	svc := newAuthServiceWithCost(repo, &stubTokenIssuer{}, bcrypt.MinCost)
	if _, err := svc.Register(context.Background(), "maria", "secret123"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	issueErr := errors.New("signer broken")
	svc.tokens = &stubTokenIssuer{err: issueErr}

	if _, err := svc.Login(context.Background(), "maria", "secret123"); !errors.Is(err, issueErr) {
		t.Errorf("Expected signer error, got %v", err)
	}
}

func TestAuthService_UserExists(t *testing.T) {
	svc, _ := newTestAuthService()
	result, err := svc.Register(context.Background(), "maria", "secret123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	exists, err := svc.UserExists(context.Background(), result.User.ID)
	if err != nil || !exists {
		t.Errorf("Expected user to exist, got %v, %v", exists, err)
	}

	exists, err = svc.UserExists(context.Background(), uuid.New())
	if err != nil || exists {
		t.Errorf("Expected unknown user to not exist, got %v, %v", exists, err)
	}
}
