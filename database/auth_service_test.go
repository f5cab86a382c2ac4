package database

import (
	"context"
	"testing"
	"time"

	"civic-report-service/apperrors"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-signing-secret"

func adminRow(t *testing.T, password string) *sqlmock.Rows {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return sqlmock.NewRows([]string{"id", "password_hash", "created_at"}).
		AddRow("admin-1", string(hash), time.Now())
}

func TestLogin(t *testing.T) {
	it(func() {
		auth := NewAdminAuthService(db, testSecret)

		mock.ExpectQuery("SELECT id, password_hash, created_at FROM admins").
			WithArgs("admin").
			WillReturnRows(adminRow(t, "admin123"))

		admin, err := auth.Login(context.Background(), "admin", "admin123")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if admin.ID != "admin-1" || admin.Username != "admin" {
			t.Errorf("unexpected admin identity: %+v", admin)
		}
	})
}

func TestLoginWrongPassword(t *testing.T) {
	it(func() {
		auth := NewAdminAuthService(db, testSecret)

		mock.ExpectQuery("SELECT id, password_hash, created_at FROM admins").
			WithArgs("admin").
			WillReturnRows(adminRow(t, "admin123"))

		_, err := auth.Login(context.Background(), "admin", "wrong")
		if !apperrors.IsUnauthorized(err) {
			t.Errorf("expected unauthorized error, got %v", err)
		}
	})
}

func TestLoginUnknownUser(t *testing.T) {
	it(func() {
		auth := NewAdminAuthService(db, testSecret)

		mock.ExpectQuery("SELECT id, password_hash, created_at FROM admins").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"id", "password_hash", "created_at"}))

		_, err := auth.Login(context.Background(), "ghost", "whatever")
		if !apperrors.IsUnauthorized(err) {
			t.Errorf("expected unauthorized error, got %v", err)
		}
	})
}

func TestTokenRoundTrip(t *testing.T) {
	it(func() {
		auth := NewAdminAuthService(db, testSecret)

		token, err := auth.GenerateToken("admin-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		adminID, err := auth.ValidateToken(token)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if adminID != "admin-1" {
			t.Errorf("expected admin-1, got %s", adminID)
		}
	})
}

func TestValidateTokenRejectsBadTokens(t *testing.T) {
	it(func() {
		auth := NewAdminAuthService(db, testSecret)

		expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"id":  "admin-1",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		expiredToken, _ := expired.SignedString([]byte(testSecret))

		foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"id":  "admin-1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		foreignToken, _ := foreign.SignedString([]byte("some-other-secret"))

		tests := []struct {
			name  string
			token string
		}{
			{name: "garbled", token: "not-a-token"},
			{name: "empty", token: ""},
			{name: "expired", token: expiredToken},
			{name: "wrong secret", token: foreignToken},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := auth.ValidateToken(tt.token); !apperrors.IsUnauthorized(err) {
					t.Errorf("expected unauthorized error, got %v", err)
				}
			})
		}
	})
}

func TestEnsureDefaultAdmin(t *testing.T) {
	it(func() {
		auth := NewAdminAuthService(db, testSecret)

		mock.ExpectQuery("SELECT id FROM admins").
			WithArgs("admin").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectExec("INSERT INTO admins").
			WillReturnResult(sqlmock.NewResult(1, 1))

		if err := auth.EnsureDefaultAdmin(context.Background(), "admin", "admin123"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}

func TestEnsureDefaultAdminAlreadyExists(t *testing.T) {
	it(func() {
		auth := NewAdminAuthService(db, testSecret)

		mock.ExpectQuery("SELECT id FROM admins").
			WithArgs("admin").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("admin-1"))

		if err := auth.EnsureDefaultAdmin(context.Background(), "admin", "admin123"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// No insert expected.
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}
