package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"civic-report-service/apperrors"
	"civic-report-service/models"

	"github.com/apex/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Admin tokens expire after a week; dashboards re-login rather than refresh.
const tokenTTL = 7 * 24 * time.Hour

// AdminAuthService handles admin credentials and bearer tokens
type AdminAuthService struct {
	db        *sql.DB
	jwtSecret []byte
}

// NewAdminAuthService creates an admin auth service instance
func NewAdminAuthService(db *sql.DB, jwtSecret string) *AdminAuthService {
	return &AdminAuthService{
		db:        db,
		jwtSecret: []byte(jwtSecret),
	}
}

// Login validates a username/password pair against the stored bcrypt hash.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *AdminAuthService) Login(ctx context.Context, username, password string) (*models.Admin, error) {
	var id, passwordHash string
	var createdAt time.Time

	err := s.db.QueryRowContext(ctx,
		"SELECT id, password_hash, created_at FROM admins WHERE username = ?",
		username).Scan(&id, &passwordHash, &createdAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return nil, apperrors.Unauthorized("Invalid credentials")
	}

	return &models.Admin{ID: id, Username: username, CreatedAt: createdAt}, nil
}

// GenerateToken issues a signed bearer token for the given admin
func (s *AdminAuthService) GenerateToken(adminID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":  adminID,
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// ValidateToken verifies a bearer token and returns the admin id it carries
func (s *AdminAuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", apperrors.Unauthorized("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperrors.Unauthorized("Invalid or expired token")
	}
	adminID, ok := claims["id"].(string)
	if !ok || adminID == "" {
		return "", apperrors.Unauthorized("Invalid or expired token")
	}

	return adminID, nil
}

// EnsureDefaultAdmin seeds the configured admin account when it is absent.
// Called at startup so a fresh deployment has a usable login.
func (s *AdminAuthService) EnsureDefaultAdmin(ctx context.Context, username, password string) error {
	var existing string
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM admins WHERE username = ?", username).Scan(&existing)
	if err == nil {
		log.Debugf("Admin %q already exists", username)
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check admin existence: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO admins (id, username, password_hash) VALUES (?, ?, ?)",
		uuid.NewString(), username, string(hash))
	if err != nil {
		return fmt.Errorf("failed to insert admin: %w", err)
	}

	log.Infof("Seeded default admin %q", username)
	return nil
}
