package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/swiftshop/swiftshop-backend/internal/users"
	pkgAuth "github.com/swiftshop/swiftshop-backend/pkg/auth"
	"github.com/swiftshop/swiftshop-backend/pkg/config"
	"github.com/swiftshop/swiftshop-backend/pkg/db/models"
	"github.com/swiftshop/swiftshop-backend/pkg/enums"
)

var authTestJWT = config.JWTConfig{
	Secret:          "test-secret",
	Issuer:          "swiftshop",
	ExpirationHours: 1,
}

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'client',
			is_blocked INTEGER NOT NULL DEFAULT 0,
			avatar_url TEXT,
			phone TEXT,
			country TEXT,
			state TEXT,
			city TEXT,
			street TEXT,
			number TEXT,
			reference TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)
	`).Error
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, dbErr := db.DB()
		require.NoError(t, dbErr)
		require.NoError(t, sqlDB.Close())
	})

	return db
}

func mintTestToken(t *testing.T, userID int64, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(authTestJWT, time.Now(), pkgAuth.AccessTokenPayload{UserID: userID, Role: role})
	require.NoError(t, err)
	return token
}

func authHarness(t *testing.T, db *gorm.DB) (http.Handler, *int64) {
	t.Helper()
	var seenUserID int64
	handler := Auth(authTestJWT, users.NewRepository(db), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &seenUserID
}

func TestAuthAcceptsValidToken(t *testing.T) {
	db := setupAuthTestDB(t)
	user := &models.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x", Role: enums.UserRoleClient}
	require.NoError(t, db.Create(user).Error)

	handler, seen := authHarness(t, db)
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, user.ID, enums.UserRoleClient))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, user.ID, *seen)
}

func TestAuthRejectsMissingAndBadTokens(t *testing.T) {
	db := setupAuthTestDB(t)
	handler, _ := authHarness(t, db)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code, "no header")

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code, "garbage token")
}

func TestAuthRejectsDeletedAndBlockedAccounts(t *testing.T) {
	db := setupAuthTestDB(t)
	handler, _ := authHarness(t, db)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, 777, enums.UserRoleClient))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code, "account gone")

	blocked := &models.User{Name: "Bloqueada", Email: "b@example.com", PasswordHash: "x", Role: enums.UserRoleClient, IsBlocked: true}
	require.NoError(t, db.Create(blocked).Error)

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, blocked.ID, enums.UserRoleClient))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code, "blocked account")
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/reports", nil)
	req = req.WithContext(WithIdentity(req.Context(), 1, enums.UserRoleClient))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/reports", nil)
	req = req.WithContext(WithIdentity(req.Context(), 1, enums.UserRoleAdmin))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
