package identity

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tiprecycle/shopd/internal/domain"
	"github.com/tiprecycle/shopd/pkg/common"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func seedAccount(t *testing.T, db *gorm.DB, username, password, role, status string) {
	t.Helper()
	require.NoError(t, db.Create(&domain.SysAccount{
		ID:       common.UUIDint64(),
		Realname: username,
		Username: username,
		Password: common.Sha256Hash(password),
		Role:     role,
		Status:   status,
	}).Error)
}

func TestAuthenticate(t *testing.T) {
	db := newTestDB(t)
	seedAccount(t, db, "admin", "admin123", domain.RoleAdmin, common.ENABLED)
	svc := NewService(NewGormAccountRepository(db))

	role, err := svc.Authenticate(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, role)
}

func TestAuthenticateRecordsLastLogin(t *testing.T) {
	db := newTestDB(t)
	seedAccount(t, db, "admin", "admin123", domain.RoleAdmin, common.ENABLED)
	svc := NewService(NewGormAccountRepository(db))

	_, err := svc.Authenticate(context.Background(), "admin", "admin123")
	require.NoError(t, err)

	var acct domain.SysAccount
	require.NoError(t, db.Where("username = ?", "admin").First(&acct).Error)
	assert.False(t, acct.LastLogin.IsZero())
}

func TestAuthenticateRejections(t *testing.T) {
	db := newTestDB(t)
	seedAccount(t, db, "admin", "admin123", domain.RoleAdmin, common.ENABLED)
	seedAccount(t, db, "former", "former123", domain.RoleStaff, common.DISABLED)
	svc := NewService(NewGormAccountRepository(db))

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "admin124"},
		{"unknown user", "nobody", "admin123"},
		{"disabled account", "former", "former123"},
		{"empty username", "", "admin123"},
		{"empty password", "admin", ""},
		{"case sensitive username", "Admin", "admin123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Authenticate(context.Background(), tc.username, tc.password)
			// Every rejection shape collapses to the same error.
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}
