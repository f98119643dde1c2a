// Package testutil holds database and token fixtures shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Kariqs/amexan-eats/initializers"
	"github.com/Kariqs/amexan-eats/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const TestSecret = "test-secret"

// OpenDB creates a migrated sqlite database under t.TempDir().
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := initializers.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, initializers.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func CreateFood(t *testing.T, db *gorm.DB, name, price string) models.Food {
	t.Helper()
	food := models.Food{Name: name, Price: decimal.RequireFromString(price)}
	require.NoError(t, db.Create(&food).Error)
	return food
}

func CreateUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Email: email, Role: "user", AccountActivated: true}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// Token signs a HS256 token for subject with TestSecret.
func Token(t *testing.T, subject, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   subject,
		"email": subject + "@example.com",
		"role":  role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(TestSecret))
	require.NoError(t, err)
	return signed
}
