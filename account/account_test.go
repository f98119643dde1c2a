package account

import (
	"context"
	"testing"

	"github.com/Kariqs/amexan-eats/auth"
	"github.com/Kariqs/amexan-eats/models"
	"github.com/Kariqs/amexan-eats/store/gormstore"
	"github.com/Kariqs/amexan-eats/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_SaveCreatesThenUpdates(t *testing.T) {
	db := testutil.OpenDB(t)
	session := auth.NewSession()
	_, err := session.SignIn(testutil.Token(t, "user-a", "user"))
	require.NoError(t, err)
	s := NewService(gormstore.New(db).As("user-a"), session)
	ctx := context.Background()

	empty, err := s.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-a", empty.ID)
	assert.Empty(t, empty.FullName)

	saved, err := s.SaveProfile(ctx, models.UserProfile{FullName: " Ada Lovelace ", Address: "1 Main St"})
	require.NoError(t, err)
	assert.Equal(t, "user-a", saved.ID)
	assert.Equal(t, "Ada Lovelace", saved.FullName)

	saved, err = s.SaveProfile(ctx, models.UserProfile{FullName: "Ada Lovelace", Address: "2 Side St", Phone: "0700"})
	require.NoError(t, err)
	assert.Equal(t, "2 Side St", saved.Address)
	assert.Equal(t, "0700", saved.Phone)

	var count int64
	db.Model(&models.UserProfile{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestProfile_RequiresIdentity(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(gormstore.New(db), auth.NewSession())

	_, err := s.Profile(context.Background())
	assert.ErrorIs(t, err, auth.ErrNoIdentity)

	_, err = s.SaveProfile(context.Background(), models.UserProfile{FullName: "Ada"})
	assert.ErrorIs(t, err, auth.ErrNoIdentity)
}
