package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faturadash/internal/models"
)

func TestUpsertKeysOnOpenID(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	require.NoError(t, repo.Upsert(&models.User{OpenID: "abc", Name: "First", Role: "user"}))
	require.NoError(t, repo.Upsert(&models.User{OpenID: "abc", Name: "Second", Role: "user"}))

	user, err := repo.FindByOpenID("abc")
	require.NoError(t, err)
	assert.Equal(t, "Second", user.Name)
	assert.False(t, user.LastSignedIn.IsZero())

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
