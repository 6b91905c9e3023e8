package api

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/golexcel/golexcel/pkg/auth"
	"github.com/golexcel/golexcel/pkg/model"
)

func TestUpdateProfile_NameOnly(t *testing.T) {
	users := newFakeUsers(&model.User{ID: "u1", Email: "u1@example.com"})
	h := &SettingsHandlers{users: users, creds: auth.NewCredentialStore()}

	req := withSession(httptest.NewRequest("PATCH", "/settings/profile",
		strings.NewReader(`{"name":"New Name"}`)), adminSession("u1"))
	w := httptest.NewRecorder()
	h.UpdateProfile(w, req)

	require.Equal(t, 200, w.Code, w.Body.String())
	upd := users.updated["u1"]
	require.NotNil(t, upd.Name)
	assert.Equal(t, "New Name", *upd.Name)
	assert.Nil(t, upd.PasswordHash)
}

func TestUpdateProfile_PasswordChangeRequiresCurrent(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("old-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	users := newFakeUsers(&model.User{ID: "u1", Email: "u1@example.com", PasswordHash: string(hash)})
	h := &SettingsHandlers{users: users, creds: auth.NewCredentialStore()}

	t.Run("wrong current password changes nothing", func(t *testing.T) {
		req := withSession(httptest.NewRequest("PATCH", "/settings/profile",
			strings.NewReader(`{"current_password":"wrong","new_password":"new-pass"}`)), adminSession("u1"))
		w := httptest.NewRecorder()
		h.UpdateProfile(w, req)

		assert.Equal(t, 400, w.Code)
		assert.Contains(t, w.Body.String(), "Current password is incorrect")
		assert.Empty(t, users.updated)
	})

	t.Run("correct current password rotates the hash", func(t *testing.T) {
		req := withSession(httptest.NewRequest("PATCH", "/settings/profile",
			strings.NewReader(`{"current_password":"old-pass","new_password":"new-pass"}`)), adminSession("u1"))
		w := httptest.NewRecorder()
		h.UpdateProfile(w, req)

		require.Equal(t, 200, w.Code, w.Body.String())
		upd := users.updated["u1"]
		require.NotNil(t, upd.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*upd.PasswordHash), []byte("new-pass")))
	})
}
