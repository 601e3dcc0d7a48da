package app_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"phonebook_backend/internal/auth"
	"phonebook_backend/internal/imageprocessor"
	"phonebook_backend/internal/models"
	"phonebook_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// registerAndVerify drives a user through the full registration flow
// over HTTP, pulling the verification token from the mail fake.
func registerAndVerify(t *testing.T, ts *testutil.TestServer, email, password string) {
	t.Helper()

	res, body := ts.SendRequest(t, "POST", "/register", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	token := ts.Mailer.Sent[len(ts.Mailer.Sent)-1].Token
	require.NotEmpty(t, token)

	res, body = ts.SendRequest(t, "GET", "/verify/"+token, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
}

func login(t *testing.T, ts *testutil.TestServer, email, password string) string {
	t.Helper()

	res, body := ts.SendRequest(t, "POST", "/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var parsed struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &parsed))
	require.NotEmpty(t, parsed.Token)
	return parsed.Token
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	ts := testutil.NewTestServer(t)

	res, body := ts.SendRequest(t, "POST", "/register", "", map[string]string{
		"email":    "user@test.com",
		"password": "super_password123",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Contains(t, body, `"email":"user@test.com"`)
	assert.Contains(t, body, `"subscription":"starter"`)

	res, body = ts.SendRequest(t, "POST", "/register", "", map[string]string{
		"email":    "user@test.com",
		"password": "other_password",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, body, "Email in use")
}

func TestRegister_InvalidBody(t *testing.T) {
	ts := testutil.NewTestServer(t)

	res, _ := ts.SendRequest(t, "POST", "/register", "", map[string]string{
		"email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestLogin_RequiresVerification(t *testing.T) {
	ts := testutil.NewTestServer(t)

	res, _ := ts.SendRequest(t, "POST", "/register", "", map[string]string{
		"email":    "user@test.com",
		"password": "super_password123",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	// Correct credentials, unverified account: the distinct 401.
	res, body := ts.SendRequest(t, "POST", "/login", "", map[string]string{
		"email":    "user@test.com",
		"password": "super_password123",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Contains(t, body, "Please verify your email")

	// Wrong password keeps the generic message.
	res, body = ts.SendRequest(t, "POST", "/login", "", map[string]string{
		"email":    "user@test.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Contains(t, body, "Email or password is wrong")

	// Verify through the mailed link, then the same login succeeds.
	token := ts.Mailer.Sent[0].Token
	res, _ = ts.SendRequest(t, "GET", "/verify/"+token, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	login(t, ts, "user@test.com", "super_password123")
}

func TestVerify_UnknownToken(t *testing.T) {
	ts := testutil.NewTestServer(t)

	res, body := ts.SendRequest(t, "GET", "/verify/no-such-token", "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Contains(t, body, "User not found")
}

func TestResendVerification(t *testing.T) {
	ts := testutil.NewTestServer(t)

	res, _ := ts.SendRequest(t, "POST", "/register", "", map[string]string{
		"email":    "user@test.com",
		"password": "super_password123",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res, body := ts.SendRequest(t, "POST", "/verify", "", map[string]string{"email": "user@test.com"})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Verification email sent")

	res, _ = ts.SendRequest(t, "POST", "/verify", "", map[string]string{"email": "nobody@test.com"})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	token := ts.Mailer.Sent[0].Token
	res, _ = ts.SendRequest(t, "GET", "/verify/"+token, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, body = ts.SendRequest(t, "POST", "/verify", "", map[string]string{"email": "user@test.com"})
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Contains(t, body, "already been passed")
}

func TestProtectedRoutes_RejectBadTokens(t *testing.T) {
	ts := testutil.NewTestServer(t)
	registerAndVerify(t, ts, "user@test.com", "super_password123")

	// Missing and malformed tokens short-circuit before any handler.
	res, _ := ts.SendRequest(t, "GET", "/current", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = ts.SendRequest(t, "GET", "/current", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	// An expired token with the right secret is still rejected.
	var user models.User
	require.NoError(t, ts.DB.First(&user, "email = ?", "user@test.com").Error)
	expired := auth.NewTokenManager(ts.Cfg.JWT.Secret, -time.Hour)
	expiredToken, err := expired.Issue(user.ID)
	require.NoError(t, err)

	res, _ = ts.SendRequest(t, "GET", "/current", expiredToken, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestCurrentAndSubscription(t *testing.T) {
	ts := testutil.NewTestServer(t)
	registerAndVerify(t, ts, "user@test.com", "super_password123")
	token := login(t, ts, "user@test.com", "super_password123")

	res, body := ts.SendRequest(t, "GET", "/current", token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `"email":"user@test.com"`)
	assert.Contains(t, body, `"subscription":"starter"`)

	res, body = ts.SendRequest(t, "PATCH", "/", token, map[string]string{"subscription": "pro"})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `"subscription":"pro"`)

	// Only the three known tiers are accepted.
	res, _ = ts.SendRequest(t, "PATCH", "/", token, map[string]string{"subscription": "platinum"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestLogout_InvalidatesToken(t *testing.T) {
	ts := testutil.NewTestServer(t)
	registerAndVerify(t, ts, "user@test.com", "super_password123")
	token := login(t, ts, "user@test.com", "super_password123")

	res, _ := ts.SendRequest(t, "POST", "/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	// The signature is still valid, the session is not.
	res, _ = ts.SendRequest(t, "GET", "/current", token, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestStaleSessionTokenRejected(t *testing.T) {
	ts := testutil.NewTestServer(t)
	registerAndVerify(t, ts, "user@test.com", "super_password123")
	token := login(t, ts, "user@test.com", "super_password123")

	// Simulate a newer login elsewhere: the stored token moves on.
	require.NoError(t, ts.DB.Model(&models.User{}).
		Where("email = ?", "user@test.com").
		Update("token", "a-newer-session-token").Error)

	res, _ := ts.SendRequest(t, "GET", "/current", token, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestContacts_OwnershipOverHTTP(t *testing.T) {
	ts := testutil.NewTestServer(t)
	registerAndVerify(t, ts, "alice@test.com", "password_alice")
	registerAndVerify(t, ts, "bob@test.com", "password_bob")
	aliceToken := login(t, ts, "alice@test.com", "password_alice")
	bobToken := login(t, ts, "bob@test.com", "password_bob")

	res, body := ts.SendRequest(t, "POST", "/contacts", aliceToken, map[string]interface{}{
		"name":  "Carol",
		"email": "carol@test.com",
		"phone": "123-456",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	require.NotEmpty(t, created.ID)

	// The owner is never serialized.
	assert.NotContains(t, body, "owner")

	// Bob gets 404 on every operation against Alice's contact.
	res, _ = ts.SendRequest(t, "GET", "/contacts/"+created.ID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = ts.SendRequest(t, "PATCH", "/contacts/"+created.ID, bobToken, map[string]string{"name": "Hacked"})
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = ts.SendRequest(t, "DELETE", "/contacts/"+created.ID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	// Alice has full access.
	res, body = ts.SendRequest(t, "GET", "/contacts/"+created.ID, aliceToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Carol")

	res, body = ts.SendRequest(t, "PATCH", "/contacts/"+created.ID+"/favorite", aliceToken, map[string]bool{"favorite": true})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `"favorite":true`)

	res, body = ts.SendRequest(t, "DELETE", "/contacts/"+created.ID, aliceToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, created.ID)
}

func TestContacts_PaginationOverHTTP(t *testing.T) {
	ts := testutil.NewTestServer(t)
	registerAndVerify(t, ts, "alice@test.com", "password_alice")
	token := login(t, ts, "alice@test.com", "password_alice")

	for i := 0; i < 25; i++ {
		res, _ := ts.SendRequest(t, "POST", "/contacts", token, map[string]string{
			"name": "Contact",
		})
		require.Equal(t, http.StatusCreated, res.StatusCode)
	}

	res, body := ts.SendRequest(t, "GET", "/contacts?page=2&limit=20", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var contacts []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &contacts))
	assert.Len(t, contacts, 5)
}

func uploadAvatar(t *testing.T, ts *testutil.TestServer, token, fieldName string) (*http.Response, string) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for x := 0; x < 64; x++ {
		for y := 0; y < 48; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 50, B: 50, A: 255})
		}
	}

	var fileBuf bytes.Buffer
	require.NoError(t, png.Encode(&fileBuf, img))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(fieldName, "me.png")
	require.NoError(t, err)
	_, err = part.Write(fileBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest("PATCH", ts.Server.URL+"/avatars", &body)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err)
	resBody := new(bytes.Buffer)
	_, err = resBody.ReadFrom(res.Body)
	require.NoError(t, err)
	res.Body.Close()

	return res, resBody.String()
}

func TestAvatarUpload_RoundTrip(t *testing.T) {
	ts := testutil.NewTestServer(t)
	registerAndVerify(t, ts, "user@test.com", "super_password123")
	token := login(t, ts, "user@test.com", "super_password123")

	var before models.User
	require.NoError(t, ts.DB.First(&before, "email = ?", "user@test.com").Error)

	res, body := uploadAvatar(t, ts, token, "avatar")
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var parsed struct {
		AvatarURL string `json:"avatarURL"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &parsed))
	require.True(t, strings.HasPrefix(parsed.AvatarURL, "/avatars/"))
	assert.NotEqual(t, before.AvatarURL, parsed.AvatarURL)

	// The stored file is the fixed 250x250 square.
	stored := filepath.Join(ts.Cfg.Storage.AvatarDir, filepath.Base(parsed.AvatarURL))
	f, err := os.Open(stored)
	require.NoError(t, err)
	defer f.Close()
	w, h, err := imageprocessor.Dimensions(f)
	require.NoError(t, err)
	assert.Equal(t, imageprocessor.AvatarSize, w)
	assert.Equal(t, imageprocessor.AvatarSize, h)

	// No orphaned temp upload remains.
	entries, err := os.ReadDir(ts.Cfg.Storage.TmpDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// The processed avatar is served statically.
	res, err = ts.Server.Client().Get(ts.Server.URL + parsed.AvatarURL)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestAvatarUpload_MissingFile(t *testing.T) {
	ts := testutil.NewTestServer(t)
	registerAndVerify(t, ts, "user@test.com", "super_password123")
	token := login(t, ts, "user@test.com", "super_password123")

	res, body := uploadAvatar(t, ts, token, "not-avatar")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, "Avatar not uploaded")
}

func TestAvatarUpload_GarbageFileCleansTemp(t *testing.T) {
	ts := testutil.NewTestServer(t)
	registerAndVerify(t, ts, "user@test.com", "super_password123")
	token := login(t, ts, "user@test.com", "super_password123")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("avatar", "junk.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("this is not an image"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest("PATCH", ts.Server.URL+"/avatars", &body)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// The temp upload is removed on the failure path too.
	entries, err := os.ReadDir(ts.Cfg.Storage.TmpDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
