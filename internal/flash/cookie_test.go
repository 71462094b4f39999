package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// carry copies the cookies set on a response onto a follow-up request.
func carry(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range rec.Result().Cookies() {
		if cookie.MaxAge < 0 {
			continue
		}
		req.AddCookie(cookie)
	}
	return req
}

func TestNewCookieStoreRequiresSecret(t *testing.T) {
	_, err := NewCookieStore(" ", false)
	assert.Error(t, err)
}

func TestCookieStoreRoundTrip(t *testing.T) {
	store, err := NewCookieStore("session-secret", true)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, store.Add(rec, httptest.NewRequest(http.MethodGet, "/", nil), "You are now logged in."))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "flash", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)

	next := carry(t, rec)
	popRec := httptest.NewRecorder()
	messages, err := store.Pop(popRec, next)
	require.NoError(t, err)
	assert.Equal(t, []string{"You are now logged in."}, messages)

	cleared := popRec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)
}

func TestCookieStoreAppends(t *testing.T) {
	store, err := NewCookieStore("session-secret", false)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, store.Add(rec, httptest.NewRequest(http.MethodGet, "/", nil), "first"))

	rec2 := httptest.NewRecorder()
	require.NoError(t, store.Add(rec2, carry(t, rec), "second", "third"))

	messages, err := store.Pop(httptest.NewRecorder(), carry(t, rec2))
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, messages)
}

func TestCookieStoreRejectsTampering(t *testing.T) {
	store, err := NewCookieStore("session-secret", false)
	require.NoError(t, err)
	other, err := NewCookieStore("other-secret", false)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, other.Add(rec, httptest.NewRequest(http.MethodGet, "/", nil), "forged"))

	popRec := httptest.NewRecorder()
	messages, err := store.Pop(popRec, carry(t, rec))
	assert.Error(t, err)
	assert.Empty(t, messages)

	cleared := popRec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)
}

func TestCookieStoreAddOverForgedCookie(t *testing.T) {
	store, err := NewCookieStore("session-secret", false)
	require.NoError(t, err)
	other, err := NewCookieStore("other-secret", false)
	require.NoError(t, err)

	forged := httptest.NewRecorder()
	require.NoError(t, other.Add(forged, httptest.NewRequest(http.MethodGet, "/", nil), "forged"))

	rec := httptest.NewRecorder()
	require.NoError(t, store.Add(rec, carry(t, forged), "genuine"))

	messages, err := store.Pop(httptest.NewRecorder(), carry(t, rec))
	require.NoError(t, err)
	assert.Equal(t, []string{"genuine"}, messages)
}

func TestCookieStorePopWithoutCookie(t *testing.T) {
	store, err := NewCookieStore("session-secret", false)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	messages, err := store.Pop(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Empty(t, messages)
	assert.Empty(t, rec.Result().Cookies())
}
