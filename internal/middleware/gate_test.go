package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ghaggin/taskboard/internal/auth"
	"github.com/ghaggin/taskboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func runGate(t *testing.T, tokens *auth.Tokens, cookie string) (*httptest.ResponseRecorder, *model.Identity) {
	t.Helper()

	req, err := http.NewRequest("GET", "/api/me", nil)
	require.Nil(t, err)
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	rr := httptest.NewRecorder()

	var seen *model.Identity
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		seen = &id
	})

	newGate(tokens, zap.NewNop()).RequireAuth(next).ServeHTTP(rr, req)
	return rr, seen
}

func Test_RequireAuth_admits(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	tokens := auth.NewTokens([]byte("secret"), time.Hour)
	tok, _, err := tokens.Sign(model.Identity{UserID: 3, Username: "alice"})
	require.NoError(err)

	rr, seen := runGate(t, tokens, "theme=dark; token="+tok+"; junk")
	assert.Equal(http.StatusOK, rr.Code)
	require.NotNil(seen)
	assert.Equal(model.Identity{UserID: 3, Username: "alice"}, *seen)
	// the gate never touches the cookie
	assert.Empty(rr.Result().Cookies())
}

func Test_RequireAuth_rejectsAlike(t *testing.T) {
	tokens := auth.NewTokens([]byte("secret"), time.Hour)
	expired := auth.NewTokens([]byte("secret"), -time.Minute)
	oldTok, _, err := expired.Sign(model.Identity{UserID: 1, Username: "alice"})
	require.NoError(t, err)
	forged, _, err := auth.NewTokens([]byte("other"), time.Hour).Sign(model.Identity{UserID: 1})
	require.NoError(t, err)

	cases := map[string]string{
		"no cookie":     "",
		"other cookies": "theme=dark",
		"empty token":   "token=",
		"malformed":     "token=garbage",
		"bad signature": "token=" + forged,
		"expired":       "token=" + oldTok,
	}

	var bodies []string
	for name, cookie := range cases {
		t.Run(name, func(t *testing.T) {
			rr, seen := runGate(t, tokens, cookie)
			assert.Nil(t, seen)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.JSONEq(t, `{"error":"Unauthorized"}`, rr.Body.String())
			bodies = append(bodies, rr.Body.String())
		})
	}
	for _, b := range bodies {
		assert.Equal(t, bodies[0], b)
	}
}

func TestParseCookies(t *testing.T) {
	assert := assert.New(t)

	assert.Empty(ParseCookies(""))
	assert.Equal(map[string]string{
		"a":     "1",
		"token": "x y",
		"eq":    "a=b",
	}, ParseCookies(" a=1 ;novalue; token=x%20y; eq=a=b; =orphan"))

	// bad escapes keep the raw value
	assert.Equal(map[string]string{"k": "%zz"}, ParseCookies("k=%zz"))
}

func TestSetSessionCookie(t *testing.T) {
	assert := assert.New(t)

	rr := httptest.NewRecorder()
	SetSessionCookie(rr, &auth.Session{Token: "abc.def.ghi", ExpiresAt: time.Now().Add(time.Hour)})

	cookies := rr.Result().Cookies()
	if assert.Len(cookies, 1) {
		c := cookies[0]
		assert.Equal(SessionCookie, c.Name)
		assert.Equal("abc.def.ghi", c.Value)
		assert.True(c.HttpOnly)
		assert.False(c.Secure)
		assert.Equal(http.SameSiteLaxMode, c.SameSite)
		assert.Equal(3600, c.MaxAge)
		assert.Equal("/", c.Path)
	}

	rr = httptest.NewRecorder()
	ClearSessionCookie(rr)
	cookies = rr.Result().Cookies()
	if assert.Len(cookies, 1) {
		assert.Equal("", cookies[0].Value)
		assert.Equal(-1, cookies[0].MaxAge)
	}
}
