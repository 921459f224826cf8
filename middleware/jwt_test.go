package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var key = []byte("test-secret")

func sign(t *testing.T, c *Claims, k []byte) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(k)
	require.NoError(t, err)
	return s
}

func claimsFor(username string, exp time.Time) *Claims {
	return &Claims{
		Username:         username,
		UserHash:         UserHashFromUsername(username, key),
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
	}
}

func run(t *testing.T, header string) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var user string
	err := JWT(key)(func(c echo.Context) error {
		user, _ = c.Get("username").(string)
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		return he.Code, ""
	}
	return rec.Code, user
}

func TestJWT(t *testing.T) {
	valid := sign(t, claimsFor("padraic", time.Now().Add(time.Hour)), key)

	code, user := run(t, valid)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "padraic", user)

	code, _ = run(t, "Bearer "+valid)
	assert.Equal(t, http.StatusOK, code)

	code, _ = run(t, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = run(t, sign(t, claimsFor("padraic", time.Now().Add(time.Hour)), []byte("other")))
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = run(t, sign(t, claimsFor("padraic", time.Now().Add(-time.Hour)), key))
	assert.Equal(t, http.StatusUnauthorized, code)

	forged := claimsFor("padraic", time.Now().Add(time.Hour))
	forged.Username = "admin"
	code, _ = run(t, sign(t, forged, key))
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = run(t, "not-a-token")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestUserHashNormalizes(t *testing.T) {
	assert.Equal(t, UserHashFromUsername("Padraic ", key), UserHashFromUsername("padraic", key))
	assert.NotEqual(t, UserHashFromUsername("padraic", key), UserHashFromUsername("padraic", []byte("x")))
}
