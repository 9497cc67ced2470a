package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"financeirox/config"
	"financeirox/database"
	"financeirox/session"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) sqlmock.Sqlmock {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	old := database.DB
	database.DB = gormDB
	t.Cleanup(func() {
		database.DB = old
		sqlDB.Close()
	})
	return mock
}

func initAuthTestConfig(singleUser string) {
	config.GlobalConfig = &config.Config{
		Server:  config.ServerConfig{Mode: "debug"},
		JWT:     config.JWTConfig{Secret: "test-jwt-secret-key"},
		Session: config.SessionConfig{Secret: "test-session", MaxAge: 7 * 24 * time.Hour, IdleTimeout: 30 * time.Minute},
		Auth:    config.AuthConfig{SingleUserEmail: singleUser},
	}
	InitJWT(config.GlobalConfig)
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth())
	router.GET("/protected", func(c *gin.Context) {
		c.String(200, "%d|%s", GetCurrentUserID(c), GetCurrentUserEmail(c))
	})
	return router
}

func TestAuth_NoCredentials(t *testing.T) {
	initAuthTestConfig("")
	defer func() { config.GlobalConfig = nil }()

	w := httptest.NewRecorder()
	authRouter().ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), MsgUnauthenticated)
}

func TestAuth_Bearer(t *testing.T) {
	initAuthTestConfig("")
	defer func() { config.GlobalConfig = nil }()
	router := authRouter()

	token, err := GenerateToken(42, "Motorista@Example.com", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "42|motorista@example.com", w.Body.String())

	for _, header := range []string{"Basic xyz", "Bearer ", "Bearer invalido"} {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
	}
}

func sessionRequest(userID string, last time.Time) *http.Request {
	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: session.SignValue(userID)})
	req.AddCookie(&http.Cookie{Name: session.LastCookieName, Value: strconv.FormatInt(last.UnixMilli(), 10)})
	return req
}

func TestAuth_SessionCookie(t *testing.T) {
	initAuthTestConfig("")
	defer func() { config.GlobalConfig = nil }()
	mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "email"}).AddRow(7, "ana@example.com")
	mock.ExpectQuery("SELECT `id`,`email` FROM `users`").WillReturnRows(rows)

	w := httptest.NewRecorder()
	authRouter().ServeHTTP(w, sessionRequest("7", time.Now().Add(-5*time.Minute)))
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "7|ana@example.com", w.Body.String())

	// fx_session_last renovado
	var refreshed bool
	for _, c := range w.Result().Cookies() {
		if c.Name == session.LastCookieName && c.Value != "" {
			refreshed = true
		}
	}
	assert.True(t, refreshed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuth_SessionIdleExpired(t *testing.T) {
	initAuthTestConfig("")
	defer func() { config.GlobalConfig = nil }()

	w := httptest.NewRecorder()
	authRouter().ServeHTTP(w, sessionRequest("7", time.Now().Add(-31*time.Minute)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), MsgSessionExpired)

	// cookies apagados
	cleared := 0
	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			cleared++
		}
	}
	assert.Equal(t, 2, cleared)
}

func TestAuth_SessionUnknownUser(t *testing.T) {
	initAuthTestConfig("")
	defer func() { config.GlobalConfig = nil }()
	mock := setupMockDB(t)

	mock.ExpectQuery("SELECT `id`,`email` FROM `users`").WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))

	w := httptest.NewRecorder()
	authRouter().ServeHTTP(w, sessionRequest("99", time.Now()))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuth_SingleUserFallback(t *testing.T) {
	initAuthTestConfig("solo@example.com")
	defer func() { config.GlobalConfig = nil }()
	mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "email"}).AddRow(3, "solo@example.com")
	mock.ExpectQuery("SELECT `id`,`email` FROM `users`").WillReturnRows(rows)

	w := httptest.NewRecorder()
	authRouter().ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "3|solo@example.com", w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCurrentUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, uint(0), GetCurrentUserID(c))
	assert.Equal(t, "", GetCurrentUserEmail(c))

	c.Set("userID", uint(99))
	c.Set("userEmail", "x@y.z")
	assert.Equal(t, uint(99), GetCurrentUserID(c))
	assert.Equal(t, "x@y.z", GetCurrentUserEmail(c))
}
