package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/config"
	"fintrack/middleware"
	"fintrack/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setUserIDMiddleware(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
	}
}

func TestAuthHandler_RegisterAndLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	middleware.InitJWT(cfg)
	st := store.NewMemoryStore()
	handler := NewAuthHandler(cfg, st, st)

	router := gin.New()
	router.POST("/register", handler.Register)
	router.POST("/login", handler.Login)

	// 注册
	body := `{"username":"alice","password":"secret123","email":"alice@example.com"}`
	req := httptest.NewRequest("POST", "/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "注册成功", resp["message"])
	// 响应中不回显密码
	assert.NotContains(t, w.Body.String(), "secret123")

	// 注册时初始化默认类别
	cats, err := st.ListCategories(1)
	require.NoError(t, err)
	assert.Len(t, cats, 6)

	// 重复注册
	req = httptest.NewRequest("POST", "/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, 400, w.Code)

	// 登录成功返回 token
	req = httptest.NewRequest("POST", "/login", bytes.NewBufferString(`{"username":"alice","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)

	claims, err := middleware.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)

	// 密码错误与用户不存在返回同样的 401
	for _, body := range []string{
		`{"username":"alice","password":"wrong"}`,
		`{"username":"nobody","password":"secret123"}`,
	} {
		req = httptest.NewRequest("POST", "/login", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, 401, w.Code)
		assert.Contains(t, w.Body.String(), "用户名或密码错误")
	}
}

func TestAuthHandler_GetProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	st := store.NewMemoryStore()
	handler := NewAuthHandler(cfg, st, st)

	router := gin.New()
	router.Use(setUserIDMiddleware(42))
	router.GET("/profile", handler.GetProfile)

	// 用户不存在
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/profile", nil))
	assert.Equal(t, 404, w.Code)
}
