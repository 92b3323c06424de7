package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newInternalAuthRouter(token string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/internal/ping", InternalAuthMiddleware(token), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return r
}

func TestInternalAuthAcceptsConfiguredToken(t *testing.T) {
	r := newInternalAuthRouter("secret-token")

	// 配置加载得到的令牌必须直接生效，不依赖进程环境变量
	req := httptest.NewRequest(http.MethodPost, "/internal/ping", nil)
	req.Header.Set("X-Internal-Auth", "secret-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInternalAuthRejectsBadToken(t *testing.T) {
	r := newInternalAuthRouter("secret-token")

	cases := []struct {
		name   string
		header string
	}{
		{"缺少请求头", ""},
		{"令牌错误", "wrong-token"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/internal/ping", nil)
			if c.header != "" {
				req.Header.Set("X-Internal-Auth", c.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusForbidden, w.Code)
		})
	}
}

func TestInternalAuthClosedWhenUnconfigured(t *testing.T) {
	r := newInternalAuthRouter("")

	// 未配置令牌时内部接口整体关闭，空头也不放行
	req := httptest.NewRequest(http.MethodPost, "/internal/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
