package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"daily/apperr"
	"daily/config"
	"daily/logging"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func newErrorRouter(mode string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Recovery(logging.Discard()), ErrorHandler(mode, logging.Discard()))
	r.GET("/validation", func(c *gin.Context) {
		c.Error(apperr.Validation("参数错误", apperr.FieldError{Field: "amount", Message: "必须大于 0"}))
	})
	r.GET("/internal", func(c *gin.Context) {
		c.Error(errors.New("dial tcp 10.0.0.1:3306: connection refused"))
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	r.NoRoute(NotFound())
	return r
}

func TestErrorHandler(t *testing.T) {
	do := func(r *gin.Engine, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		return w
	}
	debug := newErrorRouter(config.ModeDebug)

	w := do(debug, "/validation")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	errs := body["errors"].([]any)
	assert.Equal(t, "amount", errs[0].(map[string]any)["field"])

	// debug 模式返回错误详情
	w = do(debug, "/internal")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")

	// release 模式隐藏错误详情
	w = do(newErrorRouter(config.ModeRelease), "/internal")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Equal(t, internalErrorMessage, decodeBody(t, w)["message"])

	w = do(debug, "/panic")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, internalErrorMessage, decodeBody(t, w)["message"])

	w = do(debug, "/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decodeBody(t, w)["message"], "/nope")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestID_KeepsClientValue(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(200, c.GetString(RequestIDKey)) })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/bills/:id", func(c *gin.Context) { c.String(200, "ok") })

	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/bills/"+id, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/missing", nil))

	expected := `
# HELP daily_http_requests_total HTTP 请求总数
# TYPE daily_http_requests_total counter
daily_http_requests_total{method="GET",route="/api/bills/:id",status="200"} 2
daily_http_requests_total{method="GET",route="unmatched",status="404"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "daily_http_requests_total"))
}
