package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"betafeedback/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type tokenAuth struct {
	tokens *utils.TokenManager
}

func (a tokenAuth) Authenticate(token string) (*utils.Claims, error) {
	return a.tokens.ValidateToken(token)
}

func protectedRouter(tokens *utils.TokenManager) *gin.Engine {
	r := gin.New()
	r.Use(TraceIDMiddleware())
	admin := r.Group("/admin", JWTAuthMiddleware(tokenAuth{tokens}), RoleMiddleware(utils.RoleAdmin))
	admin.GET("/ping", func(c *gin.Context) {
		utils.RespondSuccess(c, gin.H{"email": ClaimsFrom(c).Email}, "pong")
	})
	return r
}

func doRequest(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body utils.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error == nil {
		return ""
	}
	return body.Error.Code
}

func TestJWTAuthAndRole(t *testing.T) {
	now := time.Now()
	tokens := utils.NewTokenManager("secret", 24*time.Hour).WithClock(func() time.Time { return now })
	r := protectedRouter(tokens)

	admin, _, _ := tokens.CreateToken(utils.RoleAdmin, "boss@example.com")
	viewer, _, _ := tokens.CreateToken("viewer", "")
	expired, _, _ := utils.NewTokenManager("secret", time.Hour).
		WithClock(func() time.Time { return now.Add(-2 * time.Hour) }).
		CreateToken(utils.RoleAdmin, "")

	tests := []struct {
		name   string
		token  string
		status int
		code   string
	}{
		{"missing", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"garbage", "not-a-token", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"expired", expired, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"wrong role", viewer, http.StatusForbidden, "FORBIDDEN"},
		{"admin", admin, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, tt.token)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.status, w.Body)
			}
			if got := errorCode(t, w); got != tt.code {
				t.Fatalf("code = %q, want %q", got, tt.code)
			}
			if w.Header().Get(TraceIDHeader) == "" {
				t.Fatalf("missing %s header", TraceIDHeader)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	c.Request.Header.Set("Authorization", "Basic abc")
	if got := BearerToken(c); got != "" {
		t.Fatalf("BearerToken(basic) = %q", got)
	}
	c.Request.Header.Set("Authorization", "Bearer  abc ")
	if got := BearerToken(c); got != "abc" {
		t.Fatalf("BearerToken() = %q", got)
	}
}

func TestTraceIDReusesIncomingHeader(t *testing.T) {
	r := gin.New()
	r.Use(TraceIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(utils.TraceIDKey)) })

	incoming := "0f8fad5b-d9cb-469f-a165-70867728950e"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TraceIDHeader, incoming)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != incoming || w.Header().Get(TraceIDHeader) != incoming {
		t.Fatalf("trace id = %q, want %q", w.Body.String(), incoming)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TraceIDHeader, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() == "<script>" || w.Body.Len() == 0 {
		t.Fatalf("malformed incoming trace id was reused: %q", w.Body.String())
	}
}

func TestRecoveryAndRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	r := gin.New()
	r.Use(TraceIDMiddleware(), RequestLogger(logger), Recovery(logger))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError || errorCode(t, w) != "INTERNAL_ERROR" {
		t.Fatalf("panic answer = %d %s", w.Code, w.Body)
	}
	if logs.FilterMessage("Panic recovered").Len() != 1 || logs.FilterMessage("Request failed").Len() != 1 {
		t.Fatalf("logs = %v", logs.All())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	handled := logs.FilterMessage("Request handled").All()
	if len(handled) != 1 || handled[0].ContextMap()["path"] != "/ok" {
		t.Fatalf("request log = %v", handled)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000"}))
	r.POST("/feedback/start", func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodOptions, "/feedback/start", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Fatalf("allow origin = %q", w.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest(http.MethodOptions, "/feedback/start", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("foreign origin was allowed")
	}
}
