package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finboard/backend/utils"

	"github.com/gin-gonic/gin"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(), RequestLogger(), CORS(""))
	priv := r.Group("/", Auth("s3cret", ""))
	priv.GET("/me", func(c *gin.Context) {
		claims := CurrentClaims(c)
		c.JSON(http.StatusOK, gin.H{"user": UserID(c), "email": claims.Email})
	})
	r.GET("/boom", func(c *gin.Context) { panic("boom") })
	return r
}

func token(t *testing.T, secret, sub string) string {
	t.Helper()
	cl := utils.Claims{Email: "ada@example.com"}
	cl.Subject = sub
	tok, err := utils.GenerateJWT(secret, cl, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestAuth(t *testing.T) {
	r := newRouter()
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"malformed", "Bearer nope", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + token(t, "other", "user_1"), http.StatusUnauthorized},
		{"valid", "Bearer " + token(t, "s3cret", "user_1"), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body)
			}
			if tt.want == http.StatusUnauthorized && w.Body.String() != `{"error":"Unauthorized"}` {
				t.Fatalf("body = %s", w.Body)
			}
			if tt.want == http.StatusOK && w.Body.String() != `{"email":"ada@example.com","user":"user_1"}` {
				t.Fatalf("body = %s", w.Body)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newRouter()
	req := httptest.NewRequest(http.MethodOptions, "/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin = %q", got)
	}
}

func TestRecovery(t *testing.T) {
	r := newRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError || w.Body.String() != `{"error":"Internal server error"}` {
		t.Fatalf("got %d %s", w.Code, w.Body)
	}
}
