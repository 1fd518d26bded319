package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-handle-exception/internal/domain"
	"github.com/tbourn/go-handle-exception/internal/services"
)

// ---------- stubs ----------

type stubProductSvc struct {
	describe func(context.Context, string) (string, error)
}

func (s stubProductSvc) Describe(ctx context.Context, id string) (string, error) {
	return s.describe(ctx, id)
}

type stubUserSvc struct {
	get func(context.Context, string) (*domain.User, error)
}

func (s stubUserSvc) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.get(ctx, id)
}

// newRouter mounts h and records the errors each request attached.
func newRouter(h *Handlers, errs *[]error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Next()
		for _, e := range c.Errors {
			*errs = append(*errs, e.Err)
		}
	})
	r.GET("/product/:id", h.GetProduct)
	r.GET("/users/:id", h.GetUser)
	return r
}

// ---------- product ----------

func TestGetProduct_Success_WithRealService(t *testing.T) {
	var errs []error
	r := newRouter(New(services.NewProductService(), services.NewUserService()), &errs)

	cases := map[string]string{
		"5":  "bigger than zero",
		"0":  "smaller than zero",
		"-3": "smaller than zero",
	}
	for id, want := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/product/"+id, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("GET /product/%s status=%d", id, w.Code)
		}
		if w.Body.String() != want {
			t.Fatalf("GET /product/%s body=%q; want %q", id, w.Body.String(), want)
		}
		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
			t.Fatalf("GET /product/%s content-type=%q", id, ct)
		}
	}
	if len(errs) != 0 {
		t.Fatalf("no errors expected, got %v", errs)
	}
}

func TestGetProduct_ParseErrorIsAttachedNotWritten(t *testing.T) {
	var errs []error
	r := newRouter(New(services.NewProductService(), services.NewUserService()), &errs)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/product/foo", nil))

	if w.Body.Len() != 0 {
		t.Fatalf("handler must not render failures, body=%q", w.Body.String())
	}
	if len(errs) != 1 {
		t.Fatalf("expected one attached error, got %v", errs)
	}
	var ne *strconv.NumError
	if !errors.As(errs[0], &ne) || ne.Num != "foo" {
		t.Fatalf("expected *strconv.NumError for foo, got %#v", errs[0])
	}
}

func TestGetProduct_LogsInvocation(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("logger", &logger); c.Next() })
	h := New(stubProductSvc{describe: func(context.Context, string) (string, error) { return "x", nil }}, nil)
	r.GET("/product/:id", h.GetProduct)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/product/7", nil))

	if !strings.Contains(buf.String(), `"product_id":"7"`) || !strings.Contains(buf.String(), `"message":"get product"`) {
		t.Fatalf("expected invocation log, got %s", buf.String())
	}
}

// ---------- user ----------

func TestGetUser_AlwaysAttachesInactiveUser(t *testing.T) {
	var errs []error
	r := newRouter(New(services.NewProductService(), services.NewUserService()), &errs)

	for _, id := range []string{"42", "abc", "0"} {
		errs = errs[:0]
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/"+id, nil))
		if w.Body.Len() != 0 {
			t.Fatalf("GET /users/%s wrote a body: %q", id, w.Body.String())
		}
		if len(errs) != 1 || !errors.Is(errs[0], domain.NewRestAPIError(domain.InactiveUser)) {
			t.Fatalf("GET /users/%s errors=%v; want INACTIVE_USER", id, errs)
		}
	}
}

func TestGetUser_SuccessShape(t *testing.T) {
	var errs []error
	h := New(nil, stubUserSvc{get: func(_ context.Context, id string) (*domain.User, error) {
		return &domain.User{ID: id, Name: "jane"}, nil
	}})
	r := newRouter(h, &errs)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/9", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var u domain.User
	if err := json.Unmarshal(w.Body.Bytes(), &u); err != nil {
		t.Fatalf("json: %v", err)
	}
	if u.ID != "9" || u.Name != "jane" {
		t.Fatalf("unexpected user %+v", u)
	}
}
