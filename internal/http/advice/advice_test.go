package advice

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tbourn/go-handle-exception/internal/domain"
	"github.com/tbourn/go-handle-exception/internal/http/handlers"
	"github.com/tbourn/go-handle-exception/internal/http/middleware"
)

func parseErr(s string) error {
	_, err := strconv.ParseInt(s, 10, 32)
	return err
}

// ---------- Translate ----------

func TestTranslate_RestAPIError(t *testing.T) {
	tr := New(Options{})
	resp, ok := tr.Translate(domain.NewRestAPIError(domain.InactiveUser))
	if !ok {
		t.Fatalf("RestAPIError should be translated")
	}
	want := Response{
		Kind:   KindRestAPIError,
		Code:   "INACTIVE_USER",
		Status: http.StatusForbidden,
		Body:   handlers.ErrorResponse{Code: "INACTIVE_USER", Message: "User is inactive"},
	}
	if !reflect.DeepEqual(resp, want) {
		t.Fatalf("Translate = %+v; want %+v", resp, want)
	}
}

func TestTranslate_WrappedRestAPIError(t *testing.T) {
	tr := New(Options{})
	resp, ok := tr.Translate(fmt.Errorf("get user: %w", domain.NewRestAPIError(domain.ResourceNotFound)))
	if !ok || resp.Status != http.StatusNotFound || resp.Code != "RESOURCE_NOT_FOUND" {
		t.Fatalf("wrapped error translated to %+v (ok=%v)", resp, ok)
	}
}

func TestTranslate_NumberFormat_DefaultAndConfigured(t *testing.T) {
	err := parseErr("foo")

	resp, ok := New(Options{}).Translate(err)
	if !ok || resp.Kind != KindNumberFormat || resp.Status != http.StatusNotFound {
		t.Fatalf("default number format mapping unexpected: %+v (ok=%v)", resp, ok)
	}
	if resp.Body != `strconv.ParseInt: parsing "foo": invalid syntax` {
		t.Fatalf("body should be the raw parse error, got %q", resp.Body)
	}

	resp, ok = New(Options{NumberFormatStatus: http.StatusBadRequest}).Translate(err)
	if !ok || resp.Status != http.StatusBadRequest {
		t.Fatalf("configured number format mapping unexpected: %+v", resp)
	}
}

func TestTranslate_UnregisteredAndNil(t *testing.T) {
	tr := New(Options{})
	if _, ok := tr.Translate(errors.New("plain")); ok {
		t.Fatalf("plain errors must not be translated")
	}
	if _, ok := tr.Translate(nil); ok {
		t.Fatalf("nil must not be translated")
	}
}

func TestTranslate_IsDeterministic(t *testing.T) {
	tr := New(Options{})
	for _, mk := range []func() error{
		func() error { return domain.NewRestAPIError(domain.InactiveUser) },
		func() error { return parseErr("abc") },
	} {
		a, _ := tr.Translate(mk())
		b, _ := tr.Translate(mk())
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("equivalent errors translated differently: %+v vs %+v", a, b)
		}
	}
}

func TestRegister_CustomRuleAndOrder(t *testing.T) {
	tr := New(Options{})
	tr.Register(For("timeout", func(e *timeoutErr) Response {
		return Response{Code: "TIMEOUT", Status: http.StatusGatewayTimeout, Body: "timeout"}
	}))

	if got := tr.Kinds(); !reflect.DeepEqual(got, []string{KindRestAPIError, KindNumberFormat, "timeout"}) {
		t.Fatalf("Kinds() = %v", got)
	}
	resp, ok := tr.Translate(&timeoutErr{})
	if !ok || resp.Kind != "timeout" || resp.Status != http.StatusGatewayTimeout {
		t.Fatalf("custom rule not applied: %+v", resp)
	}
}

type timeoutErr struct{}

func (*timeoutErr) Error() string { return "timed out" }

// ---------- Middleware ----------

func newEngine(tr *Translator, h gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(tr.Middleware())
	r.GET("/x/:id", h)
	return r
}

func TestMiddleware_RendersRestAPIErrorAsJSON(t *testing.T) {
	r := newEngine(New(Options{}), func(c *gin.Context) {
		_ = c.Error(domain.NewRestAPIError(domain.InactiveUser))
	})

	before := testutil.ToFloat64(translatedErrors.WithLabelValues(KindRestAPIError, "INACTIVE_USER", "403"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x/42", nil))

	if w.Code != http.StatusForbidden {
		t.Fatalf("status=%d; want 403", w.Code)
	}
	var body handlers.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Code != "INACTIVE_USER" || body.Message != "User is inactive" {
		t.Fatalf("unexpected body %+v", body)
	}
	after := testutil.ToFloat64(translatedErrors.WithLabelValues(KindRestAPIError, "INACTIVE_USER", "403"))
	if after != before+1 {
		t.Fatalf("translated errors counter = %v; want %v", after, before+1)
	}
}

func TestMiddleware_RendersNumberFormatAsText(t *testing.T) {
	r := newEngine(New(Options{}), func(c *gin.Context) {
		_ = c.Error(parseErr(c.Param("id")))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x/foo", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d; want 404", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Fatalf("content-type=%q", ct)
	}
	if got := w.Body.String(); got != `strconv.ParseInt: parsing "foo": invalid syntax` {
		t.Fatalf("body=%q", got)
	}
}

func TestMiddleware_ByteIdenticalResponses(t *testing.T) {
	r := newEngine(New(Options{}), func(c *gin.Context) {
		_ = c.Error(domain.NewRestAPIError(domain.InactiveUser))
	})

	var bodies []string
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x/1", nil))
		bodies = append(bodies, fmt.Sprintf("%d|%s", w.Code, w.Body.String()))
	}
	if bodies[0] != bodies[1] {
		t.Fatalf("responses differ: %q vs %q", bodies[0], bodies[1])
	}
}

func TestMiddleware_LastErrorWins(t *testing.T) {
	r := newEngine(New(Options{}), func(c *gin.Context) {
		_ = c.Error(parseErr("x"))
		_ = c.Error(domain.NewRestAPIError(domain.InvalidParameter))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x/1", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d; want 400 from the last attached error", w.Code)
	}
}

func TestMiddleware_UnregisteredErrorReachesRecovery(t *testing.T) {
	r := newEngine(New(Options{}), func(c *gin.Context) {
		_ = c.Error(errors.New("database on fire"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x/1", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d; want 500 from Recovery", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body["code"] != "INTERNAL_SERVER_ERROR" {
		t.Fatalf("unexpected body %v", body)
	}
	if body["message"] == "database on fire" {
		t.Fatalf("unregistered error text must not leak")
	}
}

func TestMiddleware_NoErrorsPassThrough(t *testing.T) {
	r := newEngine(New(Options{}), func(c *gin.Context) {
		c.String(http.StatusOK, "fine")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x/1", nil))
	if w.Code != http.StatusOK || w.Body.String() != "fine" {
		t.Fatalf("unexpected passthrough response %d %q", w.Code, w.Body.String())
	}
}

func TestMiddleware_AlreadyWrittenIsLeftAlone(t *testing.T) {
	r := newEngine(New(Options{}), func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		_ = c.Error(domain.NewRestAPIError(domain.InactiveUser))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x/1", nil))
	if w.Code != http.StatusOK || w.Body.String() != "partial" {
		t.Fatalf("written response must not be altered: %d %q", w.Code, w.Body.String())
	}
}
