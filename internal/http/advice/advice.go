// Package advice is the global error-to-response translator of the HTTP layer.
//
// Handlers and middleware never render failures. They attach an error to the
// Gin context (c.Error) and return; the Translator middleware, installed once
// at startup, looks up the last attached error in an ordered dispatch table
// keyed by error kind and writes the matching response.
//
// Registered kinds:
//   - *domain.RestAPIError: status and message from its ErrorCode, JSON body
//     {"code": NAME, "message": message}.
//   - *strconv.NumError: a configurable status (404 unless configured
//     otherwise) with the raw parse error as a plain-text body.
//
// Errors of any other kind are not translated. The middleware re-raises them
// as a panic so that the process-boundary Recovery middleware answers with a
// generic 500.
package advice

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tbourn/go-handle-exception/internal/domain"
	"github.com/tbourn/go-handle-exception/internal/http/handlers"
	"github.com/tbourn/go-handle-exception/internal/http/middleware"
)

// Error kinds registered by New.
const (
	KindRestAPIError = "rest_api_error"
	KindNumberFormat = "number_format"
)

// translatedErrors counts rendered failures by kind and status.
var translatedErrors = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_translated_errors_total",
		Help: "Total number of errors translated into HTTP responses.",
	},
	[]string{"kind", "code", "status"},
)

func init() {
	prometheus.MustRegister(translatedErrors)
}

// Response is the rendered form of a translated error. Body is either a
// handlers.ErrorResponse (written as JSON) or a string (written as text).
type Response struct {
	Kind   string
	Code   string
	Status int
	Body   any
}

// Rule translates a single error kind.
type Rule struct {
	Kind      string
	translate func(error) (Response, bool)
}

// For builds a Rule matching errors assignable to T anywhere in the wrap
// chain (errors.As). render receives the matched value.
func For[T error](kind string, render func(T) Response) Rule {
	return Rule{
		Kind: kind,
		translate: func(err error) (Response, bool) {
			var target T
			if !errors.As(err, &target) {
				return Response{}, false
			}
			resp := render(target)
			resp.Kind = kind
			return resp, true
		},
	}
}

// RestAPIErrorRule renders a RestAPIError from its ErrorCode.
func RestAPIErrorRule() Rule {
	return For(KindRestAPIError, func(e *domain.RestAPIError) Response {
		code := e.Code()
		return Response{
			Code:   code.Name(),
			Status: code.HTTPStatus(),
			Body:   handlers.ErrorResponse{Code: code.Name(), Message: code.Message()},
		}
	})
}

// NumberFormatRule renders numeric parse failures with status and the raw
// parse error text.
func NumberFormatRule(status int) Rule {
	return For(KindNumberFormat, func(e *strconv.NumError) Response {
		return Response{
			Status: status,
			Body:   e.Error(),
		}
	})
}

// Options configures the default rules.
type Options struct {
	// NumberFormatStatus is the status used for *strconv.NumError.
	// Zero means 404.
	NumberFormatStatus int
}

// Translator is an ordered dispatch table of Rules. Rules are registered at
// startup; Translate and the middleware only read the table.
type Translator struct {
	rules []Rule
}

// New returns a Translator with the RestAPIError and number-format rules.
func New(opts Options) *Translator {
	status := opts.NumberFormatStatus
	if status == 0 {
		status = http.StatusNotFound
	}
	t := &Translator{}
	t.Register(RestAPIErrorRule())
	t.Register(NumberFormatRule(status))
	return t
}

// Register appends r to the dispatch table. Earlier rules win.
func (t *Translator) Register(r Rule) {
	t.rules = append(t.rules, r)
}

// Kinds lists the registered kinds in dispatch order.
func (t *Translator) Kinds() []string {
	out := make([]string, len(t.rules))
	for i, r := range t.rules {
		out[i] = r.Kind
	}
	return out
}

// Translate maps err to a Response. It reports false when no rule matches.
// The result depends only on err, so equivalent errors translate identically.
func (t *Translator) Translate(err error) (Response, bool) {
	if err == nil {
		return Response{}, false
	}
	for _, r := range t.rules {
		if resp, ok := r.translate(err); ok {
			return resp, true
		}
	}
	return Response{}, false
}

// Middleware returns the Gin middleware that renders the last error attached
// during the request. Install it after Recovery so re-raised errors are caught.
func (t *Translator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		resp, ok := t.Translate(err)
		if !ok {
			panic(err)
		}

		lg := middleware.LoggerFrom(c)
		if c.Writer.Written() {
			lg.Warn().Err(err).Str("kind", resp.Kind).Msg("response already written; error not rendered")
			return
		}

		ev := lg.Debug()
		if resp.Status >= http.StatusInternalServerError {
			ev = lg.Error()
		}
		ev.Err(err).
			Str("kind", resp.Kind).
			Str("code", resp.Code).
			Int("status", resp.Status).
			Msg("error translated")
		translatedErrors.WithLabelValues(resp.Kind, resp.Code, strconv.Itoa(resp.Status)).Inc()

		write(c, resp)
	}
}

// write renders resp and aborts the chain.
func write(c *gin.Context, resp Response) {
	switch body := resp.Body.(type) {
	case string:
		c.Data(resp.Status, "text/plain; charset=utf-8", []byte(body))
	default:
		c.JSON(resp.Status, body)
	}
	c.Abort()
}
