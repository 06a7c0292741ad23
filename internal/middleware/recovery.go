package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/parkadmin/internal/pkg"
)

// PanicObserver is notified of every recovered panic. route is the gin route
// template of the failing request.
type PanicObserver interface {
	ObservePanic(method, route string)
}

// Recovery returns a gin middleware that recovers from panics, logs the error
// with stack trace using slog, and returns an appropriate error response.
//
// The response depends on who asked:
//   - htmx requests get an empty 500 with a showToast trigger and
//     HX-Reswap: none, so the page the user is editing stays intact.
//   - Requests that accept HTML get the errors/500.html template.
//   - Everything else gets the JSON envelope:
//
//	{"code": 500, "message": "internal server error", "data": null, "request_id": "..."}
//
// The request id, when the RequestID middleware assigned one, is included in
// every variant so an operator can find the logged stack.
func Recovery(logger *slog.Logger, observers ...PanicObserver) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				stack := debug.Stack()

				logger.ErrorContext(c.Request.Context(), "panic recovered",
					slog.Any("panic", err),
					slog.String("method", c.Request.Method),
					slog.String("path", c.Request.URL.Path),
					slog.String("stack", string(stack)),
				)
				for _, o := range observers {
					o.ObservePanic(c.Request.Method, c.FullPath())
				}

				c.Abort()
				id := GetRequestID(c)

				switch {
				case pkg.IsHTMX(c):
					pkg.ShowToast(c, panicToast(id), pkg.ToastError)
					pkg.HXNoSwap(c)
					c.Status(http.StatusInternalServerError)
					c.Writer.WriteHeaderNow()
				case acceptsHTML(c):
					renderHTMLError(c, id)
				default:
					body := gin.H{
						"code":    http.StatusInternalServerError,
						"message": "internal server error",
						"data":    nil,
					}
					if id != "" {
						body["request_id"] = id
					}
					c.JSON(http.StatusInternalServerError, body)
				}
			}
		}()
		c.Next()
	}
}

func panicToast(requestID string) string {
	if requestID == "" {
		return "Something went wrong. Please try again."
	}
	return "Something went wrong (reference " + requestID + "). Please try again."
}

// renderHTMLError attempts to render the errors/500.html template.
// If the HTML renderer is not configured or rendering fails, it falls back
// to a plain text 500 response.
func renderHTMLError(c *gin.Context, requestID string) {
	defer func() {
		if r := recover(); r != nil {
			c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte("500 Internal Server Error"))
		}
	}()
	c.HTML(http.StatusInternalServerError, "errors/500.html", gin.H{
		"Title":     "Internal Server Error",
		"RequestID": requestID,
	})
}

// acceptsHTML returns true if the request's Accept header contains "text/html".
func acceptsHTML(c *gin.Context) bool {
	accept := strings.ToLower(c.GetHeader("Accept"))
	return strings.Contains(accept, "text/html")
}
