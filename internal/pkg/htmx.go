package pkg

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
)

// Toast kinds understood by the toast partial.
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

// ShowToast sets the HX-Trigger response header with a showToast event.
func ShowToast(c *gin.Context, message, kind string) {
	trigger, _ := json.Marshal(map[string]any{
		"showToast": map[string]string{
			"message": message,
			"type":    kind,
		},
	})
	c.Header("HX-Trigger", string(trigger))
}

// HXRedirect asks htmx to perform a full client-side navigation to url.
func HXRedirect(c *gin.Context, url string) {
	c.Header("HX-Redirect", url)
}

// HXNoSwap tells htmx to leave the current DOM untouched.
func HXNoSwap(c *gin.Context) {
	c.Header("HX-Reswap", "none")
}

// IsHTMX reports whether the request was issued by htmx.
func IsHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// HXRefresh asks htmx to reload the current page.
func HXRefresh(c *gin.Context) {
	c.Header("HX-Refresh", "true")
}
