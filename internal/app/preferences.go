package app

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/parkadmin/internal/preference"
)

// sidebarHandler stores the sidebar state. The "open" form value sets it
// explicitly; without one the stored state is flipped.
// POST /preferences/sidebar
func sidebarHandler(c *gin.Context) {
	store := preference.Cookies(c)
	open := !preference.SidebarOpen(store)
	if raw, ok := c.GetPostForm("open"); ok {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		open = v
	}
	preference.SetSidebarOpen(store, open)
	c.JSON(http.StatusOK, gin.H{"open": open})
}
