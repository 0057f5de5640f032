// Package site serves the embedded league landing page.
package site

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Register attaches the landing page at / and its assets under /assets.
func Register(_ context.Context, r gin.IRouter) {
	if r == nil {
		panic("router is nil")
	}
	r.GET("/", NewRootHandler().HandleRoot)
	r.StaticFS("/assets", FS())
}

// RootHandler handles root path requests.
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot handles GET / by serving the embedded index page.
func (h *RootHandler) HandleRoot(c *gin.Context) {
	page, err := indexHTML()
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
