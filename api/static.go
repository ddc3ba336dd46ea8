package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// serveStaticFiles configures routes for the subscription landing page
func (s *Server) serveStaticFiles() {
	s.router.GET("/", func(c *gin.Context) {
		c.File("public/index.html")
	})

	s.router.StaticFS("/static", http.Dir("public"))
}
