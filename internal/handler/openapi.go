package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kanban-board/backend/docs"
)

// OpenAPIDoc serves the OpenAPI document with host set to the address the
// request arrived on, so "try it out" calls go back to this server.
func OpenAPIDoc(c *gin.Context) {
	spec := *docs.SwaggerInfo
	spec.Host = c.Request.Host
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(spec.ReadDoc()))
}
