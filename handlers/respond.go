package handlers

import (
	"net/http"

	"mediquery/client"
	"mediquery/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps service-layer errors onto HTTP responses. Validation
// failures become 400s, backend rejections keep their upstream status, and
// anything else is treated as an unreachable diagnosis service.
func respondError(c *gin.Context, err error) {
	if utils.IsInputError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if apiErr, ok := client.AsAPIError(err); ok {
		c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Reason})
		return
	}
	utils.JSONError(c, http.StatusBadGateway, "diagnosis service unavailable", err.Error())
}
