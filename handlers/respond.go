package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const errStoreUnavailable = "Database not connected"

// bindJSON decodes the request body. An empty body decodes as {}.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "Invalid JSON body")
		return false
	}
	return true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func storeUnavailable(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": errStoreUnavailable})
}

// internalError logs err with the request id and answers with a generic message
func internalError(c *gin.Context, log *logrus.Logger, err error, msg string) {
	log.WithFields(requestFields(c)).WithError(err).Error(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func requestFields(c *gin.Context) logrus.Fields {
	return logrus.Fields{
		"request_id": c.GetString(requestIDKey),
		"path":       c.FullPath(),
	}
}
