package utils

import (
	"github.com/gin-gonic/gin"
)

// JSONResponse adalah amplop seragam semua endpoint.
type JSONResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Success: code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Success: false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondWithError memetakan error domain ke kode HTTP-nya
// (lihat HTTPStatus di errors.go).
func RespondWithError(c *gin.Context, err error) {
	RespondError(c, HTTPStatus(err), err)
}
