package middlewares

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/yeremiapane/resto-pos/utils"
)

// BillingRateLimiter membatasi endpoint billing (pay-request, update
// status) supaya satu meja tidak bisa membanjiri server.
func BillingRateLimiter() gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Every(time.Second), 10)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			utils.RespondError(c, http.StatusTooManyRequests, errors.New("please wait before making another billing request"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// LogBillingRequest mencatat setiap request billing beserta status akhirnya.
func LogBillingRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		if status >= 400 {
			utils.ErrorLogger.Printf(
				"Billing request failed - Method: %s, Path: %s, Status: %d, Duration: %v",
				method, path, status, duration,
			)
			return
		}

		utils.InfoLogger.Printf(
			"Billing request - Method: %s, Path: %s, Status: %d, Duration: %v",
			method, path, status, duration,
		)
	}
}
