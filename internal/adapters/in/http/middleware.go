package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestObserver receives one observation per served request.
type RequestObserver interface {
	ObserveHTTP(method, path string, status int, elapsed time.Duration)
}

// RequestMetrics reports every request to observer, labelled with the route
// pattern rather than the raw URL.
func RequestMetrics(observer RequestObserver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			started := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" || c.Response().Status == http.StatusNotFound {
				path = "unmatched"
			}
			observer.ObserveHTTP(c.Request().Method, path, c.Response().Status, time.Since(started))
			return nil
		}
	}
}
