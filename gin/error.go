package gin

import (
	"log/slog"
	"net/http"

	"github.com/abtech/carlytics"
	"github.com/gin-gonic/gin"
)

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	carlytics.ECONFLICT: http.StatusConflict,
	carlytics.EFETCH:    http.StatusBadGateway,
	carlytics.EINVALID:  http.StatusBadRequest,
	carlytics.ENOTFOUND: http.StatusNotFound,
	carlytics.EINTERNAL: http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// writeError writes err as a JSON error body. Internal errors are logged.
func writeError(c *gin.Context, logger *slog.Logger, err error) {
	code := carlytics.ErrorCode(err)
	if code == carlytics.EINTERNAL && logger != nil {
		logger.Error("http error",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"err", err,
		)
	}
	c.JSON(ErrorStatusCode(code), gin.H{"error": carlytics.ErrorMessage(err)})
}
