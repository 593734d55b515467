package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/giftshop-functions/internal/httpevent"
)

// Invoke exposes a function handler as a gin route. The HTTP request is
// turned into an httpevent.Request (route params become path params) and
// the returned Response is written back verbatim. A handler error is what
// the functions platform would report as a 500.
func Invoke(h httpevent.Handler, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "reading request body"})
			return
		}

		resp, err := h(c.Request.Context(), toEvent(c, body))
		if err != nil {
			logger.Error("handler failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.Error(err),
			)
			c.Header("Access-Control-Allow-Origin", "*")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		for k, v := range resp.Headers {
			c.Header(k, v)
		}
		c.Status(resp.StatusCode)
		_, _ = c.Writer.WriteString(resp.Body)
	}
}

func toEvent(c *gin.Context, body []byte) httpevent.Request {
	req := httpevent.Request{
		HTTPMethod: c.Request.Method,
		Headers:    make(map[string]string, len(c.Request.Header)),
		Body:       string(body),
	}

	if len(c.Params) > 0 {
		req.PathParams = make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			req.PathParams[p.Key] = p.Value
		}
	}

	if q := c.Request.URL.Query(); len(q) > 0 {
		req.QueryParams = make(map[string]string, len(q))
		for k := range q {
			req.QueryParams[k] = q.Get(k)
		}
	}

	for k := range c.Request.Header {
		req.Headers[k] = c.Request.Header.Get(k)
	}
	return req
}
