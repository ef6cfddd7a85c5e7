package handlers

import (
	"crypto/subtle"
	"fmt"

	"github.com/valyala/fasthttp"
)

func BearerTokenAuth(token string, handler fasthttp.RequestHandler) fasthttp.RequestHandler {
	expectedHeader := []byte(fmt.Sprintf("Bearer %s", token))

	return func(ctx *fasthttp.RequestCtx) {
		header := ctx.Request.Header.Peek("Authorization")
		if subtle.ConstantTimeCompare(header, expectedHeader) == 1 {
			handler(ctx)
		} else {
			ctx.Error("unauthorized", fasthttp.StatusUnauthorized)
		}
	}
}
