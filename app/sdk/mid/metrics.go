package mid

import (
	"context"
	"net/http"

	"github.com/dattastudio/studio-api/app/sdk/metrics"
	"github.com/dattastudio/studio-api/business/sdk/web"
)

// Metrics updates program counters.
func Metrics() web.MidFunc {
	m := func(handler web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			ctx = metrics.Set(ctx)

			resp := handler(ctx, r)

			n := metrics.AddRequests(ctx)
			if n%1000 == 0 {
				metrics.AddGoroutines(ctx)
			}

			if isError(resp) != nil {
				metrics.AddErrors(ctx)
			}

			return resp
		}

		return h
	}

	return m
}
