package main

import (
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/lintang-b-s/olrmatch/pkg/apperr"
)

// rateLimiter mirrors cmd/mapmatch/main.go's mymiddleware.Limit call shape
// (a plain http.Handler-wrapping middleware, flag-gated by useRateLimit in
// main.go) but its body couldn't be retrieved -- pkg/server/middleware's
// source file never made it into the pack, the same gap pkg/apperr fills
// for pkg/server's error helper. golang.org/x/time/rate is a real
// dependency of this pack (declared in the sibling repo's go.mod) that was
// never actually imported by any of its code; it is wired here instead of
// left declared-but-dead.
type rateLimiter struct {
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	visitors map[string]*rate.Limiter
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	return &rateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		visitors: make(map[string]*rate.Limiter),
	}
}

func (rl *rateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	l, ok := rl.visitors[key]
	if !ok {
		l = rate.NewLimiter(rl.rps, rl.burst)
		rl.visitors[key] = l
	}
	return l
}

// Limit is the r.Use(...) entry point, named to match the teacher's own
// mymiddleware.Limit so the call site in main.go reads the same way.
func (rl *rateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !rl.limiterFor(host).Allow() {
			err := apperr.WrapErrorf(nil, apperr.ErrTooManyRequests, "rate limit exceeded")
			render.Render(w, r, ErrRender(err))
			return
		}
		next.ServeHTTP(w, r)
	})
}
