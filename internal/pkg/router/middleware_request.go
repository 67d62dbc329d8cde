package router

import (
	"net"
	"net/http"
	"strings"
	"unicode"

	"github.com/shandysiswandi/gootp/internal/pkg/instrument"
	"github.com/shandysiswandi/gootp/internal/pkg/uid"
)

const (
	// HeaderCorrelationID carries the request correlation id in both directions.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is read when HeaderCorrelationID is absent.
	HeaderRequestID = "X-Request-ID"

	maxCorrelationIDLen = 128
)

// clientIPHeaders are consulted in order; X-Forwarded-For contributes its first hop.
var clientIPHeaders = []string{"True-Client-IP", "X-Real-IP", "X-Forwarded-For"}

// middlewareRequestContext rewrites RemoteAddr to the client ip reported by a
// proxy and attaches a correlation id to the request context and response.
func middlewareRequestContext(gen uid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ip := clientIP(r); ip != "" {
				r.RemoteAddr = ip
			}

			cid := correlationID(r, gen)
			if cid != "" {
				w.Header().Set(HeaderCorrelationID, cid)
				r = r.WithContext(instrument.SetCorrelationID(r.Context(), cid))
			}

			next.ServeHTTP(w, r)
		})
	}
}

func correlationID(r *http.Request, gen uid.StringID) string {
	for _, h := range []string{HeaderCorrelationID, HeaderRequestID} {
		if v := sanitizeCorrelationID(r.Header.Get(h)); v != "" {
			return v
		}
	}
	if gen == nil {
		return ""
	}
	return gen.Generate()
}

// sanitizeCorrelationID drops values with control characters, since they end
// up in logs and response headers.
func sanitizeCorrelationID(v string) string {
	v = strings.TrimSpace(v)
	if strings.ContainsFunc(v, unicode.IsControl) {
		return ""
	}
	if len(v) > maxCorrelationIDLen {
		v = v[:maxCorrelationIDLen]
	}
	return v
}

func clientIP(r *http.Request) string {
	for _, h := range clientIPHeaders {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		v, _, _ = strings.Cut(v, ",")
		if ip := net.ParseIP(strings.TrimSpace(v)); ip != nil {
			return ip.String()
		}
		break
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || net.ParseIP(host) == nil {
		return ""
	}
	return host
}
