package middlewares

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// TrustedProxies son las redes cuyo X-Forwarded-For se acepta.
// Vacío: la IP del cliente es siempre la del peer TCP.
type TrustedProxies []netip.Prefix

// ParseTrustedProxies acepta CIDRs ("10.0.0.0/8") o IPs sueltas ("127.0.0.1").
func ParseTrustedProxies(entries []string) (TrustedProxies, error) {
	out := make(TrustedProxies, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if strings.Contains(e, "/") {
			p, err := netip.ParsePrefix(e)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", e, err)
			}
			out = append(out, p.Masked())
			continue
		}
		a, err := netip.ParseAddr(e)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", e, err)
		}
		a = a.Unmap()
		out = append(out, netip.PrefixFrom(a, a.BitLen()))
	}
	return out, nil
}

func (t TrustedProxies) trusts(s string) bool {
	a, err := netip.ParseAddr(s)
	if err != nil {
		return false
	}
	a = a.Unmap()
	for _, p := range t {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// ClientIP resuelve la IP del cliente. X-Forwarded-For solo cuenta si el peer
// es un proxy confiable; se recorre de derecha a izquierda y gana la primera
// IP que no sea de un proxy confiable.
func (t TrustedProxies) ClientIP(r *http.Request) string {
	peer := remoteIP(r)
	if len(t) == 0 || !t.trusts(peer) {
		return peer
	}
	xff := r.Header.Values("X-Forwarded-For")
	var hops []string
	for _, h := range xff {
		for _, p := range strings.Split(h, ",") {
			if p = strings.TrimSpace(p); p != "" {
				hops = append(hops, p)
			}
		}
	}
	for i := len(hops) - 1; i >= 0; i-- {
		if _, err := netip.ParseAddr(hops[i]); err != nil {
			// basura en el header: no se sigue confiando más a la izquierda
			return peer
		}
		if !t.trusts(hops[i]) {
			return hops[i]
		}
	}
	if len(hops) > 0 {
		return hops[0]
	}
	return peer
}

// WithClientIP resuelve la IP del cliente una vez y la deja en el contexto
// para logging y rate limiting.
func WithClientIP(t TrustedProxies) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(setClientIP(r.Context(), t.ClientIP(r))))
		})
	}
}

// clientIP devuelve la IP resuelta por WithClientIP, o la del peer TCP.
func clientIP(r *http.Request) string {
	if ip := GetClientIP(r.Context()); ip != "" {
		return ip
	}
	return remoteIP(r)
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
