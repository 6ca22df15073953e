package helpers

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// TrustedProxies son las redes cuyos X-Forwarded-For / X-Real-IP se aceptan.
// Vacío = nunca se miran esos headers.
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
		out = append(out, netip.PrefixFrom(a.Unmap(), a.Unmap().BitLen()))
	}
	return out, nil
}

func (tp TrustedProxies) trusts(ip string) bool {
	a, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return false
	}
	a = a.Unmap()
	for _, p := range tp {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// ClientIP resuelve la IP del cliente. Los headers de proxy solo cuentan si
// RemoteAddr es un proxy confiable; en X-Forwarded-For se toma la entrada
// más a la derecha que no sea otro proxy confiable.
func (tp TrustedProxies) ClientIP(r *http.Request) string {
	remote := remoteHost(r)
	if len(tp) == 0 || !tp.trusts(remote) {
		return remote
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		hops := strings.Split(xf, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop == "" {
				continue
			}
			if i == 0 || !tp.trusts(hop) {
				return hop
			}
		}
	}
	if xr := strings.TrimSpace(r.Header.Get("X-Real-IP")); xr != "" {
		return xr
	}
	return remote
}

// ClientIP es la IP del peer TCP, sin mirar headers de proxy.
func ClientIP(r *http.Request) string {
	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

// BearerToken devuelve el token del header Authorization ("Bearer <token>").
// El esquema no distingue mayúsculas; sin token devuelve "".
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// CookieValue devuelve el valor de la cookie o "" si no existe.
func CookieValue(r *http.Request, name string) string {
	ck, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}
