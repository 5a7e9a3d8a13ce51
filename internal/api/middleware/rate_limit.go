package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/appointweb-booking/internal/api/handlers"
)

const defaultBurst = 5

// RateLimiter token bucket на каждый IP клиента.
// Ключ берётся из адреса соединения. X-Forwarded-For учитывается только
// если соединение пришло от доверенного прокси.
type RateLimiter struct {
	visitors sync.Map // map[string]*visitor
	rps      rate.Limit
	burst    int
	trusted  []*net.IPNet
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nano
}

// NewRateLimiter создает ограничитель. rps <= 0 отключает ограничение.
// trustedProxies: CIDR или отдельные IP прокси, которым разрешено передавать X-Forwarded-For.
func NewRateLimiter(rps float64, burst int, trustedProxies []string) (*RateLimiter, error) {
	if burst <= 0 {
		burst = defaultBurst
	}

	trusted, err := ParseTrustedProxies(trustedProxies)
	if err != nil {
		return nil, err
	}

	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		trusted: trusted,
		now:     time.Now,
	}, nil
}

// ParseTrustedProxies разбирает список CIDR; одиночный IP считается сетью из одного адреса
func ParseTrustedProxies(values []string) ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if !strings.Contains(v, "/") {
			ip := net.ParseIP(v)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", v)
			}
			bits := 128
			if ip.To4() != nil {
				ip = ip.To4()
				bits = 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(v)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", v, err)
		}
		nets = append(nets, ipNet)
	}
	return nets, nil
}

// Middleware отвечает 429, когда клиент исчерпал лимит
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.rps > 0 && !l.visitor(l.clientIP(r)).limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			handlers.RespondTooManyRequests(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Sweep удаляет клиентов, не приходивших дольше idle, и возвращает их число.
// Бакет простаивающего клиента к этому времени всё равно полон.
func (l *RateLimiter) Sweep(idle time.Duration) int {
	cutoff := l.now().Add(-idle).UnixNano()
	removed := 0
	l.visitors.Range(func(key, value interface{}) bool {
		if value.(*visitor).lastSeen.Load() < cutoff {
			l.visitors.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// RunCleanup вызывает Sweep каждые interval, пока не закрыт stopCh
func (l *RateLimiter) RunCleanup(interval, idle time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.Sweep(idle)
		case <-stopCh:
			return
		}
	}
}

func (l *RateLimiter) visitor(key string) *visitor {
	v, ok := l.visitors.Load(key)
	if !ok {
		v, _ = l.visitors.LoadOrStore(key, &visitor{limiter: rate.NewLimiter(l.rps, l.burst)})
	}
	vis := v.(*visitor)
	vis.lastSeen.Store(l.now().UnixNano())
	return vis
}

// clientIP возвращает адрес соединения. Если соединение пришло от доверенного
// прокси, цепочка X-Forwarded-For просматривается справа налево до первого
// адреса, который не является доверенным прокси.
func (l *RateLimiter) clientIP(r *http.Request) string {
	peer := remoteHost(r)
	if !l.isTrusted(peer) {
		return peer
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if net.ParseIP(hop) == nil {
			break
		}
		if !l.isTrusted(hop) {
			return hop
		}
	}
	return peer
}

func (l *RateLimiter) isTrusted(addr string) bool {
	if len(l.trusted) == 0 {
		return false
	}
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, n := range l.trusted {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
