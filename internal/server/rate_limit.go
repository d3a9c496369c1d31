package server

import (
	"net/netip"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pre-parse admission control using token buckets at three levels:
//   - Global: server-wide request rate
//   - Prefix: per network prefix (/24 for IPv4, /64 for IPv6)
//   - IP: per source address
//
// A level with a non-positive rate or burst is disabled.

// RateLimitSettings contains rate limiting configuration values.
type RateLimitSettings struct {
	GlobalQPS       float64
	GlobalBurst     int
	PrefixQPS       float64
	PrefixBurst     int
	IPQPS           float64
	IPBurst         int
	MaxEntries      int           // Per-level cap on tracked keys
	CleanupInterval time.Duration // Idle keys older than this are forgotten
}

// Enabled reports whether any level limits traffic.
func (s RateLimitSettings) Enabled() bool {
	return (s.GlobalQPS > 0 && s.GlobalBurst > 0) ||
		(s.PrefixQPS > 0 && s.PrefixBurst > 0) ||
		(s.IPQPS > 0 && s.IPBurst > 0)
}

// RateLimiter combines global, prefix and per-IP limiters. A request must
// pass every enabled level.
type RateLimiter struct {
	global *rate.Limiter
	prefix *keyedLimiter
	ip     *keyedLimiter
}

// NewRateLimiter creates a RateLimiter, or returns nil when every level is
// disabled. A nil *RateLimiter allows everything.
func NewRateLimiter(s RateLimitSettings) *RateLimiter {
	if !s.Enabled() {
		return nil
	}
	rl := &RateLimiter{
		prefix: newKeyedLimiter(s.PrefixQPS, s.PrefixBurst, s.MaxEntries, s.CleanupInterval),
		ip:     newKeyedLimiter(s.IPQPS, s.IPBurst, s.MaxEntries, s.CleanupInterval),
	}
	if s.GlobalQPS > 0 && s.GlobalBurst > 0 {
		rl.global = rate.NewLimiter(rate.Limit(s.GlobalQPS), s.GlobalBurst)
	}
	return rl
}

// AllowAddr reports whether a datagram from ip may be processed.
func (r *RateLimiter) AllowAddr(ip netip.Addr) bool {
	if r == nil {
		return true
	}
	now := time.Now()
	if r.global != nil && !r.global.AllowN(now, 1) {
		return false
	}
	ip = ip.Unmap()
	if !r.prefix.allow(prefixOf(ip), now) {
		return false
	}
	return r.ip.allow(netip.PrefixFrom(ip, ip.BitLen()), now)
}

// prefixOf returns the /24 (IPv4) or /64 (IPv6) network containing ip.
func prefixOf(ip netip.Addr) netip.Prefix {
	bits := 64
	if ip.Is4() {
		bits = 24
	}
	p, err := ip.Prefix(bits)
	if err != nil {
		return netip.Prefix{}
	}
	return p
}

type keyedEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// keyedLimiter holds one token bucket per key with bounded memory.
type keyedLimiter struct {
	limit           rate.Limit
	burst           int
	maxEntries      int
	cleanupInterval time.Duration

	mu          sync.Mutex
	lastCleanup time.Time
	entries     map[netip.Prefix]*keyedEntry
}

// newKeyedLimiter returns nil when the level is disabled.
func newKeyedLimiter(qps float64, burst, maxEntries int, cleanup time.Duration) *keyedLimiter {
	if qps <= 0 || burst <= 0 {
		return nil
	}
	if maxEntries <= 0 {
		maxEntries = 65536
	}
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	return &keyedLimiter{
		limit:           rate.Limit(qps),
		burst:           burst,
		maxEntries:      maxEntries,
		cleanupInterval: cleanup,
		lastCleanup:     time.Now(),
		entries:         map[netip.Prefix]*keyedEntry{},
	}
}

func (l *keyedLimiter) allow(key netip.Prefix, now time.Time) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastCleanup) > l.cleanupInterval {
		l.cleanupLocked(now)
	}

	e, ok := l.entries[key]
	if !ok {
		if len(l.entries) >= l.maxEntries {
			l.cleanupLocked(now)
			if len(l.entries) >= l.maxEntries {
				return false
			}
		}
		e = &keyedEntry{lim: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = now
	return e.lim.AllowN(now, 1)
}

// cleanupLocked drops keys idle for longer than the cleanup interval.
// Must be called with l.mu held.
func (l *keyedLimiter) cleanupLocked(now time.Time) {
	staleBefore := now.Add(-l.cleanupInterval)
	for k, e := range l.entries {
		if !e.lastSeen.After(staleBefore) {
			delete(l.entries, k)
		}
	}
	l.lastCleanup = now
}

func (l *keyedLimiter) size() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
