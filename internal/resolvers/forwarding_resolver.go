package resolvers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/jroosing/dnsrelay/internal/dns"
)

// Forwarding resolver configuration constants.
const (
	// DefaultUpstream is the recursive resolver every query is forwarded to.
	DefaultUpstream = "1.1.1.1:53"

	// DefaultTimeout bounds one upstream exchange.
	DefaultTimeout = 4 * time.Second

	// MaxPacketSize is the receive buffer size for upstream replies.
	MaxPacketSize = 4096
)

// ForwardingResolver forwards DNS queries to one upstream server over UDP.
//
// Each query gets a fresh ephemeral socket that is closed once the reply has
// arrived; sockets are never pooled or shared between queries, so a reply
// can only ever be read by the query that caused it. The original request
// bytes are sent unchanged and the reply is returned as raw passthrough.
//
// There is exactly one attempt per query. Send or receive failures, a
// timeout, or a reply shorter than a DNS header all fail the query.
type ForwardingResolver struct {
	Logger *slog.Logger // Optional logger

	upstream string
	timeout  time.Duration
	recvSize int
}

// NewForwardingResolver creates a ForwardingResolver for the given upstream
// "host:port". An empty upstream selects DefaultUpstream and a non-positive
// timeout selects DefaultTimeout.
func NewForwardingResolver(upstream string, timeout time.Duration) *ForwardingResolver {
	if upstream == "" {
		upstream = DefaultUpstream
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ForwardingResolver{
		upstream: upstream,
		timeout:  timeout,
		recvSize: MaxPacketSize,
	}
}

// Upstream returns the upstream server address.
func (f *ForwardingResolver) Upstream() string {
	return f.upstream
}

// Close is a no-op: no sockets outlive a single Resolve call.
func (f *ForwardingResolver) Close() error {
	return nil
}

// Resolve forwards req to the upstream server and waits for one reply.
//
// The wait is bounded by the resolver timeout or the context deadline,
// whichever is sooner. Failures wrap dns.ErrNetwork, and timeouts also wrap
// dns.ErrTimeout.
func (f *ForwardingResolver) Resolve(ctx context.Context, req *dns.Request) (Result, error) {
	if ctx.Err() != nil {
		return Result{}, contextError("forward", ctx.Err())
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", f.upstream)
	if err != nil {
		return Result{}, fmt.Errorf("%w: bind upstream socket: %w", dns.ErrNetwork, err)
	}
	defer conn.Close()

	// Set deadline from timeout or context, whichever is sooner
	deadline := time.Now().Add(f.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	_ = conn.SetDeadline(deadline)

	// Unblock the read if the context is cancelled before the deadline.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	start := time.Now()
	if _, err := conn.Write(req.Bytes()); err != nil {
		return Result{}, classifyNetError("send to upstream", err)
	}

	buf := make([]byte, f.recvSize)
	n, err := conn.Read(buf)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, contextError("receive from upstream", ctx.Err())
		}
		return Result{}, classifyNetError("receive from upstream", err)
	}
	latency := time.Since(start)

	if n == len(buf) && f.Logger != nil {
		f.Logger.Warn("upstream reply filled the receive buffer, may be truncated",
			"upstream", f.upstream,
			"id", int(req.Header.ID),
			"bytes", n,
		)
	}
	if f.Logger != nil {
		f.Logger.Debug("upstream response",
			"upstream", f.upstream,
			"id", int(req.Header.ID),
			"bytes", n,
			"latency_ms", latency.Milliseconds(),
		)
	}

	// Limit capacity to prevent reuse of buffer tail
	resp, err := dns.ParseResponse(buf[:n:n])
	if err != nil {
		return Result{}, fmt.Errorf("decode upstream reply: %w", err)
	}
	return Result{Response: resp, Upstream: f.upstream, Latency: latency}, nil
}

// classifyNetError wraps a socket error with dns.ErrNetwork, adding
// dns.ErrTimeout when the deadline expired.
func classifyNetError(op string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w: %s: %w", dns.ErrNetwork, dns.ErrTimeout, op, err)
	}
	return fmt.Errorf("%w: %s: %w", dns.ErrNetwork, op, err)
}

// contextError wraps a context error with dns.ErrNetwork, adding
// dns.ErrTimeout when the context deadline expired.
func contextError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w: %s: %w", dns.ErrNetwork, dns.ErrTimeout, op, err)
	}
	return fmt.Errorf("%w: %s: %w", dns.ErrNetwork, op, err)
}
