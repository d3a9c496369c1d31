// Package resolvers provides DNS resolution strategies for the relay.
//
// The only strategy is ForwardingResolver, which hands each query to a single
// upstream recursive resolver and relays the reply as raw bytes. There is no
// cache, no static overrides and no failover between upstreams.
package resolvers

import (
	"context"
	"time"

	"github.com/jroosing/dnsrelay/internal/dns"
)

// Result holds the outcome of a DNS resolution.
type Result struct {
	Response *dns.Response // Upstream reply, raw passthrough
	Upstream string        // Address the reply came from
	Latency  time.Duration // Wall-clock time between send and receive
}

// Resolver is the interface for DNS resolution strategies.
type Resolver interface {
	// Resolve answers a decoded request. The context can be used for
	// cancellation and deadlines.
	Resolve(ctx context.Context, req *dns.Request) (Result, error)

	// Close releases any resources held by the resolver.
	Close() error
}
