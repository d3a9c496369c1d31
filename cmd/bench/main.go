// Command bench drives load against a relay and reports throughput, latency
// percentiles and the response-code mix.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jroosing/dnsrelay/internal/dns"
	"github.com/jroosing/dnsrelay/internal/resolvers"
)

type result struct {
	mu       sync.Mutex
	lat      []float64
	rcodes   map[dns.ResponseCode]int
	timeouts int
	failures int
}

func (r *result) ok(ms float64, rcode dns.ResponseCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lat = append(r.lat, ms)
	r.rcodes[rcode]++
}

func (r *result) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		r.timeouts++
		return
	}
	r.failures++
}

func main() {
	var (
		server      = flag.String("server", "127.0.0.1:5353", "DNS server HOST:PORT")
		name        = flag.String("name", "example.com", "Query name")
		qtype       = flag.Int("qtype", 1, "Query type (numeric, A=1)")
		concurrency = flag.Int("concurrency", 200, "Number of concurrent workers")
		requests    = flag.Int("requests", 20000, "Total number of requests")
		timeout     = flag.Duration("timeout", 2*time.Second, "Per-request timeout")
	)
	flag.Parse()

	rtype, err := dns.ParseRecordType(uint16(*qtype))
	if err != nil {
		fmt.Fprintf(os.Stderr, "bench: %v\n", err)
		os.Exit(2)
	}
	addr, err := net.ResolveUDPAddr("udp", *server)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bench: %v\n", err)
		os.Exit(2)
	}

	conc := max(*concurrency, 1)
	total := max(*requests, 1)
	per := total / conc
	rem := total % conc

	res := &result{lat: make([]float64, 0, total), rcodes: map[dns.ResponseCode]int{}}

	t0 := time.Now()
	g, ctx := errgroup.WithContext(context.Background())
	for i := range conc {
		n := per
		if i < rem {
			n++
		}
		if n == 0 {
			continue
		}
		g.Go(func() error {
			return worker(ctx, addr, uint16(i), *name, rtype, n, *timeout, res)
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "bench: %v\n", err)
		os.Exit(1)
	}
	elapsed := time.Since(t0).Seconds()

	fmt.Printf("server=%s name=%q qtype=%s concurrency=%d requests=%d\n", *server, *name, rtype, conc, total)
	fmt.Printf("ok=%d timeouts=%d failures=%d\n", len(res.lat), res.timeouts, res.failures)
	if len(res.lat) == 0 {
		return
	}
	sort.Float64s(res.lat)
	fmt.Printf("elapsed_s=%.3f qps=%.1f\n", elapsed, float64(len(res.lat))/elapsed)
	fmt.Printf("latency_ms p50=%.3f p95=%.3f p99=%.3f min=%.3f max=%.3f\n",
		percentile(res.lat, 50), percentile(res.lat, 95), percentile(res.lat, 99),
		res.lat[0], res.lat[len(res.lat)-1])

	codes := make([]dns.ResponseCode, 0, len(res.rcodes))
	for rc := range res.rcodes {
		codes = append(codes, rc)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	for _, rc := range codes {
		fmt.Printf("rcode %s=%d\n", rc, res.rcodes[rc])
	}
}

// worker sends n queries sequentially over its own socket. Each query gets a
// distinct ID so stale replies from timed-out attempts are skipped.
func worker(ctx context.Context, addr *net.UDPAddr, seed uint16, name string, rtype dns.RecordType, n int, timeout time.Duration, res *result) error {
	c, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return err
	}
	defer c.Close()

	buf := make([]byte, resolvers.MaxPacketSize)
	id := seed << 8
	for range n {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		id++
		query, err := (&dns.Request{
			Header:    dns.Header{ID: id, RecursionDesired: true},
			Questions: []dns.Question{{Name: name, Type: rtype}},
		}).Marshal()
		if err != nil {
			return err
		}

		start := time.Now()
		_ = c.SetDeadline(start.Add(timeout))
		if _, err := c.Write(query); err != nil {
			res.fail(err)
			continue
		}
		for {
			nn, err := c.Read(buf)
			if err != nil {
				res.fail(err)
				break
			}
			resp, err := dns.ParseResponse(buf[:nn])
			if err != nil || resp.Header.ID != id {
				continue
			}
			res.ok(float64(time.Since(start).Microseconds())/1000.0, resp.Header.RCode)
			break
		}
	}
	return nil
}

func percentile(sorted []float64, p int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	idx := int(float64(len(sorted))*float64(p)/100.0) - 1
	idx = min(max(idx, 0), len(sorted)-1)
	return sorted[idx]
}
