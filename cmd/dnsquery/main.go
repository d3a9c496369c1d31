// Command dnsquery sends a single query over UDP and prints the reply. It is
// meant for poking a running relay.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	mdns "github.com/miekg/dns"

	"github.com/jroosing/dnsrelay/internal/dns"
	"github.com/jroosing/dnsrelay/internal/resolvers"
)

func main() {
	var (
		server  = flag.String("server", "127.0.0.1:5353", "DNS server HOST:PORT")
		name    = flag.String("name", "example.com", "Query name")
		qtype   = flag.String("type", "A", "Query type (A, AAAA, MX, ...)")
		timeout = flag.Duration("timeout", 5*time.Second, "Timeout")
		noRD    = flag.Bool("no-rd", false, "Clear the recursion-desired flag")
		quiet   = flag.Bool("quiet", false, "Suppress output (exit status indicates success)")
	)
	flag.Parse()

	code, ok := mdns.StringToType[strings.ToUpper(*qtype)]
	if !ok {
		fmt.Fprintf(os.Stderr, "dnsquery: unknown type %q\n", *qtype)
		os.Exit(2)
	}
	if _, err := dns.ParseRecordType(code); err != nil && !*quiet {
		fmt.Fprintf(os.Stderr, "warning: %v; the relay will drop this query\n", err)
	}

	msg := new(mdns.Msg)
	msg.SetQuestion(mdns.Fqdn(*name), code)
	msg.RecursionDesired = !*noRD

	client := &mdns.Client{Net: "udp", Timeout: *timeout, UDPSize: resolvers.MaxPacketSize}
	resp, rtt, err := client.Exchange(msg, *server)
	if err != nil {
		if !*quiet {
			fmt.Fprintf(os.Stderr, "dnsquery error: %v\n", err)
		}
		os.Exit(1)
	}
	if *quiet {
		return
	}

	fmt.Printf("id=%d rcode=%s answers=%d authorities=%d additionals=%d rtt=%s\n",
		resp.Id,
		mdns.RcodeToString[resp.Rcode],
		len(resp.Answer),
		len(resp.Ns),
		len(resp.Extra),
		rtt.Round(time.Microsecond),
	)

	rows := make([]string, 0, len(resp.Answer))
	for _, rr := range resp.Answer {
		rows = append(rows, rr.String())
	}
	sort.Strings(rows)
	for _, s := range rows {
		fmt.Println(s)
	}
}
