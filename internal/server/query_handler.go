// Package server implements the relay's UDP listener and request dispatch.
package server

import (
	"context"
	"log/slog"

	"github.com/jroosing/dnsrelay/internal/dns"
	"github.com/jroosing/dnsrelay/internal/resolvers"
)

// QueryHandler decodes a request, forwards it through a resolver and picks
// the reply to send back.
type QueryHandler struct {
	Logger   *slog.Logger       // Optional logger for debug output
	Resolver resolvers.Resolver // Upstream forwarder
	Stats    *RelayStats        // Optional statistics collector
}

// ParseAndHandle processes one inbound datagram.
//
// Processing steps:
//  1. Decode the raw bytes. A malformed request is returned as an error and
//     no reply is produced for it.
//  2. Forward the decoded request to the resolver.
//  3. On success, return the upstream reply verbatim.
//  4. On any forwarding failure, return a synthesized SERVFAIL that echoes
//     the request ID, opcode and AA flag.
func (h *QueryHandler) ParseAndHandle(ctx context.Context, raw []byte) (*dns.Response, error) {
	req, err := dns.ParseRequest(raw)
	if err != nil {
		h.Stats.RecordMalformed()
		return nil, err
	}

	qname, qtype := extractQuestionInfo(req)
	h.logDebug(ctx, "handling request",
		"id", int(req.Header.ID),
		"questions", len(req.Questions),
		"qname", qname,
		"qtype", qtype,
	)

	res, err := h.Resolver.Resolve(ctx, req)
	if err != nil {
		h.Stats.RecordServFail()
		if h.Logger != nil {
			h.Logger.Warn("upstream forwarding failed",
				"id", int(req.Header.ID),
				"qname", qname,
				"err", err,
			)
		}
		return dns.ServerFailure(req.Header), nil
	}

	h.Stats.RecordForwarded(res.Latency)
	h.logDebug(ctx, "upstream reply",
		"id", int(req.Header.ID),
		"rcode", res.Response.Header.RCode.String(),
		"latency_ms", res.Latency.Milliseconds(),
	)
	return res.Response, nil
}

// extractQuestionInfo extracts the QNAME and QTYPE of the first question.
func extractQuestionInfo(req *dns.Request) (qname, qtype string) {
	if len(req.Questions) == 0 {
		return "<no-question>", "-"
	}
	return req.Questions[0].Name, req.Questions[0].Type.String()
}

func (h *QueryHandler) logDebug(ctx context.Context, msg string, args ...any) {
	if h.Logger == nil || !h.Logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	h.Logger.Debug(msg, args...)
}
