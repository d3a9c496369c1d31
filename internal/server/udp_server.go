package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/jroosing/dnsrelay/internal/pool"
	"github.com/jroosing/dnsrelay/internal/resolvers"
)

// readPollInterval bounds each blocking read so the loop notices shutdown.
const readPollInterval = time.Second

// bufferPool reduces allocations for incoming datagrams.
var bufferPool = pool.NewBuffers(resolvers.MaxPacketSize)

// UDPServer accepts DNS requests over UDP and relays them through a
// QueryHandler. Every datagram is handled on its own goroutine so one slow
// forward never delays replies to other clients.
type UDPServer struct {
	Logger         *slog.Logger  // Optional logger
	Handler        *QueryHandler // Query processor
	Stats          *RelayStats   // Optional statistics collector
	Limiter        *RateLimiter  // Optional per-source rate limiter
	MaxConcurrency int           // In-flight handler cap; 0 means unbounded
	ReusePort      bool          // Set SO_REUSEPORT on the listening socket

	mu      sync.Mutex
	conn    *net.UDPConn
	stopped bool
	wg      sync.WaitGroup
	sem     chan struct{}
}

// Run binds addr and serves until ctx is cancelled. A bind failure is
// returned immediately.
func (s *UDPServer) Run(ctx context.Context, addr string) error {
	conn, err := s.listen(ctx, addr)
	if err != nil {
		return fmt.Errorf("udp listen %s: %w", addr, err)
	}
	if s.Logger != nil {
		s.Logger.Info("udp listener bound", "addr", conn.LocalAddr().String())
	}
	return s.RunOnConn(ctx, conn)
}

func (s *UDPServer) listen(ctx context.Context, addr string) (*net.UDPConn, error) {
	lc := net.ListenConfig{}
	if s.ReusePort {
		lc.Control = func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
			})
			if err != nil {
				return err
			}
			return sockErr
		}
	}
	pc, err := lc.ListenPacket(ctx, "udp", addr)
	if err != nil {
		return nil, err
	}
	conn, ok := pc.(*net.UDPConn)
	if !ok {
		_ = pc.Close()
		return nil, fmt.Errorf("unexpected packet conn type %T", pc)
	}
	return conn, nil
}

// Addr returns the bound local address, or nil before the server runs.
func (s *UDPServer) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

// RunOnConn serves on an existing socket until ctx is cancelled or the
// socket is closed.
//
// Request processing flow:
//  1. Read a datagram (with a short deadline for shutdown checks)
//  2. Apply rate limiting (drop if exceeded)
//  3. Acquire a concurrency slot when a cap is configured (drop if full)
//  4. Decode, forward and reply on a dedicated goroutine
func (s *UDPServer) RunOnConn(ctx context.Context, conn *net.UDPConn) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return conn.Close()
	}
	s.conn = conn
	if s.MaxConcurrency > 0 {
		s.sem = make(chan struct{}, s.MaxConcurrency)
	}
	s.mu.Unlock()
	defer conn.Close()

	for ctx.Err() == nil {
		packet, remote, err := s.receivePacket(conn)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				break
			}
			continue
		}
		if packet == nil {
			continue
		}
		s.Stats.RecordReceived()

		if !s.Limiter.AllowAddr(remote.AddrPort().Addr()) {
			s.Stats.RecordRateLimited()
			continue
		}

		if !s.tryAcquireSemaphore() {
			s.Stats.RecordDropped()
			continue
		}

		if !s.track() {
			s.releaseSemaphore()
			break
		}
		go s.handleRequest(ctx, conn, packet, remote)
	}
	return nil
}

// receivePacket reads one datagram using a pooled buffer and returns a copy
// of its payload. A nil packet with a nil error means the read timed out.
func (s *UDPServer) receivePacket(conn *net.UDPConn) ([]byte, *net.UDPAddr, error) {
	bufPtr := bufferPool.Get()
	defer bufferPool.Put(bufPtr)
	buf := *bufPtr

	_ = conn.SetReadDeadline(time.Now().Add(readPollInterval))
	n, remote, err := conn.ReadFromUDP(buf)
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return nil, nil, nil
		}
		if !errors.Is(err, net.ErrClosed) && s.Logger != nil {
			s.Logger.Warn("udp read failed", "err", err)
		}
		return nil, nil, err
	}
	if remote == nil {
		return nil, nil, nil
	}

	if n == len(buf) && s.Logger != nil {
		s.Logger.Warn("datagram filled the receive buffer, may be truncated",
			"peer", remote.String(), "bytes", n)
	}

	data := make([]byte, n)
	copy(data, buf[:n])
	return data, remote, nil
}

// track registers an in-flight request unless Stop has begun, so that Stop
// never waits on a counter that can still grow.
func (s *UDPServer) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	s.wg.Add(1)
	return true
}

// tryAcquireSemaphore reserves a handler slot. It always succeeds when no
// concurrency cap is configured.
func (s *UDPServer) tryAcquireSemaphore() bool {
	if s.sem == nil {
		return true
	}
	select {
	case s.sem <- struct{}{}:
		return true
	default:
		return false
	}
}

func (s *UDPServer) releaseSemaphore() {
	if s.sem != nil {
		<-s.sem
	}
}

// handleRequest processes a single datagram and writes the reply, if any,
// back to the exact peer it came from.
func (s *UDPServer) handleRequest(ctx context.Context, conn *net.UDPConn, payload []byte, peer *net.UDPAddr) {
	defer s.wg.Done()
	defer s.releaseSemaphore()
	defer func() {
		if r := recover(); r != nil && s.Logger != nil {
			s.Logger.Error("request handler panicked", "peer", peer.String(), "panic", r)
		}
	}()

	if s.Handler == nil {
		return
	}

	resp, err := s.Handler.ParseAndHandle(ctx, payload)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("dropping malformed request", "peer", peer.String(), "err", err)
		}
		return
	}

	out, err := resp.Marshal()
	if err != nil {
		if s.Logger != nil {
			s.Logger.Error("encoding reply failed", "peer", peer.String(), "err", err)
		}
		return
	}

	if _, err := conn.WriteToUDP(out, peer); err != nil {
		s.Stats.RecordWriteError()
		if s.Logger != nil {
			s.Logger.Warn("writing reply failed", "peer", peer.String(), "err", err)
		}
	}
}

// Stop closes the socket and waits up to timeout for in-flight requests to
// complete. A non-positive timeout waits indefinitely. Once stopped, the
// server accepts no further requests and a later RunOnConn returns at once.
func (s *UDPServer) Stop(timeout time.Duration) error {
	s.mu.Lock()
	s.stopped = true
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return nil
	}
	_ = conn.Close()

	if timeout <= 0 {
		s.wg.Wait()
		return nil
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return errors.New("udp server: timeout waiting for in-flight requests")
	}
}
