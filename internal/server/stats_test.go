package server

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelayStats_Snapshot(t *testing.T) {
	s := NewRelayStats()
	s.RecordReceived()
	s.RecordReceived()
	s.RecordReceived()
	s.RecordMalformed()
	s.RecordForwarded(10 * time.Millisecond)
	s.RecordForwarded(30 * time.Millisecond)
	s.RecordServFail()
	s.RecordWriteError()
	s.RecordDropped()
	s.RecordRateLimited()

	snap := s.Snapshot()
	assert.Equal(t, uint64(3), snap.Received)
	assert.Equal(t, uint64(1), snap.Malformed)
	assert.Equal(t, uint64(2), snap.Forwarded)
	assert.Equal(t, uint64(1), snap.ServFail)
	assert.Equal(t, uint64(1), snap.WriteErrors)
	assert.Equal(t, uint64(1), snap.Dropped)
	assert.Equal(t, uint64(1), snap.RateLimited)
	assert.Equal(t, 40*time.Millisecond, snap.LatencyTotal)
	assert.InDelta(t, 20.0, snap.AvgLatencyMs, 0.0001)
}

func TestRelayStats_NoForwardsMeansZeroAverage(t *testing.T) {
	s := NewRelayStats()
	s.RecordServFail()
	assert.Zero(t, s.Snapshot().AvgLatencyMs)
}

func TestRelayStats_NegativeLatencyIgnored(t *testing.T) {
	s := NewRelayStats()
	s.RecordForwarded(-time.Second)
	snap := s.Snapshot()
	assert.Equal(t, uint64(1), snap.Forwarded)
	assert.Zero(t, snap.LatencyTotal)
}

func TestRelayStats_NilReceiver(t *testing.T) {
	var s *RelayStats
	assert.NotPanics(t, func() {
		s.RecordReceived()
		s.RecordMalformed()
		s.RecordForwarded(time.Second)
		s.RecordServFail()
		s.RecordWriteError()
		s.RecordDropped()
		s.RecordRateLimited()
	})
	assert.Equal(t, RelayStatsSnapshot{}, s.Snapshot())
}

func TestRelayStats_Concurrent(t *testing.T) {
	s := NewRelayStats()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				s.RecordReceived()
				s.RecordForwarded(time.Microsecond)
			}
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.Equal(t, uint64(8000), snap.Received)
	assert.Equal(t, uint64(8000), snap.Forwarded)
	assert.Equal(t, 8*time.Millisecond, snap.LatencyTotal)
}
