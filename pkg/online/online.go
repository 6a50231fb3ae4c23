// Package online reports reachability of the remote sync endpoint.
package online

import (
	"net"
	"time"

	"github.com/arthur-debert/savesync/pkg/errors"
	"github.com/arthur-debert/savesync/pkg/logging"
)

// Prober answers whether the remote endpoint is reachable
type Prober interface {
	IsOnline() bool
}

// DialProber checks connectivity with a single bounded TCP dial against a
// well-known host. Any failure (DNS, timeout, permission) counts as
// offline; there are no retries. The caller decides whether offline mode
// is acceptable.
type DialProber struct {
	Host    string
	Timeout time.Duration

	// dial is swappable for tests
	dial func(network, address string, timeout time.Duration) (net.Conn, error)
}

// New creates a DialProber for the given host ("host:port")
func New(host string, timeout time.Duration) *DialProber {
	return &DialProber{
		Host:    host,
		Timeout: timeout,
		dial:    net.DialTimeout,
	}
}

// IsOnline never returns an error; it maps every failure to false
func (p *DialProber) IsOnline() bool {
	logger := logging.GetLogger("online")

	dial := p.dial
	if dial == nil {
		dial = net.DialTimeout
	}

	conn, err := dial("tcp", p.Host, p.Timeout)
	if err != nil {
		logger.Debug().
			Err(errors.Wrap(err, errors.ErrNetUnreachable, "remote endpoint unreachable")).
			Str("host", p.Host).
			Msg("Probe failed, treating as offline")
		return false
	}
	_ = conn.Close()

	logger.Trace().Str("host", p.Host).Msg("Probe succeeded")
	return true
}
