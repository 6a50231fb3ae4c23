package online

import (
	"bytes"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsOnlineWithLocalListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()

	p := New(ln.Addr().String(), time.Second)
	assert.True(t, p.IsOnline())
}

func TestIsOnlineDialFailure(t *testing.T) {
	p := New("example.invalid:1", 100*time.Millisecond)
	p.dial = func(network, address string, timeout time.Duration) (net.Conn, error) {
		return nil, errors.New("no route to host")
	}

	assert.False(t, p.IsOnline())
}

func TestDialFailureLogsUnreachableCode(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Logger
	origLevel := zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	defer func() {
		log.Logger = orig
		zerolog.SetGlobalLevel(origLevel)
	}()

	p := New("example.invalid:1", 100*time.Millisecond)
	p.dial = func(network, address string, timeout time.Duration) (net.Conn, error) {
		return nil, errors.New("no route to host")
	}

	require.False(t, p.IsOnline())
	assert.Contains(t, buf.String(), "NET_UNREACHABLE")
}

func TestIsOnlineNeverPanicsOnNilDial(t *testing.T) {
	// zero-value prober must still behave, mapping failure to offline
	p := &DialProber{Host: "127.0.0.1:1", Timeout: 50 * time.Millisecond}
	assert.NotPanics(t, func() { _ = p.IsOnline() })
}
