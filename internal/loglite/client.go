package loglite

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"evewatch/internal/record"
)

const dialTimeout = 3 * time.Second

// Client ships formatted log lines to a local EveLogLite viewer.
// Delivery is best-effort: a failed connection yields a usable client
// whose sends are dropped, and a mid-stream write error disconnects
// silently. Nothing is ever retried or queued.
type Client struct {
	logger *pterm.Logger

	mu        sync.Mutex
	conn      net.Conn
	connected bool

	now func() time.Time
}

// Dial connects to the viewer on server's default port and sends the
// handshake.
func Dial(server string, logger *pterm.Logger) *Client {
	return DialAddr(net.JoinHostPort(server, strconv.Itoa(DefaultPort)), logger)
}

// DialAddr is Dial with an explicit host:port.
func DialAddr(addr string, logger *pterm.Logger) *Client {
	c := &Client{logger: logger, now: time.Now}

	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		logger.Warn("Could not connect to LogLite viewer, log forwarding disabled",
			logger.Args("addr", addr, "error", err))
		return c
	}
	c.conn = conn
	c.connected = true

	host, _ := os.Hostname()
	exe, _ := os.Executable()
	c.mu.Lock()
	c.sendLocked(encodeConnection(int64(os.Getpid()), host, exe))
	c.mu.Unlock()
	return c
}

// Connected reports whether the viewer connection is up.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Log forwards one formatted line. Messages longer than 255 bytes are
// split into a large frame, continuation frames, and a final
// continuation-end frame.
func (c *Client) Log(sev Severity, message, module, channel string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return
	}

	ts := uint64(c.now().UnixMilli())
	if len(message) <= maxTextLen {
		c.sendLocked(encodeText(simpleMessage, ts, sev, module, channel, message))
		return
	}

	chunks := splitChunks(message, maxTextLen)
	for i, chunk := range chunks {
		mt := continuationMessage
		switch i {
		case 0:
			mt = largeMessage
		case len(chunks) - 1:
			mt = continuationEndMessage
		}
		c.sendLocked(encodeText(mt, ts, sev, module, channel, chunk))
	}
}

// LogCrash forwards a crash record summary on the Crashes channel.
func (c *Client) LogCrash(rec record.Record) {
	var details string
	switch rec.Type {
	case record.TypeProcessTermination:
		details = fmt.Sprintf("pid %d after %.1fs (suspected=%t)",
			rec.Process.PID, rec.Process.RuntimeSeconds, rec.Process.SuspectedCrash)
	case record.TypeEventLogError:
		details = fmt.Sprintf("event %d from %s", rec.EventLog.EventID, rec.EventLog.Source)
	case record.TypeLogPatternMatch:
		details = fmt.Sprintf("%q in %s:%d", rec.Pattern.Pattern, rec.Pattern.File, rec.Pattern.LineNumber)
	}
	c.Log(SeverityError, fmt.Sprintf("CRASH: %s - %s", rec.Type, details), "CrashMonitor", "Crashes")
}

// Close tears down the viewer connection. Safe to call when never
// connected.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return
	}
	_ = c.conn.Close()
	c.connected = false
}

// sendLocked writes one frame, dropping the connection on error.
// Caller holds c.mu.
func (c *Client) sendLocked(frame []byte) {
	if _, err := c.conn.Write(frame); err != nil {
		c.logger.Debug("LogLite send failed, dropping connection",
			c.logger.Args("error", err))
		_ = c.conn.Close()
		c.connected = false
	}
}
