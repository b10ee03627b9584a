package testutil

import (
	"bytes"
	"fmt"
	"net"
	"testing"
	"time"
)

// ExchangeTimeout bounds each Exchange read.
const ExchangeTimeout = 2 * time.Second

// TelnetClient drives a console session over a raw TCP connection.
// Output is read in chunks, so a read may return bytes past the match;
// read each response up to the prompt that follows it.
type TelnetClient struct {
	conn net.Conn
	t    *testing.T
}

// NewTelnetClient dials addr. The connection is closed when t finishes.
//
// Precondition: addr must be a listening "host:port".
// Postcondition: Returns a connected client or fails the test.
func NewTelnetClient(t *testing.T, addr string) *TelnetClient {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		t.Fatalf("dialing console at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return &TelnetClient{conn: conn, t: t}
}

// ReadUntil returns everything read until substr appears.
//
// Postcondition: the result contains substr, or the test fails on timeout.
func (c *TelnetClient) ReadUntil(substr string, timeout time.Duration) string {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))

	var buf bytes.Buffer
	chunk := make([]byte, 1024)
	want := []byte(substr)
	for {
		n, err := c.conn.Read(chunk)
		buf.Write(chunk[:n])
		if bytes.Contains(buf.Bytes(), want) {
			return buf.String()
		}
		if err != nil {
			c.t.Fatalf("waiting for %q: read %q: %v", substr, buf.String(), err)
		}
	}
}

// Send writes text followed by CRLF.
func (c *TelnetClient) Send(text string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := fmt.Fprintf(c.conn, "%s\r\n", text); err != nil {
		c.t.Fatalf("sending %q: %v", text, err)
	}
}

// Exchange sends line and returns the response up to the next prompt.
func (c *TelnetClient) Exchange(line, prompt string) string {
	c.t.Helper()
	c.Send(line)
	return c.ReadUntil(prompt, ExchangeTimeout)
}

// Close closes the connection early.
func (c *TelnetClient) Close() {
	_ = c.conn.Close()
}
