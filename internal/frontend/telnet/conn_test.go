package telnet

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestFilterIAC(t *testing.T) {
	cases := map[string]struct {
		in, want []byte
	}{
		"plain":       {[]byte("hello"), []byte("hello")},
		"will":        {[]byte{IAC, WILL, OptEcho, 'h', 'i'}, []byte("hi")},
		"do mid":      {[]byte{'a', IAC, DO, OptLinemode, 'b'}, []byte("ab")},
		"only dont":   {[]byte{IAC, DONT, OptEcho}, []byte{}},
		"subneg":      {[]byte{IAC, SB, 24, 0, 'x', 't', 'e', 'r', 'm', IAC, SE, 'z'}, []byte("z")},
		"escaped iac": {[]byte{'a', IAC, IAC, 'b'}, []byte{'a', IAC, 'b'}},
		"nop":         {[]byte{'x', IAC, NOP, 'y'}, []byte("xy")},
		"iac in sub":  {[]byte{IAC, SB, 1, IAC, IAC, 2, IAC, SE, 'k'}, []byte("k")},
	}
	for name, tc := range cases {
		assert.Equal(t, tc.want, FilterIAC(tc.in), name)
	}
}

// Escaping payload IACs and interleaving negotiations must filter back to
// the original payload.
func TestPropertyFilterIAC_RecoversPayload(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		payload := rapid.SliceOf(rapid.Byte()).Draw(t, "payload")
		var wire []byte
		for _, b := range payload {
			if rapid.IntRange(0, 4).Draw(t, "negotiate") == 0 {
				verb := rapid.SampledFrom([]byte{WILL, WONT, DO, DONT}).Draw(t, "verb")
				wire = append(wire, IAC, verb, rapid.Byte().Draw(t, "option"))
			}
			if b == IAC {
				wire = append(wire, IAC, IAC)
			} else {
				wire = append(wire, b)
			}
		}
		got := FilterIAC(wire)
		if len(payload) == 0 {
			assert.Empty(t, got)
			return
		}
		assert.Equal(t, payload, got)
	})
}

func TestPropertyFilterIAC_NeverGrows(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := rapid.SliceOf(rapid.Byte()).Draw(t, "input")
		assert.LessOrEqual(t, len(FilterIAC(in)), len(in))
	})
}

func pipeConn(t *testing.T) (*Conn, net.Conn) {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() {
		_ = server.Close()
		_ = client.Close()
	})
	return NewConn(server, 2*time.Second, 2*time.Second), client
}

func TestReadLine_FiltersAndSplits(t *testing.T) {
	conn, client := pipeConn(t)
	go func() {
		_, _ = client.Write([]byte{'l', 'o', IAC, WILL, OptEcho, 'g', 0x07, 'i', 'n', '\r', '\n'})
		_, _ = client.Write([]byte("bare\rnext\n"))
	}()

	line, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "login", line)

	line, err = conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "bare", line)

	line, err = conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "next", line)
}

func TestPrompt(t *testing.T) {
	conn, client := pipeConn(t)
	go func() {
		buf := make([]byte, 16)
		n, _ := client.Read(buf)
		if string(buf[:n]) == "> " {
			_, _ = client.Write([]byte("  roll 5  \r\n"))
		}
	}()
	reply, err := conn.Prompt("> ")
	require.NoError(t, err)
	assert.Equal(t, "roll 5", reply)
}

func TestWriteLines(t *testing.T) {
	conn, client := pipeConn(t)
	got := make(chan string, 1)
	go func() {
		buf := make([]byte, 64)
		n, _ := client.Read(buf)
		got <- string(buf[:n])
	}()
	require.NoError(t, conn.WriteLines("one", "two"))
	assert.Equal(t, "one\r\ntwo\r\n", <-got)
	assert.NoError(t, conn.WriteLines())
}
