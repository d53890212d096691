// Package replicate forwards already-decoded entries as live RESP
// commands to a Redis-protocol-compatible server, the mirror image of
// savannahar68-echo-server's core/resp.go decoder: that package turns
// wire bytes into values, this one turns values into wire bytes.
package replicate

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// EncodeCommand builds a RESP array-of-bulk-strings command, the format
// every Redis client uses to issue commands regardless of reply type.
// Example: EncodeCommand("SET", "k", "v") => "*3\r\n$3\r\nSET\r\n$1\r\nk\r\n$1\r\nv\r\n".
func EncodeCommand(args ...string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "*%d\r\n", len(args))
	for _, a := range args {
		fmt.Fprintf(&b, "$%d\r\n%s\r\n", len(a), a)
	}
	return []byte(b.String())
}

// ReadReply reads one RESP reply off r and returns its payload as a
// string, following the same five type-byte dispatch as resp.go's
// DecodeOne but against a stream instead of an in-memory buffer.
func ReadReply(r *bufio.Reader) (string, error) {
	line, err := readLine(r)
	if err != nil {
		return "", errors.Wrap(err, "reading reply")
	}
	if len(line) == 0 {
		return "", errors.New("empty reply")
	}

	switch line[0] {
	case '+':
		return line[1:], nil
	case '-':
		return "", errors.Errorf("server error: %s", line[1:])
	case ':':
		return line[1:], nil
	case '$':
		n, err := strconv.Atoi(line[1:])
		if err != nil {
			return "", errors.Wrap(err, "parsing bulk length")
		}
		if n < 0 {
			return "", nil // nil bulk reply
		}
		buf := make([]byte, n+2) // payload plus trailing \r\n
		if _, err := readFull(r, buf); err != nil {
			return "", errors.Wrap(err, "reading bulk payload")
		}
		return string(buf[:n]), nil
	case '*':
		n, err := strconv.Atoi(line[1:])
		if err != nil {
			return "", errors.Wrap(err, "parsing array length")
		}
		var parts []string
		for i := 0; i < n; i++ {
			part, err := ReadReply(r)
			if err != nil {
				return "", err
			}
			parts = append(parts, part)
		}
		return strings.Join(parts, " "), nil
	default:
		return "", errors.Errorf("unrecognized reply type byte %q", line[0])
	}
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
