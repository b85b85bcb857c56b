package respgen

import (
	"bufio"
	"fmt"
	"net"
	"net/http"

	"github.com/getmockd/mockd/pkg/mapping"
)

// ApplyFault writes a deliberately broken response in place of body,
// bypassing the normal header emission rules (spec.md 4.10). It is called
// from the HTTP adapter boundary, not from Generate, because
// MalformedResponse and AbortAfterBytes need to hijack the connection.
func ApplyFault(w http.ResponseWriter, fault *mapping.Fault, statusCode int, body []byte) error {
	switch fault.Kind {
	case mapping.FaultEmptyResponse:
		w.WriteHeader(statusCode)
		return nil

	case mapping.FaultAbortAfterBytes:
		conn, buf, err := hijack(w)
		if err != nil {
			// Hijacking unsupported (e.g. in tests using httptest.ResponseRecorder):
			// fall back to writing a truncated body without closing the connection.
			w.WriteHeader(statusCode)
			n := fault.AfterBytes
			if n > len(body) {
				n = len(body)
			}
			_, writeErr := w.Write(body[:n])
			return writeErr
		}
		defer conn.Close()
		n := fault.AfterBytes
		if n > len(body) {
			n = len(body)
		}
		writeStatusLine(buf, statusCode)
		buf.Write(body[:n])
		return buf.Flush()

	case mapping.FaultMalformedResponse:
		conn, buf, err := hijack(w)
		if err != nil {
			w.WriteHeader(statusCode)
			return nil
		}
		defer conn.Close()
		// Deliberately malformed: a status line with no headers, no
		// terminating blank line, and a body cut mid-stream.
		fmt.Fprintf(buf, "HTTP/1.1 %d %s\r\n", statusCode, http.StatusText(statusCode))
		buf.Write(body[:len(body)/2])
		buf.Flush()
		return nil
	}
	return nil
}

func hijack(w http.ResponseWriter) (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.(http.Hijacker)
	if !ok {
		return nil, nil, errNotHijackable
	}
	return hj.Hijack()
}

func writeStatusLine(buf *bufio.ReadWriter, statusCode int) {
	fmt.Fprintf(buf, "HTTP/1.1 %d %s\r\n\r\n", statusCode, http.StatusText(statusCode))
}

var errNotHijackable = &hijackError{}

type hijackError struct{}

func (*hijackError) Error() string { return "respgen: response writer does not support hijacking" }
