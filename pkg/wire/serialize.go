package wire

import (
	"bytes"
	"fmt"
	"io"
)

// WriteResponse serializes resp onto w as status line, headers, blank line,
// body — in that order, with insertion-order headers. Callers must call
// Finalize before WriteResponse so the length/type invariants hold.
func WriteResponse(w io.Writer, resp *Response) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "HTTP/1.1 %d %s\r\n", resp.Status, resp.Reason)
	for _, h := range resp.Headers {
		fmt.Fprintf(&buf, "%s: %s\r\n", h.Name, h.Value)
	}
	buf.WriteString("\r\n")
	if len(resp.Body) > 0 {
		buf.Write(resp.Body)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
