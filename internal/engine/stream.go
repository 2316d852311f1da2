/*
PURPOSE:
  Stream frame decoder. Turns the raw byte chunks of an event-stream response
  body into an ordered sequence of text lines, independent of how the
  transport fragments the data.

REQUIREMENTS:
  User-specified:
  - A chunk boundary may fall anywhere: mid-line, even mid multi-byte rune.
  - The final line must be emitted even without a trailing newline.

  Implementation-discovered:
  - Byte-level carry is enough for UTF-8 safety: '\n' (0x0A) never appears
    inside a multi-byte sequence, so an incomplete rune simply stays in the
    carry buffer until its remaining bytes arrive.
  - Comment lines (":" prefix) must pass through untouched; classifying them
    is the assembler's job, not the decoder's.

ARCHITECTURE INTEGRATION:
  - Fed by: internal/engine/client.go (HTTP response body reads)
  - Feeds: internal/engine/events.go (ProtocolEvent assembly)

ERROR HANDLING:
  - The decoder itself cannot fail; read errors belong to the caller.

IMPLEMENTATION RULES:
  - Split on '\n', strip one trailing '\r'.
  - Empty chunks are legal and contribute nothing.
  - One decoder per stream; not restartable.

USAGE:
  var d engine.LineDecoder
  lines := d.Feed(chunk)   // per chunk
  last, ok := d.Flush()    // once, at EOF

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/engine/events.go

MAINTENANCE:
  - None expected; the framing rules are fixed by the wire protocol.
*/

package engine

import (
	"bytes"
	"strings"
)

// LineDecoder reassembles complete lines from arbitrarily fragmented byte
// chunks. The zero value is ready to use. Tied to one stream.
type LineDecoder struct {
	carry []byte
}

// Feed appends a chunk and returns every complete line it unlocked, in
// order. A trailing partial line stays buffered for the next chunk.
func (d *LineDecoder) Feed(chunk []byte) []string {
	if len(chunk) == 0 {
		return nil
	}
	d.carry = append(d.carry, chunk...)

	var lines []string
	for {
		i := bytes.IndexByte(d.carry, '\n')
		if i < 0 {
			return lines
		}
		lines = append(lines, strings.TrimSuffix(string(d.carry[:i]), "\r"))
		d.carry = d.carry[i+1:]
	}
}

// Flush emits the final unterminated line, if any. Call exactly once, after
// the last chunk; streams may legally end without a closing newline.
func (d *LineDecoder) Flush() (string, bool) {
	if len(d.carry) == 0 {
		return "", false
	}
	line := strings.TrimSuffix(string(d.carry), "\r")
	d.carry = nil
	return line, true
}
