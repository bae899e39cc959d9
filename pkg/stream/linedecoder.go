// Package stream decodes the body of a long-lived watch response into logical
// text lines. The decoder is push-based: network code hands it raw chunks as
// they arrive, and it emits whatever complete lines those chunks finish.
package stream

import (
	"mime"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// EncodingFor selects the character encoding declared by a Content-Type
// header. A missing header is an error; a present header without a charset
// parameter defaults to UTF-8.
func EncodingFor(contentType string) (encoding.Encoding, error) {
	if contentType == "" {
		return nil, errors.New("response has no Content-Type header")
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing Content-Type %q", contentType)
	}
	name := params["charset"]
	if name == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, errors.Wrapf(err, "unsupported charset %q", name)
	}
	return enc, nil
}

// LineDecoder turns a sequence of raw byte chunks into a sequence of lines.
// Chunk boundaries carry no meaning: a line, a CRLF pair, or a multi-byte
// character may all be split across chunks. A LineDecoder belongs to exactly
// one stream; it is not safe for concurrent use.
type LineDecoder struct {
	dec     transform.Transformer
	carry   []byte // undecoded tail of the previous chunk (incomplete multi-byte sequence)
	pending strings.Builder
	skipLF  bool // last character seen was CR; a directly following LF is part of the same break
}

// NewLineDecoder returns a decoder for a stream in the given encoding.
// A nil encoding means UTF-8.
func NewLineDecoder(enc encoding.Encoding) *LineDecoder {
	if enc == nil {
		enc = unicode.UTF8
	}
	return &LineDecoder{dec: enc.NewDecoder()}
}

// Decode consumes one chunk and returns the lines it completed, in order.
// Characters after the last terminator stay buffered for the next call.
func (d *LineDecoder) Decode(chunk []byte) []string {
	src := chunk
	if len(d.carry) > 0 {
		src = append(d.carry, chunk...)
		d.carry = nil
	}
	return d.scan(d.transform(src, false))
}

// Flush ends the stream and returns the trailing line, if the stream did not
// end with a terminator. The decoder must not be used after Flush.
func (d *LineDecoder) Flush() (string, bool) {
	carry := d.carry
	d.carry = nil
	// At EOF the character decoder substitutes replacement characters for a
	// dangling partial sequence rather than holding on to it.
	d.scan(d.transform(carry, true))
	d.skipLF = false
	if d.pending.Len() == 0 {
		return "", false
	}
	line := d.pending.String()
	d.pending.Reset()
	return line, true
}

// transform runs the charset decoder over src, retaining any undecodable tail
// in d.carry when atEOF is false.
func (d *LineDecoder) transform(src []byte, atEOF bool) []byte {
	var out []byte
	dst := make([]byte, 4096)
	for {
		nDst, nSrc, err := d.dec.Transform(dst, src, atEOF)
		out = append(out, dst[:nDst]...)
		src = src[nSrc:]
		switch err {
		case nil:
			return out
		case transform.ErrShortDst:
			// keep going with the same dst buffer
		case transform.ErrShortSrc:
			d.carry = append([]byte(nil), src...)
			return out
		default:
			// Decoders for the encodings we negotiate substitute rather than
			// fail; if one errors anyway, substitute a replacement character
			// and resynchronize on the next byte.
			out = append(out, []byte("�")...)
			if len(src) == 0 {
				return out
			}
			src = src[1:]
		}
	}
}

// scan walks decoded characters, splitting on LF, CR, and CRLF. A CRLF pair
// counts as a single break even when the CR and LF arrive in different chunks.
func (d *LineDecoder) scan(decoded []byte) []string {
	var lines []string
	for _, r := range string(decoded) {
		if d.skipLF {
			d.skipLF = false
			if r == '\n' {
				continue
			}
		}
		switch r {
		case '\r':
			lines = append(lines, d.pending.String())
			d.pending.Reset()
			d.skipLF = true
		case '\n':
			lines = append(lines, d.pending.String())
			d.pending.Reset()
		default:
			d.pending.WriteRune(r)
		}
	}
	return lines
}
