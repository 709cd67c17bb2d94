package core

// decode.go turns uploaded bytes into the UTF-8 text the tokenizer expects.
//
// Spreadsheet exports arrive in a handful of encodings:
//
//   - UTF-8, with or without the 0xEF 0xBB 0xBF BOM Excel likes to add
//   - UTF-16 LE/BE with a BOM ("Unicode Text" exports)
//   - Windows-1252 from older Windows tools, detected as invalid UTF-8
//
// Whatever the source, the decoded text is NFC-normalised so composed and
// decomposed accents compare equal downstream.

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/JonMunkholm/csvclean/internal/table"
)

// Encoding names a detected input encoding.
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingUTF8BOM     Encoding = "utf-8-bom"
	EncodingUTF16LE     Encoding = "utf-16le"
	EncodingUTF16BE     Encoding = "utf-16be"
	EncodingWindows1252 Encoding = "windows-1252"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectEncoding inspects the BOM and byte validity of raw.
func DetectEncoding(raw []byte) Encoding {
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		return EncodingUTF8BOM
	case bytes.HasPrefix(raw, bomUTF16LE):
		return EncodingUTF16LE
	case bytes.HasPrefix(raw, bomUTF16BE):
		return EncodingUTF16BE
	case utf8.Valid(raw):
		return EncodingUTF8
	default:
		return EncodingWindows1252
	}
}

func decoderFor(enc Encoding) transform.Transformer {
	switch enc {
	case EncodingUTF8BOM, EncodingUTF16LE, EncodingUTF16BE:
		// BOMOverride consumes the BOM and picks the matching decoder.
		return unicode.BOMOverride(unicode.UTF8.NewDecoder())
	case EncodingWindows1252:
		return charmap.Windows1252.NewDecoder()
	default:
		return transform.Nop
	}
}

// Decode converts raw input to NFC-normalised UTF-8 and reports the
// encoding it was read as.
func Decode(raw []byte) (string, Encoding, error) {
	enc := DetectEncoding(raw)
	out, _, err := transform.Bytes(transform.Chain(decoderFor(enc), norm.NFC), raw)
	if err != nil {
		return "", enc, fmt.Errorf("encoding error: decode %s: %w", enc, err)
	}
	return string(out), enc, nil
}

// ReadInput reads at most maxBytes from r. Longer input is rejected with
// table.ErrInputTooLarge instead of being truncated.
func ReadInput(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: exceeds limit of %d bytes", table.ErrInputTooLarge, maxBytes)
	}
	return data, nil
}
