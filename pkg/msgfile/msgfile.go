// Package msgfile reads Outlook .msg files. A .msg file is an OLE2 compound
// document whose MAPI properties live in named streams; the interesting ones
// here are the top-level subject, sender and plain-text body.
package msgfile

import (
	"fmt"
	"io"
	"strings"

	"github.com/richardlehane/mscfb"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// MAPI property streams of interest. The last four hex digits of a stream
// name encode the property type: 001F is UTF-16LE, 001E is the legacy 8-bit
// codepage variant.
const (
	streamBodyUnicode    = "__substg1.0_1000001F"
	streamBodyANSI       = "__substg1.0_1000001E"
	streamSubjectUnicode = "__substg1.0_0037001F"
	streamSubjectANSI    = "__substg1.0_0037001E"
	streamSenderUnicode  = "__substg1.0_0C1A001F"
	streamSenderANSI     = "__substg1.0_0C1A001E"
)

// Message holds the fields extracted from a .msg file. Properties absent from
// the file are left empty.
type Message struct {
	Subject string
	Sender  string
	Body    string
}

// Extract parses the compound document in r and pulls out the top-level
// message properties. It fails only when the container itself is unreadable;
// a message without a body yields an empty Body.
func Extract(r io.ReaderAt) (Message, error) {
	doc, err := mscfb.New(r)
	if err != nil {
		return Message{}, fmt.Errorf("parse msg container: %w", err)
	}

	streams := make(map[string][]byte)
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		// Streams inside substorages belong to attachments and recipients.
		if len(entry.Path) != 0 {
			continue
		}
		switch entry.Name {
		case streamBodyUnicode, streamBodyANSI,
			streamSubjectUnicode, streamSubjectANSI,
			streamSenderUnicode, streamSenderANSI:
			b, err := io.ReadAll(entry)
			if err != nil {
				continue
			}
			streams[entry.Name] = b
		}
	}

	return assemble(streams), nil
}

// assemble picks the best available stream per field, preferring the UTF-16
// variant over the legacy codepage one.
func assemble(streams map[string][]byte) Message {
	return Message{
		Subject: decodePreferred(streams, streamSubjectUnicode, streamSubjectANSI),
		Sender:  decodePreferred(streams, streamSenderUnicode, streamSenderANSI),
		Body:    decodePreferred(streams, streamBodyUnicode, streamBodyANSI),
	}
}

func decodePreferred(streams map[string][]byte, unicodeName, ansiName string) string {
	if b, ok := streams[unicodeName]; ok {
		return clean(decodeUTF16LE(b))
	}
	if b, ok := streams[ansiName]; ok {
		return clean(decodeWindows1252(b))
	}
	return ""
}

// clean drops the NUL terminators MAPI strings sometimes carry, then trims.
func clean(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

func decodeUTF16LE(b []byte) string {
	out, err := utf16le.NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return string(out)
}

func decodeWindows1252(b []byte) string {
	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return string(out)
}
