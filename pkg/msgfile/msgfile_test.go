package msgfile

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
	"unicode/utf16"

	"jira-support-triage/internal/msgtest"
)

// utf16leBytes encodes s the way a __substg1.0_xxxx001F stream stores it.
func utf16leBytes(s string) []byte {
	units := utf16.Encode([]rune(s))
	b := make([]byte, 0, len(units)*2)
	for _, u := range units {
		b = binary.LittleEndian.AppendUint16(b, u)
	}
	return b
}

func TestExtract_CompoundFixture(t *testing.T) {
	const body = "Hello,\n\nthe VPN drops every 20 minutes since Monday.\n\nRegards,\nDana"
	raw := msgtest.BuildMsg(body)

	msg, err := Extract(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if msg.Body != body {
		t.Fatalf("Body = %q, want %q", msg.Body, body)
	}
	if msg.Subject != "" || msg.Sender != "" {
		t.Fatalf("fixture has no subject or sender, got %+v", msg)
	}
}

func TestExtract_RejectsNonCompoundFile(t *testing.T) {
	_, err := Extract(bytes.NewReader([]byte("From: someone\r\n\r\nplain rfc822 mail")))
	if err == nil {
		t.Fatal("Extract accepted a non-OLE2 payload")
	}
	if !strings.Contains(err.Error(), "parse msg container") {
		t.Fatalf("error = %q, want msg container context", err)
	}
}

func TestAssemble_PrefersUnicodeStreams(t *testing.T) {
	streams := map[string][]byte{
		streamBodyUnicode: utf16leBytes("unicode body"),
		streamBodyANSI:    []byte("ansi body"),
		streamSubjectANSI: []byte("printer is on fire"),
	}

	msg := assemble(streams)
	if msg.Body != "unicode body" {
		t.Fatalf("Body = %q, want the UTF-16 variant", msg.Body)
	}
	if msg.Subject != "printer is on fire" {
		t.Fatalf("Subject = %q", msg.Subject)
	}
	if msg.Sender != "" {
		t.Fatalf("Sender = %q, want empty", msg.Sender)
	}
}

func TestAssemble_ANSIUsesWindows1252(t *testing.T) {
	streams := map[string][]byte{
		// 0x93/0x94 are the curly quotes that are invalid UTF-8 on their own.
		streamBodyANSI: {0x93, 'h', 'i', 0x94},
	}

	msg := assemble(streams)
	if msg.Body != "“hi”" {
		t.Fatalf("Body = %q, want curly-quoted hi", msg.Body)
	}
}

func TestAssemble_MissingBodyIsEmptyNotError(t *testing.T) {
	streams := map[string][]byte{
		streamSubjectUnicode: utf16leBytes("subject only"),
		streamSenderUnicode:  utf16leBytes("Dana Q. User"),
	}

	msg := assemble(streams)
	if msg.Body != "" {
		t.Fatalf("Body = %q, want empty", msg.Body)
	}
	if msg.Subject != "subject only" || msg.Sender != "Dana Q. User" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestClean_DropsNulTerminatorsAndPadding(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"body\x00", "body"},
		{"body\x00\x00", "body"},
		{"  spaced  ", "spaced"},
		{"\x00", ""},
	}
	for _, tc := range cases {
		if got := clean(tc.in); got != tc.want {
			t.Fatalf("clean(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDecodeUTF16LE_RoundTrip(t *testing.T) {
	const text = "Re: VPN drops every 20 minutes – logs attached"
	if got := decodeUTF16LE(utf16leBytes(text)); got != text {
		t.Fatalf("decodeUTF16LE = %q, want %q", got, text)
	}
}
