package wire

import (
	"bytes"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		name    string
		at      int64
		payload []byte
	}{
		{"empty", 0, nil},
		{"small", 1700000000000, []byte("x")},
		{"json-ish", 1700000000123, []byte(`{"id":"1","name":"Ada"}`)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := EncodeEntry(tc.at, tc.payload)
			at, p, err := DecodeEntry(raw)
			if err != nil {
				t.Fatalf("DecodeEntry: %v", err)
			}
			if at != tc.at {
				t.Fatalf("writtenAt: got %d want %d", at, tc.at)
			}
			if !bytes.Equal(p, tc.payload) {
				t.Fatalf("payload: got %q want %q", p, tc.payload)
			}
		})
	}
}

func TestDecodeRejectsCorruptInput(t *testing.T) {
	good := EncodeEntry(42, []byte("payload"))

	badMagic := append([]byte(nil), good...)
	badMagic[0] = 'X'

	badVersion := append([]byte(nil), good...)
	badVersion[4] = 99

	badKind := append([]byte(nil), good...)
	badKind[5] = 77

	// declared length larger than the remaining bytes
	badLen := append([]byte(nil), good...)
	badLen[14] = 0xFF

	cases := []struct {
		name string
		b    []byte
	}{
		{"nil", nil},
		{"short", good[:5]},
		{"header only truncated", good[:13]},
		{"bad magic", badMagic},
		{"bad version", badVersion},
		{"bad kind", badKind},
		{"length overflow", badLen},
		{"foreign bytes", []byte("some cached string from another writer")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := DecodeEntry(tc.b); err != ErrCorrupt {
				t.Fatalf("err=%v, want ErrCorrupt", err)
			}
		})
	}
}

func TestDecodeTruncatedPayload(t *testing.T) {
	raw := EncodeEntry(1, []byte("0123456789"))
	if _, _, err := DecodeEntry(raw[:len(raw)-3]); err != ErrCorrupt {
		t.Fatalf("err=%v, want ErrCorrupt", err)
	}
}
