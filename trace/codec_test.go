package trace

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	w, err := NewWriter(&buf, Header{TickFreq: 1_000_000, ObjID: "demo"})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	want := []Request{
		{Tick: 0, Command: Read, Address: 0, Size: 8},
		{Tick: 5, Command: Write, Address: 64, Size: 4, Flags: 1, PacketID: 2, PC: 0xdeadbeef},
	}
	for _, req := range want {
		if err := w.WriteRequest(req); err != nil {
			t.Fatalf("WriteRequest: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	r, err := NewReader(&buf)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if r.Header.TickFreq != 1_000_000 || r.Header.ObjID != "demo" {
		t.Fatalf("header = %+v, want TickFreq=1000000 ObjID=demo", r.Header)
	}

	var got []Request
	for {
		req, err := r.ReadRequest()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("ReadRequest: %v", err)
		}
		got = append(got, req)
	}

	if len(got) != len(want) {
		t.Fatalf("got %d requests, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("request %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestWriterRejectsUnknownOperation(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, Header{})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	err = w.WriteRequest(Request{Command: 99})
	if !errors.Is(err, ErrUnknownOperation) {
		t.Fatalf("err = %v, want ErrUnknownOperation", err)
	}
}

func TestReaderRejectsUnknownOperation(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, Header{})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	// Hand-craft a record with an invalid command code, bypassing
	// WriteRequest's own validation.
	fields := []any{uint64(0), uint32(99), uint64(0), uint32(0), uint64(0), uint64(0), uint64(0)}
	for _, f := range fields {
		if err := binary.Write(&buf, binary.LittleEndian, f); err != nil {
			t.Fatalf("binary.Write: %v", err)
		}
	}

	r, err := NewReader(&buf)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	_, err = r.ReadRequest()
	if !errors.Is(err, ErrUnknownOperation) {
		t.Fatalf("err = %v, want ErrUnknownOperation", err)
	}
}
