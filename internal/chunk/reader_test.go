package chunk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestReaderPrimitives(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint8(7))
	binary.Write(&buf, binary.LittleEndian, int16(-2))
	binary.Write(&buf, binary.LittleEndian, int32(-100000))
	binary.Write(&buf, binary.LittleEndian, float32(1.5))
	buf.WriteString("abc\x00zz")

	r := NewReader(buf.Bytes())
	if v, err := r.U8(); err != nil || v != 7 {
		t.Fatalf("U8 got %d, %v", v, err)
	}
	if v, err := r.I16(); err != nil || v != -2 {
		t.Fatalf("I16 got %d, %v", v, err)
	}
	if v, err := r.I32(); err != nil || v != -100000 {
		t.Fatalf("I32 got %d, %v", v, err)
	}
	if v, err := r.F32(); err != nil || v != 1.5 {
		t.Fatalf("F32 got %v, %v", v, err)
	}
	if s, err := r.FixedString(6); err != nil || s != "abc" {
		t.Fatalf("FixedString got %q, %v", s, err)
	}
	if r.Remaining() != 0 || r.Pos() != r.Len() {
		t.Fatalf("cursor not at end: pos=%d len=%d", r.Pos(), r.Len())
	}
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	if _, err := r.U16(); err != nil {
		t.Fatalf("U16: %v", err)
	}
	_, err := r.I32()
	if !errors.Is(err, ErrTruncatedInput) {
		t.Fatalf("expected ErrTruncatedInput, got %v", err)
	}
	var te *TruncatedError
	if !errors.As(err, &te) || te.Offset != 2 || te.Need != 4 || te.Have != 1 {
		t.Fatalf("unexpected truncated error %#v", te)
	}
	// failed reads do not move the cursor
	if r.Pos() != 2 {
		t.Fatalf("pos moved to %d", r.Pos())
	}
	if _, err := r.Bytes(-1); !errors.Is(err, ErrTruncatedInput) {
		t.Fatalf("negative length accepted: %v", err)
	}
}

func TestReaderAtIsIndependent(t *testing.T) {
	r := NewReader([]byte{1, 0, 2, 0, 3, 0})
	r.U16()
	r.U16()
	second, err := r.At(0)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := second.U16(); v != 1 {
		t.Fatalf("At(0) read %d", v)
	}
	if r.Pos() != 4 {
		t.Fatalf("original reader moved to %d", r.Pos())
	}
	if _, err := r.At(7); err == nil {
		t.Fatal("expected error for offset past end")
	}
}

func TestBytesCopies(t *testing.T) {
	data := []byte{9, 9}
	r := NewReader(data)
	b, _ := r.Bytes(2)
	data[0] = 0
	if b[0] != 9 {
		t.Fatal("Bytes aliases the input buffer")
	}
}

func TestFormatErrorIs(t *testing.T) {
	err := Formatf(12, "index %d out of range", 5)
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
	if errors.Is(err, ErrTruncatedInput) {
		t.Fatal("format error matched truncated input")
	}
}

func TestTrailingWarning(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	r.U8()
	w, ok := TrailingWarning(r)
	if !ok || w.Remaining != 2 || w.Offset != 1 {
		t.Fatalf("got %+v, %v", w, ok)
	}
	r.Skip(2)
	if _, ok := TrailingWarning(r); ok {
		t.Fatal("warning on fully consumed buffer")
	}
}

func TestDecodeName(t *testing.T) {
	raw := []byte{'c', 0xE9, 0, 'x'}
	if got := DecodeName(raw, nil); got != "c\xe9" {
		t.Fatalf("raw decode got %q", got)
	}
	if got := DecodeName(raw, charmap.Windows1252); got != "cé" {
		t.Fatalf("cp1252 decode got %q", got)
	}
	if enc, err := Charset("CP1252"); err != nil || enc != charmap.Windows1252 {
		t.Fatalf("Charset got %v, %v", enc, err)
	}
	if _, err := Charset("klingon"); err == nil {
		t.Fatal("expected unknown charset error")
	}
}
