package persist

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrStringTooLong is returned when a string length prefix is malformed or oversized.
var ErrStringTooLong = errors.New("string length prefix out of range")

const maxString = 1 << 20

// Writer emits little-endian primitives in the layout of .NET's BinaryWriter:
// strings carry a 7-bit encoded byte length, floats are IEEE-754 single precision,
// bools are one byte and ints four bytes. The first error sticks.
type Writer struct {
	w   *bufio.Writer
	err error
	buf [8]byte
}

// NewWriter wraps w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) write(p []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(p)
}

func (w *Writer) PutString(s string) {
	n := uint32(len(s))
	i := 0
	for n >= 0x80 {
		w.buf[i] = byte(n) | 0x80
		n >>= 7
		i++
	}
	w.buf[i] = byte(n)
	w.write(w.buf[:i+1])
	w.write([]byte(s))
}

func (w *Writer) PutFloat32(f float32) {
	binary.LittleEndian.PutUint32(w.buf[:4], math.Float32bits(f))
	w.write(w.buf[:4])
}

// PutFloat writes f narrowed to single precision.
func (w *Writer) PutFloat(f float64) {
	w.PutFloat32(float32(f))
}

func (w *Writer) PutInt32(i int32) {
	binary.LittleEndian.PutUint32(w.buf[:4], uint32(i))
	w.write(w.buf[:4])
}

// PutInt writes i as a 32-bit integer.
func (w *Writer) PutInt(i int) {
	w.PutInt32(int32(i))
}

func (w *Writer) PutBool(b bool) {
	if b {
		w.buf[0] = 1
	} else {
		w.buf[0] = 0
	}
	w.write(w.buf[:1])
}

// Err returns the first write error.
func (w *Writer) Err() error {
	return w.err
}

// Flush flushes buffered bytes and returns the first error seen.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

// Reader is the counterpart of Writer. The first error sticks and every
// later read returns a zero value.
type Reader struct {
	r   *bufio.Reader
	err error
	buf [8]byte
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

func (r *Reader) read(n int) []byte {
	if r.err != nil {
		return nil
	}
	if _, err := io.ReadFull(r.r, r.buf[:n]); err != nil {
		r.err = err
		return nil
	}
	return r.buf[:n]
}

func (r *Reader) ReadString() string {
	var n uint32
	for shift := uint(0); ; shift += 7 {
		if shift >= 35 {
			r.fail(ErrStringTooLong)
			return ""
		}
		b := r.read(1)
		if b == nil {
			return ""
		}
		n |= uint32(b[0]&0x7f) << shift
		if b[0]&0x80 == 0 {
			break
		}
	}
	if r.err != nil {
		return ""
	}
	if n > maxString {
		r.fail(fmt.Errorf("%w: %d bytes", ErrStringTooLong, n))
		return ""
	}
	s := make([]byte, n)
	if _, err := io.ReadFull(r.r, s); err != nil {
		r.err = err
		return ""
	}
	return string(s)
}

func (r *Reader) ReadFloat32() float32 {
	b := r.read(4)
	if b == nil {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// ReadFloat reads a single precision float widened to float64.
func (r *Reader) ReadFloat() float64 {
	return float64(r.ReadFloat32())
}

func (r *Reader) ReadInt32() int32 {
	b := r.read(4)
	if b == nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b))
}

func (r *Reader) ReadInt() int {
	return int(r.ReadInt32())
}

func (r *Reader) ReadBool() bool {
	b := r.read(1)
	if b == nil {
		return false
	}
	return b[0] != 0
}

// ReadCount reads a non-negative element count.
func (r *Reader) ReadCount() int {
	n := r.ReadInt()
	if n < 0 && r.err == nil {
		r.fail(fmt.Errorf("negative count %d", n))
		return 0
	}
	return n
}

func (r *Reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Err returns the first read error.
func (r *Reader) Err() error {
	return r.err
}
