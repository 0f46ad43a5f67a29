// Package transport delivers raw device frames to the decoding engine. The
// Framer splits the incoming byte stream on the delimiter sequences pushed
// by the operation mode controller; Serial feeds it from a serial port.
package transport

import (
	"bytes"
	"sync"
)

// maxPending caps the bytes buffered while waiting for a frame boundary.
// A device that never emits the configured delimiters would otherwise grow
// the buffer without bound.
const maxPending = 1 << 20

// Framer reassembles complete frames from an arbitrary byte stream.
//
// With both sequences empty, frames are newline-terminated lines. With only
// a finish sequence, a frame is everything up to each occurrence. With only
// a start sequence, a frame spans two consecutive occurrences. With both, a
// frame is the payload between a start and the following finish.
//
// Framer implements ports.DelimiterConfig; changing either sequence discards
// buffered partial data since its framing is no longer meaningful.
type Framer struct {
	mu     sync.Mutex
	start  []byte
	finish []byte
	buf    []byte
}

// NewFramer returns a Framer with no delimiters (newline framing).
func NewFramer() *Framer { return &Framer{} }

// SetStartSequence sets the frame start delimiter. Empty disables it.
func (f *Framer) SetStartSequence(seq []byte) {
	f.mu.Lock()
	f.start = append([]byte(nil), seq...)
	f.buf = f.buf[:0]
	f.mu.Unlock()
}

// SetFinishSequence sets the frame end delimiter. Empty disables it.
func (f *Framer) SetFinishSequence(seq []byte) {
	f.mu.Lock()
	f.finish = append([]byte(nil), seq...)
	f.buf = f.buf[:0]
	f.mu.Unlock()
}

// Feed appends a raw chunk to the pending buffer and returns every complete
// frame it now contains, in arrival order. Returned slices are copies and
// safe to retain.
func (f *Framer) Feed(p []byte) [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.buf = append(f.buf, p...)

	var frames [][]byte
	for {
		frame, ok := f.nextLocked()
		if !ok {
			break
		}
		frames = append(frames, frame)
	}

	if len(f.buf) > maxPending {
		f.buf = f.buf[:0]
	}
	return frames
}

func (f *Framer) nextLocked() ([]byte, bool) {
	switch {
	case len(f.start) > 0 && len(f.finish) > 0:
		i := bytes.Index(f.buf, f.start)
		if i < 0 {
			return nil, false
		}
		body := f.buf[i+len(f.start):]
		j := bytes.Index(body, f.finish)
		if j < 0 {
			return nil, false
		}
		frame := copyBytes(body[:j])
		f.consume(i + len(f.start) + j + len(f.finish))
		return frame, true

	case len(f.finish) > 0:
		j := bytes.Index(f.buf, f.finish)
		if j < 0 {
			return nil, false
		}
		frame := copyBytes(f.buf[:j])
		f.consume(j + len(f.finish))
		return frame, true

	case len(f.start) > 0:
		i := bytes.Index(f.buf, f.start)
		if i < 0 {
			return nil, false
		}
		body := f.buf[i+len(f.start):]
		k := bytes.Index(body, f.start)
		if k < 0 {
			return nil, false
		}
		frame := copyBytes(body[:k])
		f.consume(i + len(f.start) + k)
		return frame, true

	default:
		j := bytes.IndexByte(f.buf, '\n')
		if j < 0 {
			return nil, false
		}
		line := f.buf[:j]
		if len(line) > 0 && line[len(line)-1] == '\r' {
			line = line[:len(line)-1]
		}
		frame := copyBytes(line)
		f.consume(j + 1)
		return frame, true
	}
}

// consume drops n leading bytes from the pending buffer.
func (f *Framer) consume(n int) {
	f.buf = append(f.buf[:0], f.buf[n:]...)
}

func copyBytes(b []byte) []byte {
	return append([]byte(nil), b...)
}
