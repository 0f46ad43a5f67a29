package transport

import (
	"bytes"
	"testing"
)

func feedAll(f *Framer, chunks ...string) [][]byte {
	var frames [][]byte
	for _, c := range chunks {
		frames = append(frames, f.Feed([]byte(c))...)
	}
	return frames
}

func assertFrames(t *testing.T, got [][]byte, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d frames %q, want %d", len(got), got, len(want))
	}
	for i := range want {
		if !bytes.Equal(got[i], []byte(want[i])) {
			t.Errorf("frame %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFramerNewlines(t *testing.T) {
	f := NewFramer()
	frames := feedAll(f, "1,2,3\n4,5", ",6\r\n7\n")
	assertFrames(t, frames, "1,2,3", "4,5,6", "7")
}

func TestFramerStartAndFinish(t *testing.T) {
	f := NewFramer()
	f.SetStartSequence([]byte("/*"))
	f.SetFinishSequence([]byte("*/"))

	frames := feedAll(f, "noise/*a,b*/junk/*c", ",d*/")
	assertFrames(t, frames, "a,b", "c,d")
}

func TestFramerFinishOnly(t *testing.T) {
	f := NewFramer()
	f.SetFinishSequence([]byte(";"))

	frames := feedAll(f, "10,20;30,", "40;")
	assertFrames(t, frames, "10,20", "30,40")
}

func TestFramerStartOnly(t *testing.T) {
	f := NewFramer()
	f.SetStartSequence([]byte("$"))

	// A frame spans two consecutive start markers; the last one stays
	// pending until the next marker arrives.
	frames := feedAll(f, "junk$1,2$3,4$")
	assertFrames(t, frames, "1,2", "3,4")
}

func TestFramerPartialAcrossFeeds(t *testing.T) {
	f := NewFramer()
	f.SetStartSequence([]byte("/*"))
	f.SetFinishSequence([]byte("*/"))

	if frames := f.Feed([]byte("/*incomp")); len(frames) != 0 {
		t.Fatalf("unexpected frames %q", frames)
	}
	assertFrames(t, f.Feed([]byte("lete*/")), "incomplete")
}

func TestFramerDelimiterChangeDiscardsPending(t *testing.T) {
	f := NewFramer()
	f.Feed([]byte("partial line"))

	f.SetFinishSequence([]byte(";"))

	// Pending bytes from the old framing are gone.
	assertFrames(t, f.Feed([]byte("fresh;")), "fresh")
}

func TestFramerReturnedFramesAreCopies(t *testing.T) {
	f := NewFramer()
	frames := f.Feed([]byte("abc\ndef\n"))
	assertFrames(t, frames, "abc", "def")

	first := frames[0]
	f.Feed([]byte("xxxxxxxx\n"))
	if !bytes.Equal(first, []byte("abc")) {
		t.Errorf("frame mutated by later feed: %q", first)
	}
}
