package audio

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func pcm(format Format, frames int, fill byte) *Buffer {
	data := make([]byte, frames*format.BytesPerFrame())
	for i := range data {
		data[i] = fill
	}
	return &Buffer{Format: format, Data: data}
}

var mono16k = Format{SampleRate: 16000, Channels: 1, BitDepth: 16}

func TestFormatBytesPerFrame(t *testing.T) {
	tests := []struct {
		format Format
		want   int
	}{
		{Format{SampleRate: 16000, Channels: 1, BitDepth: 16}, 2},
		{Format{SampleRate: 44100, Channels: 2, BitDepth: 16}, 4},
		{Format{SampleRate: 8000, Channels: 1, BitDepth: 8}, 1},
	}
	for _, tt := range tests {
		if got := tt.format.BytesPerFrame(); got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.format, got, tt.want)
		}
	}
}

func TestBufferDuration(t *testing.T) {
	b := pcm(mono16k, 16000, 0)
	if got := b.Duration(); got != time.Second {
		t.Errorf("expected 1s, got %v", got)
	}
	if got := pcm(mono16k, 8000, 0).Duration(); got != 500*time.Millisecond {
		t.Errorf("expected 500ms, got %v", got)
	}
}

func TestMergeConcatenatesInOrder(t *testing.T) {
	a := pcm(mono16k, 2, 0xAA)
	b := pcm(mono16k, 3, 0xBB)
	c := pcm(mono16k, 1, 0xCC)

	merged, err := Merge([]*Buffer{a, b, c})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	if merged.Frames() != 6 {
		t.Errorf("expected 6 frames, got %d", merged.Frames())
	}
	want := append(append(append([]byte{}, a.Data...), b.Data...), c.Data...)
	if !bytes.Equal(merged.Data, want) {
		t.Error("merged data out of order")
	}

	// Inputs must not be aliased by the result.
	merged.Data[0] = 0x00
	if a.Data[0] != 0xAA {
		t.Error("merge mutated its input")
	}
}

func TestMergeEmpty(t *testing.T) {
	if _, err := Merge(nil); !errors.Is(err, ErrNoBuffers) {
		t.Errorf("expected ErrNoBuffers, got %v", err)
	}
}

func TestMergeFormatMismatch(t *testing.T) {
	a := pcm(mono16k, 2, 0)
	b := pcm(Format{SampleRate: 44100, Channels: 1, BitDepth: 16}, 2, 0)

	_, err := Merge([]*Buffer{a, b})
	if !errors.Is(err, ErrFormatMismatch) {
		t.Fatalf("expected ErrFormatMismatch, got %v", err)
	}
	if !bytes.Contains([]byte(err.Error()), []byte("segment 1")) {
		t.Errorf("error does not name the offending segment: %v", err)
	}
}

func sample16(b *Buffer, i int) int16 {
	return int16(uint16(b.Data[2*i]) | uint16(b.Data[2*i+1])<<8)
}

func putSample16(b *Buffer, i int, v int16) {
	b.Data[2*i] = byte(uint16(v))
	b.Data[2*i+1] = byte(uint16(v) >> 8)
}

func TestGainScalesSamples(t *testing.T) {
	b := pcm(mono16k, 3, 0)
	putSample16(b, 0, 1000)
	putSample16(b, 1, -2000)
	putSample16(b, 2, 0)

	out, err := Gain(b, 2.0)
	if err != nil {
		t.Fatalf("Gain: %v", err)
	}

	want := []int16{2000, -4000, 0}
	for i, w := range want {
		if got := sample16(out, i); got != w {
			t.Errorf("sample %d: got %d, want %d", i, got, w)
		}
	}
	// Original untouched.
	if sample16(b, 0) != 1000 {
		t.Error("gain mutated its input")
	}
}

func TestGainClampsAtInt16Range(t *testing.T) {
	b := pcm(mono16k, 2, 0)
	putSample16(b, 0, 30000)
	putSample16(b, 1, -30000)

	out, err := Gain(b, 4.0)
	if err != nil {
		t.Fatalf("Gain: %v", err)
	}
	if got := sample16(out, 0); got != 32767 {
		t.Errorf("positive clamp: got %d", got)
	}
	if got := sample16(out, 1); got != -32768 {
		t.Errorf("negative clamp: got %d", got)
	}
}

func TestGainUnityPassthrough(t *testing.T) {
	b := pcm(mono16k, 2, 0x42)
	out, err := Gain(b, 1.0)
	if err != nil {
		t.Fatalf("Gain: %v", err)
	}
	if out != b {
		t.Error("unity gain should return the input buffer")
	}
}

func TestGainRejectsNon16Bit(t *testing.T) {
	b := pcm(Format{SampleRate: 8000, Channels: 1, BitDepth: 8}, 4, 0)
	if _, err := Gain(b, 2.0); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}
