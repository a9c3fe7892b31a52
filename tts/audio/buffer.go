// Package audio provides PCM audio buffers, WAV encoding and decoding,
// and assembly of independently synthesized segments into one stream.
package audio

import (
	"errors"
	"fmt"
	"time"
)

// Common audio errors.
var (
	// ErrNoBuffers is returned when a merge is attempted with no input.
	ErrNoBuffers = errors.New("no audio buffers to merge")

	// ErrFormatMismatch is returned when buffers being merged do not share
	// the same sample rate, channel count and bit depth.
	ErrFormatMismatch = errors.New("audio format mismatch")

	// ErrInvalidWAV is returned when WAV data cannot be decoded.
	ErrInvalidWAV = errors.New("invalid WAV data")

	// ErrUnsupportedFormat is returned for non-PCM or non-16-bit audio
	// where 16-bit PCM is required.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrEmptyData is returned when audio data contains no samples.
	ErrEmptyData = errors.New("audio data is empty")
)

// Format describes uncompressed PCM audio parameters.
type Format struct {
	SampleRate int // samples per second (e.g. 22050, 24000, 44100)
	Channels   int // 1 = mono, 2 = stereo
	BitDepth   int // bits per sample, typically 16
}

// BytesPerFrame returns the number of bytes for one frame
// (one sample across all channels).
func (f Format) BytesPerFrame() int {
	return f.Channels * f.BitDepth / 8
}

// Equal reports whether two formats are identical.
func (f Format) Equal(other Format) bool {
	return f.SampleRate == other.SampleRate &&
		f.Channels == other.Channels &&
		f.BitDepth == other.BitDepth
}

func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dch/%dbit", f.SampleRate, f.Channels, f.BitDepth)
}

// Buffer holds decoded PCM audio. Data is interleaved little-endian
// samples matching Format.
type Buffer struct {
	Format Format
	Data   []byte
}

// Frames returns the number of PCM frames in the buffer.
func (b *Buffer) Frames() int {
	bpf := b.Format.BytesPerFrame()
	if bpf == 0 {
		return 0
	}
	return len(b.Data) / bpf
}

// Duration returns the playback duration of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b.Format.SampleRate == 0 {
		return 0
	}
	seconds := float64(b.Frames()) / float64(b.Format.SampleRate)
	return time.Duration(seconds * float64(time.Second))
}

// Merge concatenates the given buffers, in order, into a single buffer.
// Every buffer must share the first buffer's format; no resampling or
// silence insertion is performed, so segment boundaries are
// sample-adjacent. The inputs are not modified.
func Merge(buffers []*Buffer) (*Buffer, error) {
	if len(buffers) == 0 {
		return nil, ErrNoBuffers
	}

	format := buffers[0].Format
	total := 0
	for i, b := range buffers {
		if !b.Format.Equal(format) {
			return nil, fmt.Errorf("%w: segment %d is %s, expected %s",
				ErrFormatMismatch, i, b.Format, format)
		}
		total += len(b.Data)
	}

	data := make([]byte, 0, total)
	for _, b := range buffers {
		data = append(data, b.Data...)
	}

	return &Buffer{Format: format, Data: data}, nil
}

// Gain scales 16-bit PCM samples by the given factor, clamping at the
// int16 range. A factor of 1.0 returns the buffer unchanged. Used for
// providers whose API has no native volume parameter.
func Gain(b *Buffer, factor float64) (*Buffer, error) {
	if factor == 1.0 {
		return b, nil
	}
	if b.Format.BitDepth != 16 {
		return nil, fmt.Errorf("%w: gain requires 16-bit PCM, got %d-bit",
			ErrUnsupportedFormat, b.Format.BitDepth)
	}
	if len(b.Data)%2 != 0 {
		return nil, fmt.Errorf("%w: odd byte count for 16-bit PCM", ErrInvalidWAV)
	}

	out := make([]byte, len(b.Data))
	for i := 0; i < len(b.Data); i += 2 {
		sample := int16(uint16(b.Data[i]) | uint16(b.Data[i+1])<<8)
		scaled := float64(sample) * factor
		switch {
		case scaled > 32767:
			scaled = 32767
		case scaled < -32768:
			scaled = -32768
		}
		v := int16(scaled)
		out[i] = byte(uint16(v))
		out[i+1] = byte(uint16(v) >> 8)
	}

	return &Buffer{Format: b.Format, Data: out}, nil
}
