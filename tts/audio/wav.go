package audio

import (
	"encoding/binary"
	"fmt"
)

// WAV container constants.
const (
	headerSize = 44
	formatPCM  = 1
)

// Encode wraps the buffer's PCM data in a standard RIFF/WAVE container.
func Encode(b *Buffer) []byte {
	dataSize := len(b.Data)
	byteRate := b.Format.SampleRate * b.Format.Channels * b.Format.BitDepth / 8
	blockAlign := b.Format.Channels * b.Format.BitDepth / 8

	header := make([]byte, headerSize)

	// RIFF header
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataSize))
	copy(header[8:12], "WAVE")

	// fmt subchunk
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], uint16(b.Format.Channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(b.Format.SampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], uint16(b.Format.BitDepth))

	// data subchunk
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataSize))

	return append(header, b.Data...)
}

// Decode parses a RIFF/WAVE container into a Buffer. Only uncompressed
// PCM is supported. Chunks other than fmt and data are skipped.
func Decode(wav []byte) (*Buffer, error) {
	if len(wav) < 12 {
		return nil, fmt.Errorf("%w: %d bytes is too short", ErrInvalidWAV, len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: missing RIFF/WAVE signature", ErrInvalidWAV)
	}

	var (
		format  Format
		haveFmt bool
		data    []byte
	)

	// Walk the chunk list after the 12-byte RIFF header.
	off := 12
	for off+8 <= len(wav) {
		id := string(wav[off : off+4])
		size := int(binary.LittleEndian.Uint32(wav[off+4 : off+8]))
		body := off + 8
		if size < 0 || body+size > len(wav) {
			return nil, fmt.Errorf("%w: chunk %q exceeds file size", ErrInvalidWAV, id)
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("%w: fmt chunk is %d bytes", ErrInvalidWAV, size)
			}
			audioFormat := binary.LittleEndian.Uint16(wav[body : body+2])
			if audioFormat != formatPCM {
				return nil, fmt.Errorf("%w: audio format code %d, only PCM is supported",
					ErrUnsupportedFormat, audioFormat)
			}
			format = Format{
				Channels:   int(binary.LittleEndian.Uint16(wav[body+2 : body+4])),
				SampleRate: int(binary.LittleEndian.Uint32(wav[body+4 : body+8])),
				BitDepth:   int(binary.LittleEndian.Uint16(wav[body+14 : body+16])),
			}
			haveFmt = true
		case "data":
			data = wav[body : body+size]
		}

		// Chunks are word-aligned.
		off = body + size
		if size%2 == 1 {
			off++
		}
	}

	if !haveFmt {
		return nil, fmt.Errorf("%w: missing fmt chunk", ErrInvalidWAV)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: missing data chunk", ErrInvalidWAV)
	}
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	if format.Channels <= 0 || format.SampleRate <= 0 || format.BitDepth <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWAV, format)
	}

	buf := &Buffer{Format: format, Data: data}
	if len(data)%format.BytesPerFrame() != 0 {
		return nil, fmt.Errorf("%w: data size %d is not frame-aligned", ErrInvalidWAV, len(data))
	}
	return buf, nil
}
