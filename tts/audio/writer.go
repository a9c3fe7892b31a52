package audio

import (
	"fmt"
	"io"
	"os"
)

// WriteFile encodes the buffer as WAV and writes it to path.
func WriteFile(path string, b *Buffer) error {
	if err := os.WriteFile(path, Encode(b), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Write encodes the buffer as WAV and writes it to w.
func Write(w io.Writer, b *Buffer) error {
	if _, err := w.Write(Encode(b)); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	return nil
}
