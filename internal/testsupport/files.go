package testsupport

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// WriteWAV writes a minimal 16 kHz mono 16-bit PCM WAV file holding the given
// number of seconds of silence. Useful where code only inspects headers or
// hands the path to a stubbed binary.
func WriteWAV(t testing.TB, path string, seconds float64) {
	t.Helper()

	if seconds <= 0 {
		seconds = 0.1
	}
	const (
		sampleRate    = 16000
		bitsPerSample = 16
		channels      = 1
	)
	samples := int(seconds * sampleRate)
	dataSize := samples * channels * bitsPerSample / 8

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	writeErr := func(err error) {
		if err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	le := binary.LittleEndian
	header := make([]byte, 0, 44)
	header = append(header, "RIFF"...)
	header = le.AppendUint32(header, uint32(36+dataSize))
	header = append(header, "WAVE"...)
	header = append(header, "fmt "...)
	header = le.AppendUint32(header, 16)
	header = le.AppendUint16(header, 1) // PCM
	header = le.AppendUint16(header, channels)
	header = le.AppendUint32(header, sampleRate)
	header = le.AppendUint32(header, uint32(sampleRate*channels*bitsPerSample/8))
	header = le.AppendUint16(header, uint16(channels*bitsPerSample/8))
	header = le.AppendUint16(header, bitsPerSample)
	header = append(header, "data"...)
	header = le.AppendUint32(header, uint32(dataSize))

	_, err = f.Write(header)
	writeErr(err)
	_, err = f.Write(make([]byte, dataSize))
	writeErr(err)
}
