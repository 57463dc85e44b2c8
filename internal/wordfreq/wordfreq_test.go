package wordfreq

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestExtractEnglishOrderAndFilter(t *testing.T) {
	data := encodeTestMsgpack([]any{
		map[string]any{"format": "cB", "version": 1},
		[]any{"the", "of"},
		[]any{"hello", "go-1", "Éclair", "the"},
		[]any{},
		[]any{"world"},
	})
	wheelPath := writeTestWheel(t, map[string][]byte{
		"wordfreq/data/large_en.msgpack.gz": gzipBytes(t, data),
	})

	words, err := ExtractEnglish(wheelPath, 10)
	if err != nil {
		t.Fatalf("ExtractEnglish failed: %v", err)
	}
	expected := []string{"the", "of", "hello", "world"}
	if len(words) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, words)
	}
	for i, word := range expected {
		if words[i] != word {
			t.Fatalf("expected %q at index %d, got %q", word, i, words[i])
		}
	}
}

func TestExtractEnglishLimit(t *testing.T) {
	data := encodeTestMsgpack([]any{
		map[string]any{"format": "cB"},
		[]any{"hello", "world", "again"},
		[]any{"more", "words"},
	})
	wheelPath := writeTestWheel(t, map[string][]byte{
		"wordfreq/data/large_en.msgpack.gz": gzipBytes(t, data),
	})

	words, err := ExtractEnglish(wheelPath, 2)
	if err != nil {
		t.Fatalf("ExtractEnglish failed: %v", err)
	}
	if len(words) != 2 || words[1] != "world" {
		t.Fatalf("unexpected words: %v", words)
	}
}

func TestExtractEnglishFallsBackToSmall(t *testing.T) {
	data := encodeTestMsgpack([]any{[]any{"small"}})
	wheelPath := writeTestWheel(t, map[string][]byte{
		"wordfreq/data/small_en.msgpack.gz": gzipBytes(t, data),
		"wordfreq/data/large_fr.msgpack.gz": gzipBytes(t, data),
	})

	words, err := ExtractEnglish(wheelPath, 5)
	if err != nil {
		t.Fatalf("ExtractEnglish failed: %v", err)
	}
	if len(words) != 1 || words[0] != "small" {
		t.Fatalf("unexpected words: %v", words)
	}
}

func TestExtractEnglishErrors(t *testing.T) {
	wheelPath := writeTestWheel(t, map[string][]byte{
		"wordfreq/data/large_de.msgpack.gz": []byte("x"),
	})
	if _, err := ExtractEnglish(wheelPath, 5); err == nil {
		t.Fatalf("expected error for wheel without English data")
	}
	if _, err := ExtractEnglish(wheelPath, 0); err == nil {
		t.Fatalf("expected error for zero limit")
	}
	if _, err := ExtractEnglish("", 5); err == nil {
		t.Fatalf("expected error for empty wheel path")
	}
}

func TestDecodeMsgpackScalars(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x96, 0xc0, 0xc3, 0xff, 0xd1, 0xff, 0x38, 0xcd, 0x01, 0x00})
	writeMsgpack(&buf, 2.5)

	got, err := decodeMsgpack(&buf)
	if err != nil {
		t.Fatalf("decodeMsgpack failed: %v", err)
	}
	items, ok := got.([]any)
	if !ok || len(items) != 6 {
		t.Fatalf("unexpected decode result: %#v", got)
	}
	if items[0] != nil || items[1] != true {
		t.Fatalf("unexpected nil/bool: %#v", items[:2])
	}
	if items[2] != int64(-1) || items[3] != int64(-200) || items[4] != int64(256) {
		t.Fatalf("unexpected integers: %#v", items[2:5])
	}
	if items[5] != 2.5 {
		t.Fatalf("unexpected float: %#v", items[5])
	}
}

func TestDecodeMsgpackTruncated(t *testing.T) {
	if _, err := decodeMsgpack(bytes.NewReader([]byte{0x92, 0xa3, 'a'})); err == nil {
		t.Fatalf("expected error for truncated input")
	}
}

func TestPickWheel(t *testing.T) {
	files := []releaseFile{
		{Filename: "wordfreq-3.1.1.tar.gz", PackageType: "sdist"},
		{Filename: "wordfreq-3.1.1-cp311-linux.whl", PackageType: "bdist_wheel"},
		{Filename: "wordfreq-3.1.1-py3-none-any.whl", PackageType: "bdist_wheel"},
	}
	file, ok := pickWheel(files)
	if !ok || file.Filename != "wordfreq-3.1.1-py3-none-any.whl" {
		t.Fatalf("unexpected wheel: %+v", file)
	}
	if _, ok := pickWheel(files[:1]); ok {
		t.Fatalf("expected no wheel among sdists")
	}
}

func TestWriteAttribution(t *testing.T) {
	wheelPath := writeTestWheel(t, map[string][]byte{
		"wordfreq-3.1.1.dist-info/LICENSE.txt": []byte("Apache License"),
	})

	outDir := t.TempDir()
	if err := WriteAttribution(wheelPath, outDir); err != nil {
		t.Fatalf("WriteAttribution failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "ATTRIBUTION.txt")); err != nil {
		t.Fatalf("expected ATTRIBUTION.txt: %v", err)
	}
	license, err := os.ReadFile(filepath.Join(outDir, "LICENSE.txt"))
	if err != nil {
		t.Fatalf("expected LICENSE.txt: %v", err)
	}
	if string(license) != "Apache License" {
		t.Fatalf("unexpected license contents: %s", string(license))
	}
}

func encodeTestMsgpack(value any) []byte {
	var buf bytes.Buffer
	writeMsgpack(&buf, value)
	return buf.Bytes()
}

func writeMsgpack(buf *bytes.Buffer, value any) {
	switch v := value.(type) {
	case nil:
		buf.WriteByte(0xc0)
	case int:
		if v >= 0 && v <= 0x7f {
			buf.WriteByte(byte(v))
			return
		}
		buf.WriteByte(0xd3)
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], uint64(v))
		buf.Write(tmp[:])
	case float64:
		buf.WriteByte(0xcb)
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], math.Float64bits(v))
		buf.Write(tmp[:])
	case string:
		if len(v) <= 31 {
			buf.WriteByte(0xa0 | byte(len(v)))
		} else {
			buf.WriteByte(0xd9)
			buf.WriteByte(byte(len(v)))
		}
		buf.WriteString(v)
	case []any:
		buf.WriteByte(0x90 | byte(len(v)))
		for _, item := range v {
			writeMsgpack(buf, item)
		}
	case map[string]any:
		buf.WriteByte(0x80 | byte(len(v)))
		for key, item := range v {
			writeMsgpack(buf, key)
			writeMsgpack(buf, item)
		}
	default:
		panic("unsupported type in test msgpack encoder")
	}
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("failed to gzip: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close gzip: %v", err)
	}
	return buf.Bytes()
}

func writeTestWheel(t *testing.T, files map[string][]byte) string {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), "wordfreq-*.whl")
	if err != nil {
		t.Fatalf("failed to create temp wheel: %v", err)
	}
	defer func() {
		_ = tmpFile.Close()
	}()

	zw := zip.NewWriter(tmpFile)
	for name, data := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to create zip entry: %v", err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("failed to write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return tmpFile.Name()
}
