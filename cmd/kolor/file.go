package main

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/klauspost/compress/zstd"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

const zstdSuffix = ".zst"

func compressed(name string) bool {
	return strings.HasSuffix(name, zstdSuffix)
}

// readFile reads name, decompressing it if it ends in .zst
func readFile(name string) ([]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !compressed(name) {
		return io.ReadAll(f)
	}

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	return io.ReadAll(dec)
}

// writeFile writes b to name, compressing it if it ends in .zst
func writeFile(name string, b []byte) error {
	if !compressed(name) {
		return os.WriteFile(name, b, 0o644)
	}

	buf := new(bytes.Buffer)
	enc, err := zstd.NewWriter(buf, zstd.WithEncoderConcurrency(runtime.NumCPU()))
	if err != nil {
		return err
	}
	if _, err := enc.Write(b); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	return os.WriteFile(name, buf.Bytes(), 0o644)
}

func readImage(name string) (image.Image, error) {
	b, err := readFile(name)
	if err != nil {
		return nil, err
	}

	m, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	return m, nil
}

func writeImage(name string, m image.Image) error {
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, m); err != nil {
		return err
	}
	return writeFile(name, buf.Bytes())
}
