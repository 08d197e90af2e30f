package hgio

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"hypnagogic/internal/dmierr"
)

// PNGSignature is the fixed 8-byte PNG file signature.
var PNGSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// writeChunk frames a single PNG chunk: 4-byte length, 4-byte ASCII type,
// data, then a CRC32 of type+data (grounded in shutej/apng's writeChunkTo).
func writeChunk(w io.Writer, typ string, data []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}

	crc := crc32.NewIEEE()
	io.WriteString(crc, typ)
	crc.Write(data)

	if _, err := io.WriteString(w, typ); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}

	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], crc.Sum32())
	_, err := w.Write(crcBuf[:])
	return err
}

// buildZTXt builds a zlib-compressed zTXt chunk body: keyword, a null
// separator, a compression method byte (0, zlib), then the zlib-compressed text.
func buildZTXt(keyword, text string) ([]byte, error) {
	var body bytes.Buffer
	body.WriteString(keyword)
	body.WriteByte(0) // null separator
	body.WriteByte(0) // compression method: zlib

	zw := zlib.NewWriter(&body)
	if _, err := zw.Write([]byte(text)); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return body.Bytes(), nil
}

// InsertZTXt splices a single zTXt chunk keyed keyword into an existing PNG
// byte stream, immediately before IEND.
func InsertZTXt(pngBytes []byte, keyword, text string) ([]byte, error) {
	if len(pngBytes) < len(PNGSignature) || !bytes.Equal(pngBytes[:len(PNGSignature)], PNGSignature) {
		return nil, fmt.Errorf("%w: not a PNG stream", dmierr.ErrImageEncode)
	}

	body, err := buildZTXt(keyword, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dmierr.ErrImageEncode, err)
	}

	var out bytes.Buffer
	out.Write(PNGSignature)

	pos := len(PNGSignature)
	inserted := false
	for pos < len(pngBytes) {
		if pos+8 > len(pngBytes) {
			return nil, fmt.Errorf("%w: truncated PNG chunk header", dmierr.ErrImageEncode)
		}
		length := binary.BigEndian.Uint32(pngBytes[pos : pos+4])
		typ := string(pngBytes[pos+4 : pos+8])
		chunkEnd := pos + 8 + int(length) + 4
		if chunkEnd > len(pngBytes) {
			return nil, fmt.Errorf("%w: truncated PNG chunk body", dmierr.ErrImageEncode)
		}

		if typ == "IEND" && !inserted {
			if err := writeChunk(&out, "zTXt", body); err != nil {
				return nil, fmt.Errorf("%w: %v", dmierr.ErrImageEncode, err)
			}
			inserted = true
		}

		out.Write(pngBytes[pos:chunkEnd])
		pos = chunkEnd
	}

	if !inserted {
		return nil, fmt.Errorf("%w: PNG stream has no IEND chunk", dmierr.ErrImageEncode)
	}
	return out.Bytes(), nil
}

// ExtractZTXt finds the first zTXt chunk keyed keyword in a PNG byte
// stream and returns its zlib-decompressed text.
func ExtractZTXt(pngBytes []byte, keyword string) (text string, found bool, err error) {
	if len(pngBytes) < len(PNGSignature) || !bytes.Equal(pngBytes[:len(PNGSignature)], PNGSignature) {
		return "", false, fmt.Errorf("%w: not a PNG stream", dmierr.ErrImageDecode)
	}

	pos := len(PNGSignature)
	for pos < len(pngBytes) {
		if pos+8 > len(pngBytes) {
			return "", false, fmt.Errorf("%w: truncated PNG chunk header", dmierr.ErrImageDecode)
		}
		length := binary.BigEndian.Uint32(pngBytes[pos : pos+4])
		typ := string(pngBytes[pos+4 : pos+8])
		dataStart := pos + 8
		dataEnd := dataStart + int(length)
		if dataEnd+4 > len(pngBytes) {
			return "", false, fmt.Errorf("%w: truncated PNG chunk body", dmierr.ErrImageDecode)
		}

		if typ == "zTXt" {
			data := pngBytes[dataStart:dataEnd]
			sep := bytes.IndexByte(data, 0)
			if sep < 0 {
				return "", false, fmt.Errorf("%w: zTXt chunk missing keyword separator", dmierr.ErrImageDecode)
			}
			if string(data[:sep]) == keyword {
				if sep+2 > len(data) {
					return "", false, fmt.Errorf("%w: zTXt chunk truncated", dmierr.ErrImageDecode)
				}
				zr, err := zlib.NewReader(bytes.NewReader(data[sep+2:]))
				if err != nil {
					return "", false, fmt.Errorf("%w: %v", dmierr.ErrImageDecode, err)
				}
				defer zr.Close()
				out, err := io.ReadAll(zr)
				if err != nil {
					return "", false, fmt.Errorf("%w: %v", dmierr.ErrImageDecode, err)
				}
				return string(out), true, nil
			}
		}

		pos = dataEnd + 4
	}
	return "", false, nil
}
