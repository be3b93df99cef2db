package seqio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

const (
	// int64ByteSize is the number of bytes in an int64.
	int64ByteSize = 8
	// maxBlockValues caps the value count a header may declare (1 GiB decoded).
	maxBlockValues = 1 << 27
	// maxLZ4Ratio bounds how many output bytes one byte of an LZ4 block can expand
	// to; lz4BoundSlack covers the fixed cost of tiny blocks.
	maxLZ4Ratio   = 255
	lz4BoundSlack = 64
)

// blockMagic prefixes every packed block.
var blockMagic = [4]byte{'O', 'O', 'D', '1'}

// ErrCorruptBlock is returned when a packed block cannot be decoded.
var ErrCorruptBlock = errors.New("corrupt block")

// blockHeader precedes the LZ4 payload.
type blockHeader struct {
	Magic      [4]byte
	Count      uint64
	Compressed uint64
}

// PackBlock delta-encodes values and compresses them into a single LZ4 block.
// Watermark series are non-decreasing, so their deltas are small and repetitive
// and compress far better than the raw timestamps. Any int64 sequence
// round-trips, since deltas wrap consistently.
func PackBlock(w io.Writer, values []int64) error {
	raw := make([]byte, len(values)*int64ByteSize)

	var prev int64

	for i, v := range values {
		binary.LittleEndian.PutUint64(raw[i*int64ByteSize:], uint64(v-prev))
		prev = v
	}

	compressed := make([]byte, lz4.CompressBlockBound(len(raw)))

	written, err := lz4.CompressBlock(raw, compressed, nil)
	if err != nil {
		return fmt.Errorf("compress block: %w", err)
	}

	payload := compressed[:written]

	// Incompressible input is stored as is, flagged by Compressed == 0.
	if written == 0 {
		payload = raw
	}

	header := blockHeader{Magic: blockMagic, Count: uint64(len(values)), Compressed: uint64(written)}

	err = binary.Write(w, binary.LittleEndian, header)
	if err != nil {
		return fmt.Errorf("write block header: %w", err)
	}

	_, err = w.Write(payload)
	if err != nil {
		return fmt.Errorf("write block payload: %w", err)
	}

	return nil
}

// UnpackBlock reverses PackBlock. Buffers grow with the payload actually read,
// so a forged header cannot force a large allocation.
func UnpackBlock(r io.Reader) ([]int64, error) {
	var header blockHeader

	err := binary.Read(r, binary.LittleEndian, &header)
	if err != nil {
		return nil, fmt.Errorf("read block header: %w", err)
	}

	if header.Magic != blockMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorruptBlock, header.Magic[:])
	}

	if header.Count > maxBlockValues {
		return nil, fmt.Errorf("%w: %d values exceeds limit", ErrCorruptBlock, header.Count)
	}

	rawLen := header.Count * int64ByteSize

	var raw []byte

	if header.Compressed == 0 {
		raw, err = readExactly(r, rawLen)
		if err != nil {
			return nil, err
		}
	} else {
		raw, err = readCompressed(r, header.Compressed, rawLen)
		if err != nil {
			return nil, err
		}
	}

	values := make([]int64, header.Count)

	var prev int64

	for i := range values {
		prev += int64(binary.LittleEndian.Uint64(raw[i*int64ByteSize:]))
		values[i] = prev
	}

	return values, nil
}

// readExactly reads n bytes from r, growing the buffer only as data arrives.
func readExactly(r io.Reader, n uint64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, int64(n)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptBlock, err)
	}

	if uint64(len(data)) != n {
		return nil, fmt.Errorf("%w: payload has %d of %d bytes", ErrCorruptBlock, len(data), n)
	}

	return data, nil
}

// readCompressed reads a compressed payload of size bytes and decodes it into
// rawLen bytes. rawLen is checked against what the payload can expand to
// before the output buffer is allocated.
func readCompressed(r io.Reader, size, rawLen uint64) ([]byte, error) {
	if size > uint64(lz4.CompressBlockBound(int(rawLen))) {
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds bound", ErrCorruptBlock, size)
	}

	compressed, err := readExactly(r, size)
	if err != nil {
		return nil, err
	}

	if rawLen > uint64(len(compressed))*maxLZ4Ratio+lz4BoundSlack {
		return nil, fmt.Errorf("%w: %d bytes cannot expand to %d", ErrCorruptBlock, len(compressed), rawLen)
	}

	raw := make([]byte, rawLen)

	n, err := lz4.UncompressBlock(compressed, raw)
	if err != nil || uint64(n) != rawLen {
		return nil, fmt.Errorf("%w: decompressed %d of %d bytes", ErrCorruptBlock, n, rawLen)
	}

	return raw, nil
}
