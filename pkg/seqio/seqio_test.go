package seqio_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/disorder/pkg/disorder"
	"github.com/Sumatoshi-tech/disorder/pkg/seqio"
)

func TestWriteInts_WireFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, seqio.WriteInts(&buf, []int{0, 1, 1, 1, 2, 0, 4, 4, 1}))

	assert.Equal(t, "0\n1\n1\n1\n2\n0\n4\n4\n1\n", buf.String())
}

func TestWriteInts_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, seqio.WriteInts(&buf, []int64{}))
	assert.Empty(t, buf.String())
}

func TestWriteInts_NegativeAndUnsigned(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, seqio.WriteInts(&buf, []int64{-5, 0, 12}))
	assert.Equal(t, "-5\n0\n12\n", buf.String())

	buf.Reset()

	require.NoError(t, seqio.WriteInts(&buf, []uint64{18446744073709551615}))
	assert.Equal(t, "18446744073709551615\n", buf.String())
}

func TestReadInts_SkipsBlankLines(t *testing.T) {
	t.Parallel()

	values, err := seqio.ReadInts(strings.NewReader("300\n\n1\r\n 2 \n"))
	require.NoError(t, err)

	assert.Equal(t, []int64{300, 1, 2}, values)
}

func TestReadInts_Malformed(t *testing.T) {
	t.Parallel()

	_, err := seqio.ReadInts(strings.NewReader("1\n2\nthree\n"))
	require.ErrorIs(t, err, seqio.ErrMalformedLine)
	assert.Contains(t, err.Error(), "3")
}

func TestWritePoints_WireFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	points := []disorder.Point[int64]{{Index: 1, Value: 299}, {Index: 6, Value: 299}}
	require.NoError(t, seqio.WritePoints(&buf, points))

	assert.Equal(t, "1 299\n6 299\n", buf.String())

	back, err := seqio.ReadPoints(&buf)
	require.NoError(t, err)
	assert.Equal(t, points, back)
}

func TestReadPoints_Malformed(t *testing.T) {
	t.Parallel()

	_, err := seqio.ReadPoints(strings.NewReader("1 2 3\n"))
	require.ErrorIs(t, err, seqio.ErrMalformedLine)

	_, err = seqio.ReadPoints(strings.NewReader("x 2\n"))
	require.ErrorIs(t, err, seqio.ErrMalformedLine)
}

func TestCreateOpen_PlainFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ood.txt")
	writeFile(t, path, []int64{3, 2, 1})

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "3\n2\n1\n", string(raw))

	assert.Equal(t, []int64{3, 2, 1}, readFile(t, path))
}

func TestCreateOpen_LZ4File(t *testing.T) {
	t.Parallel()

	values := make([]int64, 10_000)
	for i := range values {
		values[i] = int64(i % 17)
	}

	path := filepath.Join(t.TempDir(), "ood.txt.lz4")
	writeFile(t, path, values)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	// LZ4 frame magic number, little endian.
	assert.Equal(t, []byte{0x04, 0x22, 0x4d, 0x18}, raw[:4])
	assert.Less(t, len(raw), len(values)*2)

	assert.Equal(t, values, readFile(t, path))
}

func TestOpen_Missing(t *testing.T) {
	t.Parallel()

	_, err := seqio.Open(filepath.Join(t.TempDir(), "missing.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func writeFile(t *testing.T, path string, values []int64) {
	t.Helper()

	w, err := seqio.Create(path)
	require.NoError(t, err)
	require.NoError(t, seqio.WriteInts(w, values))
	require.NoError(t, w.Close())
}

func readFile(t *testing.T, path string) []int64 {
	t.Helper()

	r, err := seqio.Open(path)
	require.NoError(t, err)

	defer func() { require.NoError(t, r.Close()) }()

	data, err := io.ReadAll(r)
	require.NoError(t, err)

	values, err := seqio.ReadInts(bytes.NewReader(data))
	require.NoError(t, err)

	return values
}
