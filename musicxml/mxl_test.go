package musicxml

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMXLRoundTrip(t *testing.T) {
	doc, err := New(DefaultOptions()).GenerateDocument(twoStaffScore(), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteMXL(&buf, doc, "score.musicxml"))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 3)
	assert.Equal(t, "mimetype", zr.File[0].Name)
	assert.Equal(t, zip.Store, zr.File[0].Method)
	assert.Equal(t, "META-INF/container.xml", zr.File[1].Name)
	assert.Equal(t, "score.musicxml", zr.File[2].Name)

	back, err := ReadMXL(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Equal(t, "Exercise", back.FindElement("//work-title").Text())
	assert.Len(t, back.Root().SelectElements("part"), 2)
}

func TestReadMXLMissingContainer(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("score.musicxml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<score-partwise/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = ReadMXL(bytes.NewReader(buf.Bytes()), int64(buf.Len()))

	assert.True(t, errors.Is(err, ErrNoContainer))
}

func TestReadMXLWithoutRootfile(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("META-INF/container.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<container><rootfiles/></container>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = ReadMXL(bytes.NewReader(buf.Bytes()), int64(buf.Len()))

	assert.True(t, errors.Is(err, ErrNoRootfile))
}

func TestReadMXLNotAZip(t *testing.T) {
	data := []byte("<score-partwise/>")

	_, err := ReadMXL(bytes.NewReader(data), int64(len(data)))

	assert.Error(t, err)
}
