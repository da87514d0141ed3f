package measurements_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/procstats/pkg/measurements"
)

func TestRead(t *testing.T) {
	t.Parallel()

	input := "time,power\n1,10.0\n2,20.5\n3,-3e2\n"

	values, err := measurements.Read(strings.NewReader(input), measurements.DefaultColumn)
	require.NoError(t, err)
	assert.Equal(t, []float64{10.0, 20.5, -300}, values)
}

func TestRead_NoTrailingNewline(t *testing.T) {
	t.Parallel()

	values, err := measurements.Read(strings.NewReader("a,b\nx,1\ny,2"), 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, values)
}

func TestRead_QuotedAndExtraFields(t *testing.T) {
	t.Parallel()

	input := "name,value,comment\n\"a, b\",1.5,\"x\"\nc,2.5,y\n"

	values, err := measurements.Read(strings.NewReader(input), 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.5}, values)
}

func TestRead_OtherColumn(t *testing.T) {
	t.Parallel()

	values, err := measurements.Read(strings.NewReader("a,b\n7,1\n8,2\n"), 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{7, 8}, values)
}

func TestRead_HeaderOnly(t *testing.T) {
	t.Parallel()

	values, err := measurements.Read(strings.NewReader("a,b\n"), 1)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestRead_ParseError(t *testing.T) {
	t.Parallel()

	_, err := measurements.Read(strings.NewReader("a,b\n1,2\n2,oops\n3,4\n"), 1)
	require.ErrorIs(t, err, measurements.ErrParse)
	assert.Contains(t, err.Error(), "record 3")
}

func TestRead_MissingField(t *testing.T) {
	t.Parallel()

	_, err := measurements.Read(strings.NewReader("a,b\n1\n"), 1)
	require.ErrorIs(t, err, measurements.ErrParse)
}

func TestRead_InvalidColumn(t *testing.T) {
	t.Parallel()

	_, err := measurements.Read(strings.NewReader("a,b\n1,2\n"), -1)
	require.ErrorIs(t, err, measurements.ErrInvalidColumn)
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte("t,v\n0,10\n1,20\n2,30\n"), 0o600))

	values, err := measurements.ReadFile(path, measurements.DefaultColumn)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 30}, values)
}

func TestReadFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := measurements.ReadFile(filepath.Join(t.TempDir(), "nope.csv"), 1)
	require.ErrorIs(t, err, measurements.ErrOpen)
	require.ErrorIs(t, err, os.ErrNotExist)
}
