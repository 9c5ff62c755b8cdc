package csv

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/payengine/internal/domain"
)

func TestWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	assert.Equal(t, "csv", w.Name())

	err := w.Write(context.Background(), "run-1", []domain.AccountSnapshot{
		{
			Client:    1,
			Available: decimal.RequireFromString("1.5"),
			Held:      decimal.Zero,
			Total:     decimal.RequireFromString("1.5"),
		},
		{
			Client:    2,
			Available: decimal.RequireFromString("-0.2344"),
			Held:      decimal.RequireFromString("2.0001"),
			Total:     decimal.RequireFromString("1.7657"),
			Locked:    true,
		},
	})
	require.NoError(t, err)

	expected := "client,available,held,total,locked\n" +
		"1,1.5000,0.0000,1.5000,false\n" +
		"2,-0.2344,2.0001,1.7657,true\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriter_WriteEmptySnapshot(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewWriter(&buf).Write(context.Background(), "run-1", nil))
	assert.Equal(t, "client,available,held,total,locked\n", buf.String())
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("stdout closed")
}

func TestWriter_PropagatesWriteError(t *testing.T) {
	err := NewWriter(brokenWriter{}).Write(context.Background(), "run-1", nil)
	require.Error(t, err)
}
