package csv

import (
	"context"
	encodingcsv "encoding/csv"
	"io"
	"strconv"

	"github.com/iho/payengine/internal/domain"
)

// SnapshotHeader is the column order of the exported snapshot.
var SnapshotHeader = []string{"client", "available", "held", "total", "locked"}

// Writer writes account snapshots as delimited text.
type Writer struct {
	w io.Writer
}

// NewWriter creates a Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Name implements usecase.SnapshotSink.
func (w *Writer) Name() string {
	return "csv"
}

// Write writes the header followed by one row per account.
func (w *Writer) Write(_ context.Context, _ string, accounts []domain.AccountSnapshot) error {
	cw := encodingcsv.NewWriter(w.w)

	if err := cw.Write(SnapshotHeader); err != nil {
		return err
	}
	for _, acc := range accounts {
		row := []string{
			strconv.FormatUint(uint64(acc.Client), 10),
			domain.FormatAmount(acc.Available),
			domain.FormatAmount(acc.Held),
			domain.FormatAmount(acc.Total),
			strconv.FormatBool(acc.Locked),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
