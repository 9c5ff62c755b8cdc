package json

import (
	"context"
	encodingjson "encoding/json"
	"io"

	"github.com/iho/payengine/internal/adapter/http/dto"
	"github.com/iho/payengine/internal/domain"
)

// Writer writes the snapshot as one indented JSON document.
type Writer struct {
	w io.Writer
}

// NewWriter creates a Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Name implements usecase.SnapshotSink.
func (w *Writer) Name() string {
	return "json"
}

// Write encodes the run id and all accounts.
func (w *Writer) Write(_ context.Context, runID string, accounts []domain.AccountSnapshot) error {
	enc := encodingjson.NewEncoder(w.w)
	enc.SetIndent("", "  ")

	return enc.Encode(dto.SnapshotResponse{
		RunID:    runID,
		Accounts: dto.AccountsFromDomain(accounts),
	})
}
