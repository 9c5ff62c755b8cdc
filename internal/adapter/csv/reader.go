package csv

import (
	encodingcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/payengine/internal/domain"
)

// Column names of the transaction input.
const (
	ColumnType   = "type"
	ColumnClient = "client"
	ColumnTx     = "tx"
	ColumnAmount = "amount"
)

const utf8BOM = "\ufeff"

// ErrInvalidHeader is returned when the input does not start with a usable
// header row.
var ErrInvalidHeader = errors.New("invalid transaction header")

// Reader decodes transaction records from delimited text. Columns are located
// by header name; the amount column may be absent on individual rows.
type Reader struct {
	r       *encodingcsv.Reader
	columns map[string]int
	err     error
}

// NewReader reads the header row of r. A missing or incomplete header is a
// fatal error, unlike per-record decode failures.
func NewReader(r io.Reader) (*Reader, error) {
	cr := encodingcsv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrInvalidHeader)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}

	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{ColumnType, ColumnClient, ColumnTx} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidHeader, required)
		}
	}

	return &Reader{r: cr, columns: columns}, nil
}

// All returns a lazy sequence over the remaining records. Each element is
// either a decoded transaction or the error that made the record unusable.
// The sequence ends at EOF or on a non-recoverable read error, which Err
// reports afterwards.
func (r *Reader) All() iter.Seq2[domain.Transaction, error] {
	return func(yield func(domain.Transaction, error) bool) {
		for {
			record, err := r.r.Read()
			if errors.Is(err, io.EOF) {
				return
			}

			var parseErr *encodingcsv.ParseError
			if err != nil && !errors.As(err, &parseErr) {
				r.err = fmt.Errorf("read transactions: %w", err)
				return
			}

			if err != nil {
				if !yield(nil, fmt.Errorf("%w: %w", domain.ErrMalformedRecord, err)) {
					return
				}
				continue
			}

			tx, err := r.decode(record)
			if err != nil {
				line, _ := r.r.FieldPos(0)
				err = fmt.Errorf("line %d: %w", line, err)
			}
			if !yield(tx, err) {
				return
			}
		}
	}
}

// Err returns the read error that ended the sequence early, if any.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) decode(record []string) (domain.Transaction, error) {
	kind, err := domain.ParseKind(strings.ToLower(r.field(record, ColumnType)))
	if err != nil {
		return nil, err
	}

	client, err := strconv.ParseUint(r.field(record, ColumnClient), 10, 16)
	if err != nil {
		return nil, fmt.Errorf("%w: client: %w", domain.ErrMalformedRecord, err)
	}

	tx, err := strconv.ParseUint(r.field(record, ColumnTx), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: tx: %w", domain.ErrMalformedRecord, err)
	}

	var amount *decimal.Decimal
	if raw := r.field(record, ColumnAmount); raw != "" {
		a, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: amount: %w", domain.ErrMalformedRecord, err)
		}
		amount = &a
	}

	return domain.NewTransaction(kind, domain.ClientID(client), domain.TransactionID(tx), amount)
}

// field returns the trimmed value of column, or "" when the row is too short
// or the header has no such column.
func (r *Reader) field(record []string, column string) string {
	i, ok := r.columns[column]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
