package utils

import (
	"bytes"
	"encoding/csv"
)

// CSVRecord is implemented by rows that can be written as CSV. Header returns
// the record's keys in column order.
type CSVRecord interface {
	CSVHeader() []string
	CSVRow() []string
}

// ConvertToCSV writes one header row taken from the first record followed by
// one line per record. Fields holding a comma, quote or newline are quoted
// and inner quotes doubled, and records end in CRLF as RFC 4180 requires.
// No records give an empty result.
func ConvertToCSV[T CSVRecord](records []T) ([]byte, error) {
	if len(records) == 0 {
		return []byte{}, nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true
	if err := w.Write(records[0].CSVHeader()); err != nil {
		return nil, err
	}
	for _, r := range records {
		if err := w.Write(r.CSVRow()); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
