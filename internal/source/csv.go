package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/theirongolddev/cxdash/internal/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSV reads a header row followed by one record per line. Header names are
// matched exactly. Numeric cells are coerced with toNumber; a numeric column
// that is absent, or a cell missing from a short row, becomes NaN.
type CSV struct{}

func (CSV) Format() Format { return FormatCSV }

func (CSV) Parse(data []byte) (Batch, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return Batch{Records: []model.Project{}}, nil
	}
	if err != nil {
		return Batch{}, fmt.Errorf("%w: reading csv header: %v", ErrInvalidFormat, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}

	batch := Batch{Records: []model.Project{}}
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Batch{}, fmt.Errorf("%w: reading csv: %v", ErrInvalidFormat, err)
		}
		cell := func(name string) (string, bool) {
			idx, ok := cols[name]
			if !ok || idx >= len(row) {
				return "", false
			}
			return row[idx], true
		}

		var p model.Project
		for _, f := range textFields {
			v, _ := lookup(f.name, cell)
			f.set(&p, v)
		}
		for _, f := range numFields {
			raw, ok := lookup(f.name, cell)
			v := math.NaN()
			if ok {
				v = toNumber(raw)
			}
			if math.IsNaN(v) {
				batch.Warnings++
			}
			f.set(&p, v)
		}
		batch.Records = append(batch.Records, p)
	}
	return batch, nil
}
