package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/theirongolddev/cxdash/internal/model"
)

// JSON reads a top-level array of objects. A numeric field takes a JSON
// number as is and a JSON string through toNumber, like a CSV cell. Any other
// value, or an absent field, becomes NaN.
type JSON struct{}

func (JSON) Format() Format { return FormatJSON }

func (JSON) Parse(data []byte) (Batch, error) {
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		return Batch{}, ErrInvalidFormat
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return Batch{}, ErrInvalidShape
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return Batch{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	batch := Batch{
		Records: make([]model.Project, 0, len(elems)),
		Raw:     json.RawMessage(append([]byte(nil), trimmed...)),
	}
	for _, elem := range elems {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(elem, &obj); err != nil || obj == nil {
			obj = map[string]json.RawMessage{}
		}
		get := func(name string) (json.RawMessage, bool) {
			v, ok := obj[name]
			return v, ok
		}

		var p model.Project
		for _, f := range textFields {
			raw, _ := lookup(f.name, get)
			f.set(&p, jsonText(raw))
		}
		for _, f := range numFields {
			raw, _ := lookup(f.name, get)
			v := jsonNumber(raw)
			if math.IsNaN(v) {
				batch.Warnings++
			}
			f.set(&p, v)
		}
		batch.Records = append(batch.Records, p)
	}
	return batch, nil
}

// jsonText returns a string value as-is, null or absent as "", and any other
// value as its JSON text.
func jsonText(raw json.RawMessage) string {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func jsonNumber(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return math.NaN()
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return math.NaN()
		}
		return toNumber(s)
	}
	if c := raw[0]; c != '-' && (c < '0' || c > '9') {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(string(raw), 64)
	if err != nil && !math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}
