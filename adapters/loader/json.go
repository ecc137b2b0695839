package loader

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"playercorr/domain/core"
	"playercorr/domain/player"
	"playercorr/internal/errors"

	"github.com/goccy/go-json"
)

// fieldsPerRecord is the arity of a [kills, level, apm] entry
const fieldsPerRecord = 3

// JSONLoader reads player records from a JSON array of [kills, level, apm] triples
type JSONLoader struct {
	path string
}

// NewJSONLoader creates a loader bound to a file path
func NewJSONLoader(path string) *JSONLoader {
	return &JSONLoader{path: path}
}

// Load reads the whole file; either every record is returned or none
func (l *JSONLoader) Load() (player.Dataset, error) {
	return LoadFile(l.path)
}

// LoadFile reads and decodes a data file
func LoadFile(path string) (player.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.DataFormat(fmt.Sprintf("cannot open data file %s", path), fmt.Errorf("%w: %v", core.ErrDataFormat, err))
	}
	defer f.Close()
	return Load(f)
}

// Load decodes records from a reader
func Load(r io.Reader) (player.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.DataFormat("cannot read data source", fmt.Errorf("%w: %v", core.ErrDataFormat, err))
	}
	return Decode(data)
}

// Decode parses a JSON array of 3-element numeric arrays
func Decode(data []byte) (player.Dataset, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.DataFormat("data is not a JSON array", core.ErrDataFormat)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, errors.DataFormat("invalid JSON", fmt.Errorf("%w: %v", core.ErrDataFormat, err))
	}

	dataset := make(player.Dataset, 0, len(raw))
	for i, elem := range raw {
		rec, err := decodeRecord(i, elem)
		if err != nil {
			return nil, errors.DataFormat("invalid record", err)
		}
		dataset = append(dataset, rec)
	}
	return dataset, nil
}

func decodeRecord(index int, elem json.RawMessage) (player.Record, error) {
	var fields []interface{}
	if err := json.Unmarshal(elem, &fields); err != nil || fields == nil {
		return player.Record{}, core.NewRecordFormatError(index, "expected an array")
	}
	if len(fields) != fieldsPerRecord {
		return player.Record{}, core.NewRecordFormatError(index,
			fmt.Sprintf("expected %d values, got %d", fieldsPerRecord, len(fields)))
	}
	values := make([]float64, fieldsPerRecord)
	for j, f := range fields {
		v, ok := f.(float64)
		if !ok {
			return player.Record{}, core.NewRecordFormatError(index,
				fmt.Sprintf("value %d is %T, not a number", j, f))
		}
		values[j] = v
	}
	return player.Record{Kills: values[0], Level: values[1], APM: values[2]}, nil
}
