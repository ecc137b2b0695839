package player

import (
	"strconv"

	"playercorr/domain/core"
)

// Record is a single player observation
type Record struct {
	Kills float64 `json:"kills"`
	Level float64 `json:"level"`
	APM   float64 `json:"apm"`
}

// Dataset is an ordered sequence of records in source order
type Dataset []Record

// Len returns the number of records
func (d Dataset) Len() int {
	return len(d)
}

// Fingerprint hashes the records in order. Two datasets with the same values
// in the same order share a fingerprint regardless of their JSON formatting.
func (d Dataset) Fingerprint() core.Hash {
	buf := make([]byte, 0, len(d)*24)
	for _, r := range d {
		buf = strconv.AppendFloat(buf, r.Kills, 'g', -1, 64)
		buf = append(buf, ',')
		buf = strconv.AppendFloat(buf, r.Level, 'g', -1, 64)
		buf = append(buf, ',')
		buf = strconv.AppendFloat(buf, r.APM, 'g', -1, 64)
		buf = append(buf, '\n')
	}
	return core.NewHash(buf)
}

// Variable names one of the three record fields
type Variable string

const (
	VarKills Variable = "kills"
	VarLevel Variable = "level"
	VarAPM   Variable = "apm"
)

// Columns holds the three index-aligned value sequences of a dataset
type Columns struct {
	Kills []float64
	Level []float64
	APM   []float64
}

// Columns extracts the aligned field sequences; index i of each refers to record i
func (d Dataset) Columns() Columns {
	cols := Columns{
		Kills: make([]float64, len(d)),
		Level: make([]float64, len(d)),
		APM:   make([]float64, len(d)),
	}
	for i, r := range d {
		cols.Kills[i] = r.Kills
		cols.Level[i] = r.Level
		cols.APM[i] = r.APM
	}
	return cols
}

// Get returns the sequence for a variable
func (c Columns) Get(v Variable) []float64 {
	switch v {
	case VarKills:
		return c.Kills
	case VarLevel:
		return c.Level
	case VarAPM:
		return c.APM
	default:
		return nil
	}
}

// Len returns the shared sequence length
func (c Columns) Len() int {
	return len(c.Kills)
}
