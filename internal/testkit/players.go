package testkit

import (
	"math"
	"math/rand"

	"playercorr/domain/player"

	"github.com/goccy/go-json"
)

// PlayerGenerator produces deterministic synthetic player datasets
type PlayerGenerator struct {
	rng *rand.Rand
}

// NewPlayerGenerator creates a generator seeded for reproducible output
func NewPlayerGenerator(seed int64) *PlayerGenerator {
	return &PlayerGenerator{rng: rand.New(rand.NewSource(seed))}
}

// Generate returns n records where APM grows with level and kills grow with APM.
// Roughly a fifth of the records fall outside the default filter.
func (g *PlayerGenerator) Generate(n int) player.Dataset {
	out := make(player.Dataset, 0, n)
	for i := 0; i < n; i++ {
		level := 1 + g.rng.Float64()*999
		apm := 20 + 0.08*level + g.rng.NormFloat64()*15
		if g.rng.Intn(20) == 0 {
			apm = 0
		}
		kills := 0.05 + 0.002*math.Max(apm, 0) + g.rng.NormFloat64()*0.04
		out = append(out, player.Record{
			Kills: clamp(kills, 0, 1),
			Level: math.Round(level),
			APM:   math.Max(math.Round(apm), 0),
		})
	}
	return out
}

// Linear returns records whose APM and kills are exact affine functions of level,
// all passing the default filter.
func (g *PlayerGenerator) Linear(n int, apmSlope, apmIntercept, killsSlope, killsIntercept float64) player.Dataset {
	out := make(player.Dataset, 0, n)
	for i := 0; i < n; i++ {
		level := 91 + float64(i)*(909/math.Max(float64(n-1), 1))
		out = append(out, player.Record{
			Level: level,
			APM:   apmSlope*level + apmIntercept,
			Kills: killsSlope*level + killsIntercept,
		})
	}
	return out
}

// EncodeJSON serialises records in the [kills, level, apm] array layout
func EncodeJSON(d player.Dataset) ([]byte, error) {
	rows := make([][3]float64, len(d))
	for i, r := range d {
		rows[i] = [3]float64{r.Kills, r.Level, r.APM}
	}
	return json.Marshal(rows)
}

// StaticSource serves a fixed dataset, or a fixed error
type StaticSource struct {
	Dataset player.Dataset
	Err     error
}

// Load implements ports.DatasetSource
func (s StaticSource) Load() (player.Dataset, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Dataset, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
