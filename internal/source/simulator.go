package source

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"time"

	"github.com/huangsam/airqc/internal/contract"
	"github.com/huangsam/airqc/schema"
)

// Distribution parameters for simulated operations.
const (
	turnaroundMean = 40.0
	turnaroundSD   = 5.0
	bagSLAMean     = 18.0
	bagSLASD       = 3.0
	queueMean      = 8.0
	queueSD        = 2.0
	scanFailProb   = 0.01
	paxFlowLambda  = 20.0
)

// delayCauseWeights follows the order of schema.AllDelayCauses.
var delayCauseWeights = []float64{0.4, 0.2, 0.15, 0.15, 0.1}

// Simulator generates one record per day and airline from a seeded random stream.
// The same seed and span always produce the same records.
type Simulator struct {
	Start    time.Time
	End      time.Time
	Seed     int64
	Airlines []string
	Progress io.Writer // nil disables the progress bar
}

var _ contract.RecordSource = &Simulator{} // Compile-time check

// NewSimulator creates a simulator over the inclusive day span for every airline.
func NewSimulator(start, end time.Time, seed int64) *Simulator {
	return &Simulator{
		Start:    schema.Day(start),
		End:      schema.Day(end),
		Seed:     seed,
		Airlines: schema.AllAirlines,
	}
}

// Name implements the RecordSource interface.
func (s *Simulator) Name() string {
	return fmt.Sprintf("simulated %s → %s (seed %d)", schema.FormatDay(s.Start), schema.FormatDay(s.End), s.Seed)
}

// Load implements the RecordSource interface.
func (s *Simulator) Load(ctx context.Context) ([]schema.OperationalRecord, error) {
	if s.Start.After(s.End) {
		return nil, fmt.Errorf("%w: simulation start %s is after end %s",
			schema.ErrInvalidRange, schema.FormatDay(s.Start), schema.FormatDay(s.End))
	}

	days := int(s.End.Sub(s.Start).Hours()/24) + 1
	bar := newBar(int64(days), "simulating", s.Progress)
	defer func() { _ = bar.Finish() }()

	seed := uint64(s.Seed)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	records := make([]schema.OperationalRecord, 0, days*len(s.Airlines))
	for d := s.Start; !d.After(s.End); d = d.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, airline := range s.Airlines {
			records = append(records, s.generate(rng, d, airline))
		}
		_ = bar.Add(1)
	}
	return records, nil
}

// generate draws a single record.
func (s *Simulator) generate(rng *rand.Rand, day time.Time, airline string) schema.OperationalRecord {
	return schema.OperationalRecord{
		Date:              day,
		Airline:           airline,
		Gate:              schema.AllGates[rng.IntN(len(schema.AllGates))],
		TurnaroundMinutes: normal(rng, turnaroundMean, turnaroundSD),
		BagSLAMinutes:     normal(rng, bagSLAMean, bagSLASD),
		QueueMinutes:      normal(rng, queueMean, queueSD),
		ScanFailures:      binomial(rng, schema.NominalBagBatch, scanFailProb),
		TotalBags:         schema.NominalBagBatch,
		PassengerFlow:     poisson(rng, paxFlowLambda),
		DelayCause:        schema.AllDelayCauses[weighted(rng, delayCauseWeights)],
	}
}

func normal(rng *rand.Rand, mean, sd float64) float64 {
	return mean + sd*rng.NormFloat64()
}

// binomial counts successes over n Bernoulli trials.
func binomial(rng *rand.Rand, n int, p float64) int {
	k := 0
	for range n {
		if rng.Float64() < p {
			k++
		}
	}
	return k
}

// poisson uses Knuth's multiplication method, fine for small lambda.
func poisson(rng *rand.Rand, lambda float64) int {
	limit := math.Exp(-lambda)
	k, p := 0, 1.0
	for {
		p *= rng.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}

// weighted picks an index with probability proportional to weights.
func weighted(rng *rand.Rand, weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	x := rng.Float64() * total
	for i, w := range weights {
		if x < w {
			return i
		}
		x -= w
	}
	return len(weights) - 1
}
