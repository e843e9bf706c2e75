package engine

import (
	"gamestats/internal/models"
	"math"
	"runtime"
	"strings"
	"sync"

	"github.com/apache/arrow/go/v18/arrow/array"
)

type colStats struct {
	Sum float64
	N   int
}

func (s *colStats) add(col *array.Float64, i int) {
	if col.IsValid(i) {
		s.Sum += col.Value(i)
		s.N++
	}
}

func (s *colStats) merge(o colStats) {
	s.Sum += o.Sum
	s.N += o.N
}

// Overview computes dataset-wide statistics. Aggregates over an all-null
// column are reported as nil.
func (cs *ColumnStore) Overview() models.Overview {
	n := cs.Len()

	// 1. Setup Workers
	numWorkers := runtime.NumCPU()
	if numWorkers > n {
		numWorkers = max(n, 1)
	}
	chunkSize := (n + numWorkers - 1) / numWorkers

	type partialAgg struct {
		global, critic, user colStats
		minYear, maxYear     int64
		hasYear              bool
	}
	parts := make([]partialAgg, numWorkers)

	// 2. Parallel Loop
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)

		wg.Add(1)
		go func(p *partialAgg, s, e int) {
			defer wg.Done()
			years := cs.Years
			for j := s; j < e; j++ {
				p.global.add(cs.GlobalSales, j)
				p.critic.add(cs.CriticScores, j)
				p.user.add(cs.UserScores, j)

				if years.IsValid(j) {
					y := years.Value(j)
					if !p.hasYear || y < p.minYear {
						p.minYear = y
					}
					if !p.hasYear || y > p.maxYear {
						p.maxYear = y
					}
					p.hasYear = true
				}
			}
		}(&parts[w], start, end)
	}
	wg.Wait()

	// 3. Merge Phase, in chunk order so sums are reproducible
	var total partialAgg
	for _, p := range parts {
		total.global.merge(p.global)
		total.critic.merge(p.critic)
		total.user.merge(p.user)
		if p.hasYear {
			if !total.hasYear || p.minYear < total.minYear {
				total.minYear = p.minYear
			}
			if !total.hasYear || p.maxYear > total.maxYear {
				total.maxYear = p.maxYear
			}
			total.hasYear = true
		}
	}

	distinct := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		distinct[cs.Names.Value(i)] = struct{}{}
	}

	out := models.Overview{
		TotalTitles:    len(distinct),
		SumGlobalSales: sumOf(total.global, 2),
		AvgCriticScore: meanOf(total.critic, 2),
		AvgUserScore:   meanOf(total.user, 2),
	}
	if total.hasYear {
		out.YearRange = &models.YearRange{int(total.minYear), int(total.maxYear)}
	}
	return out
}

// Aggregate computes mean and sum of metric over the rows whose name contains
// nameContains (case-insensitive, when given) and that satisfy f.
func (cs *ColumnStore) Aggregate(metric models.Metric, f models.Filters, nameContains *string) models.AggregateSummary {
	summary := models.AggregateSummary{
		Metric:       metric,
		Filters:      f,
		NameContains: nameContains,
	}

	col := cs.Metric(metric)
	if col == nil {
		return summary
	}

	rows := cs.allRows()
	if nameContains != nil {
		if needle := strings.TrimSpace(foldName(*nameContains)); needle != "" {
			rows = cs.withNameContaining(rows, needle)
		}
	}
	rows = withMetric(cs.filter(rows, f), col)

	var stats colStats
	for _, i := range rows {
		stats.add(col, i)
	}
	summary.Count = stats.N
	summary.Mean = meanOf(stats, 3)
	summary.Sum = sumOf(stats, 3)
	return summary
}

func sumOf(s colStats, places int) *float64 {
	if s.N == 0 {
		return nil
	}
	v := round(s.Sum, places)
	return &v
}

func meanOf(s colStats, places int) *float64 {
	if s.N == 0 {
		return nil
	}
	v := round(s.Sum/float64(s.N), places)
	return &v
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
