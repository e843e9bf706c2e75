package engine

import "gamestats/internal/models"

// Answer is the result of running a parsed question against the store.
// Aggregate is set in aggregate mode; Total and Items in ranking mode.
type Answer struct {
	Intent    models.Intent
	Aggregate *models.AggregateSummary
	Total     int
	Items     []models.Game
}

// Answer runs intent as an aggregate or a first-page ranking.
func (cs *ColumnStore) Answer(intent models.Intent) Answer {
	if intent.Mode == models.ModeAggregate {
		agg := cs.Aggregate(intent.Metric, intent.Filters, intent.NameContains)
		return Answer{Intent: intent, Aggregate: &agg, Items: []models.Game{}}
	}

	total, items := cs.Rankings(intent.Metric, intent.Filters, intent.Limit, 0)
	return Answer{Intent: intent, Total: total, Items: items}
}
