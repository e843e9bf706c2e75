package models

// Metric names one of the numeric columns eligible for ranking and aggregation.
type Metric string

const (
	GlobalSales Metric = "global_sales"
	NASales     Metric = "na_sales"
	EUSales     Metric = "eu_sales"
	JPSales     Metric = "jp_sales"
	CriticScore Metric = "critic_score"
	UserScore   Metric = "user_score"
)

// Metrics lists the valid selectors in their canonical order.
var Metrics = []Metric{GlobalSales, NASales, EUSales, JPSales, CriticScore, UserScore}

// Valid reports whether m is one of the six canonical metrics.
func (m Metric) Valid() bool {
	for _, v := range Metrics {
		if m == v {
			return true
		}
	}
	return false
}

// Filters is the optional constraint set applied before ranking or aggregation.
// A nil field means no constraint on that dimension.
type Filters struct {
	Year      *int    `json:"year,omitempty"`
	YearFrom  *int    `json:"year_from,omitempty"`
	YearTo    *int    `json:"year_to,omitempty"`
	Platform  *string `json:"platform,omitempty"`
	Genre     *string `json:"genre,omitempty"`
	Publisher *string `json:"publisher,omitempty"`
	Rating    *string `json:"rating,omitempty"`

	// Invalid marks a filter value that could not be coerced (e.g. a
	// non-numeric year). Such a set matches nothing.
	Invalid bool `json:"-"`
}

// Game is one row of the dataset as returned to callers.
type Game struct {
	Name        string   `json:"name"`
	Platform    *string  `json:"platform"`
	Genre       *string  `json:"genre"`
	Year        *int     `json:"year"`
	Publisher   *string  `json:"publisher"`
	Developer   *string  `json:"developer"`
	Rating      *string  `json:"rating"`
	GlobalSales *float64 `json:"global_sales"`
	NASales     *float64 `json:"na_sales"`
	EUSales     *float64 `json:"eu_sales"`
	JPSales     *float64 `json:"jp_sales"`
	OtherSales  *float64 `json:"other_sales"`
	CriticScore *float64 `json:"critic_score"`
	UserScore   *float64 `json:"user_score"`
}

type YearRange [2]int

type Overview struct {
	TotalTitles    int        `json:"total_titles"`
	YearRange      *YearRange `json:"year_range"`
	SumGlobalSales *float64   `json:"sum_global_sales"`
	AvgCriticScore *float64   `json:"avg_critic_score"`
	AvgUserScore   *float64   `json:"avg_user_score"`
}

type RankingPage struct {
	Metric  Metric  `json:"metric"`
	Filters Filters `json:"filters"`
	Total   int     `json:"total"`
	Items   []Game  `json:"items"`
}

// AggregateSummary holds mean/sum of a metric over a subset. Mean and Sum are
// nil when the subset is empty.
type AggregateSummary struct {
	Metric       Metric   `json:"metric"`
	Filters      Filters  `json:"filters"`
	NameContains *string  `json:"name_contains"`
	Count        int      `json:"count"`
	Mean         *float64 `json:"mean"`
	Sum          *float64 `json:"sum"`
}

type Mode string

const (
	ModeRanking   Mode = "rankings"
	ModeAggregate Mode = "aggregate"
)

// Intent is the structured form of a free-text question.
type Intent struct {
	Mode         Mode    `json:"mode"`
	Metric       Metric  `json:"metric"`
	Filters      Filters `json:"filters"`
	NameContains *string `json:"name_contains,omitempty"`
	Limit        int     `json:"limit"`
}

type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}
