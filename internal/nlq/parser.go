// Package nlq turns free-text questions (Portuguese or English) into the
// structured queries the engine understands.
//
// Parsing is rule based: each extractor is an ordered list of patterns and
// the first one that matches wins. Parse never fails; ambiguous input falls
// back to a global-sales ranking of ten rows.
package nlq

import (
	"gamestats/internal/models"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

type metricRule struct {
	re     *regexp.Regexp
	metric models.Metric
}

// Priority order matters: regional sales, then specific scores, then generic
// score words, then sales.
var metricRules = []metricRule{
	{wholeWord(`na|north america|américa do norte|america do norte|eua`), models.NASales},
	{wholeWord(`eu|europe|europa`), models.EUSales},
	{wholeWord(`jp|japan|jap[aã]o`), models.JPSales},
	{wholeWord(`metacritic|nota cr[ií]tica|cr[ií]tica|critic score|critic`), models.CriticScore},
	{wholeWord(`user score|nota de usu[aá]rios?|usu[aá]rios?`), models.UserScore},
	{wholeWord(`notas?|score|avalia[cç][aã]o`), models.CriticScore},
	{wholeWord(`best[- ]?selling|mais vendidos?|vendas? globais?|sales`), models.GlobalSales},
}

var (
	yearRe  = wholeWord(`(19[7-9]\d|20[0-3]\d)`)
	limitRe = regexp.MustCompile(`top\D{0,3}(\d{1,3})`)

	aggregateIntentRe = wholeWord(`m[eé]dia|average|mean|franq[uú]ia|franchise`)

	franquiaRe   = regexp.MustCompile(wordStart + `franq[uú]ia\s+([a-z0-9 :\-&]+)`)
	franchiseRe  = regexp.MustCompile(wordStart + `franchise\s+([a-z0-9 :\-&]+)`)
	averageOfRe  = regexp.MustCompile(`(m[eé]dia|average|mean)[^a-z0-9]+(de|of)\s+(nota\s+da?\s+|score\s+of\s+)?([a-z0-9 :\-&]+)`)
	averageAnyRe = regexp.MustCompile(wordStart + `m[eé]dia|average|mean` + wordEnd)
	wordRe       = regexp.MustCompile(`[a-z0-9]+`)
)

// Parse extracts an Intent from question. It is pure and safe for concurrent use.
func Parse(question string) models.Intent {
	text := cases.Lower(language.Und).String(norm.NFC.String(strings.TrimSpace(question)))

	intent := models.Intent{
		Mode:   models.ModeRanking,
		Metric: detectMetric(text),
		Limit:  detectLimit(text),
	}
	if y, ok := detectYear(text); ok {
		intent.Filters.Year = &y
	}
	if p, ok := lookup(platformAliases, text); ok {
		intent.Filters.Platform = &p
	}
	if g, ok := lookup(genreAliases, text); ok {
		intent.Filters.Genre = &g
	}

	if !aggregateIntentRe.MatchString(text) {
		return intent
	}
	term, ok := detectAggregateTerm(text)
	if !ok {
		// Aggregate wording without a usable term is answered as a ranking.
		return intent
	}

	intent.Mode = models.ModeAggregate
	intent.NameContains = &term
	if !intent.Metric.Valid() {
		intent.Metric = models.CriticScore
	}
	return intent
}

func detectMetric(text string) models.Metric {
	for _, r := range metricRules {
		if r.re.MatchString(text) {
			return r.metric
		}
	}
	return models.GlobalSales
}

func detectYear(text string) (int, bool) {
	m := yearRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return y, true
}

func detectLimit(text string) int {
	m := limitRe.FindStringSubmatch(text)
	if m == nil {
		return defaultLimit
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return defaultLimit
	}
	return max(1, min(maxLimit, n))
}

// detectAggregateTerm finds the name fragment an average/franchise question
// is about: "franquia zelda", "average of mario", or, when only an average
// word is present, every remaining non-stop word.
func detectAggregateTerm(text string) (string, bool) {
	for _, re := range []*regexp.Regexp{franquiaRe, franchiseRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			return cleanTerm(m[1])
		}
	}

	if m := averageOfRe.FindStringSubmatch(text); m != nil {
		return cleanTerm(m[4])
	}

	if averageAnyRe.MatchString(text) {
		var words []string
		for _, w := range wordRe.FindAllString(text, -1) {
			if !stopWords[w] && len(w) > 2 {
				words = append(words, w)
			}
		}
		if len(words) > 0 {
			return strings.Join(words, " "), true
		}
	}
	return "", false
}

func cleanTerm(s string) (string, bool) {
	term := strings.Trim(s, " .?")
	return term, term != ""
}
