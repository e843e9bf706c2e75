package main

import (
	"flag"
	"fmt"
	"gamestats/internal/config"
	"gamestats/internal/engine"
	"gamestats/internal/logger"
	"gamestats/internal/models"
	"gamestats/internal/nlq"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

var (
	configFlag   = flag.String("config", "config.toml", "Path to the TOML config file")
	dataFlag     = flag.String("data", "", "Dataset path (.csv or .parquet), overrides the config")
	questionFlag = flag.String("q", "", "Question, e.g. \"top 25 mais vendidos em 2010\"")
	suggestFlag  = flag.String("suggest", "", "Suggest game names for a partial name")
	gameFlag     = flag.String("game", "", "Show the best matching game for a name")
	overviewFlag = flag.Bool("overview", false, "Print dataset statistics")
	limitFlag    = flag.Int("limit", 10, "Number of suggestions")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Query the video game sales dataset from the terminal.\n\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -q \"Qual a média de nota da franquia Zelda?\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -suggest zel -limit 5\n", os.Args[0])
	}
	flag.Parse()

	log := logger.New("gamesq")

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatal("Invalid configuration", "err", err)
	}
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		log.Warn("Unknown log level, keeping default", "level", cfg.Log.Level)
	}
	path := cfg.Data.Path
	if *dataFlag != "" {
		path = *dataFlag
	}

	store, err := engine.Load(path)
	if err != nil {
		log.Fatal("Could not load dataset", "err", err)
	}
	defer store.Release()

	out := os.Stdout
	switch {
	case *questionFlag != "":
		printAnswer(out, store.Answer(nlq.Parse(*questionFlag)))
	case *suggestFlag != "":
		for _, name := range store.Suggest(*suggestFlag, *limitFlag) {
			fmt.Fprintln(out, name)
		}
	case *gameFlag != "":
		game, ok := store.BestMatch(*gameFlag)
		if !ok {
			fmt.Fprintf(os.Stderr, "No game matches %q\n", *gameFlag)
			os.Exit(1)
		}
		printGames(out, models.GlobalSales, []models.Game{game})
	case *overviewFlag:
		printOverview(out, store.Overview())
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func printAnswer(w io.Writer, ans engine.Answer) {
	intent := ans.Intent
	fmt.Fprintf(w, "mode=%s metric=%s limit=%d\n", intent.Mode, intent.Metric, intent.Limit)

	if agg := ans.Aggregate; agg != nil {
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"metric", "name contains", "count", "mean", "sum"})
		table.Append([]string{string(agg.Metric), deref(agg.NameContains), strconv.Itoa(agg.Count), fmtFloat(agg.Mean), fmtFloat(agg.Sum)})
		table.Render()
		return
	}

	fmt.Fprintf(w, "total=%d\n", ans.Total)
	printGames(w, intent.Metric, ans.Items)
}

func printGames(w io.Writer, metric models.Metric, games []models.Game) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "name", "platform", "year", "genre", "publisher", string(metric)})
	for i, g := range games {
		year := ""
		if g.Year != nil {
			year = strconv.Itoa(*g.Year)
		}
		table.Append([]string{
			strconv.Itoa(i + 1), g.Name, deref(g.Platform), year, deref(g.Genre), deref(g.Publisher),
			fmtFloat(metricValue(g, metric)),
		})
	}
	table.Render()
}

func printOverview(w io.Writer, o models.Overview) {
	years := ""
	if o.YearRange != nil {
		years = fmt.Sprintf("%d-%d", o.YearRange[0], o.YearRange[1])
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"titles", "years", "global sales", "avg critic", "avg user"})
	table.Append([]string{strconv.Itoa(o.TotalTitles), years, fmtFloat(o.SumGlobalSales), fmtFloat(o.AvgCriticScore), fmtFloat(o.AvgUserScore)})
	table.Render()
}

func metricValue(g models.Game, m models.Metric) *float64 {
	switch m {
	case models.NASales:
		return g.NASales
	case models.EUSales:
		return g.EUSales
	case models.JPSales:
		return g.JPSales
	case models.CriticScore:
		return g.CriticScore
	case models.UserScore:
		return g.UserScore
	default:
		return g.GlobalSales
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func fmtFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
