package nlq

import "regexp"

// alias maps a lowercase token to its canonical dataset label. Tables are
// scanned in declaration order and the first whole-word hit wins, regardless
// of where it appears in the text.
type alias struct {
	key   string
	label string
	re    *regexp.Regexp
}

// Word guards. RE2's \b only knows ASCII word characters, so an accented
// letter would otherwise end a word ("na" in "nação").
const (
	wordStart = `(?:^|[^\p{L}\p{N}_])`
	wordEnd   = `(?:$|[^\p{L}\p{N}_])`
)

// wholeWord matches pattern only when it is not part of a longer word.
// Capture groups inside pattern keep their numbers.
func wholeWord(pattern string) *regexp.Regexp {
	return regexp.MustCompile(wordStart + `(?:` + pattern + `)` + wordEnd)
}

func compileAliases(pairs [][2]string) []alias {
	out := make([]alias, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, alias{
			key:   p[0],
			label: p[1],
			re:    wholeWord(regexp.QuoteMeta(p[0])),
		})
	}
	return out
}

var platformAliases = compileAliases([][2]string{
	{"ps", "PS"}, {"ps1", "PS"}, {"ps2", "PS2"}, {"ps3", "PS3"}, {"ps4", "PS4"}, {"ps5", "PS5"},
	{"x360", "X360"}, {"xbox360", "X360"}, {"xbox 360", "X360"},
	{"xbone", "XOne"}, {"xone", "XOne"}, {"xbox one", "XOne"},
	{"xbox", "XB"}, {"xb", "XB"},
	{"wii", "Wii"}, {"wiiu", "WiiU"}, {"wii u", "WiiU"},
	{"ds", "DS"}, {"3ds", "3DS"}, {"n3ds", "3DS"},
	{"switch", "Switch"}, {"nsw", "Switch"},
	{"n64", "N64"}, {"gc", "GC"}, {"gamecube", "GC"},
	{"gba", "GBA"}, {"gb", "GB"}, {"psp", "PSP"}, {"psvita", "PSV"},
	{"pc", "PC"},
})

var genreAliases = compileAliases([][2]string{
	{"action", "Action"}, {"ação", "Action"}, {"acao", "Action"},
	{"rpg", "RPG"},
	{"sports", "Sports"}, {"esporte", "Sports"}, {"esportes", "Sports"},
	{"racing", "Racing"}, {"corrida", "Racing"},
	{"adventure", "Adventure"}, {"aventura", "Adventure"},
	{"shooter", "Shooter"}, {"tiro", "Shooter"},
	{"platform", "Platform"},
	{"simulation", "Simulation"}, {"simulação", "Simulation"}, {"simulacao", "Simulation"},
	{"strategy", "Strategy"}, {"estratégia", "Strategy"}, {"estrategia", "Strategy"},
	{"fighting", "Fighting"}, {"luta", "Fighting"},
	{"puzzle", "Puzzle"},
	{"misc", "Misc"},
})

func lookup(table []alias, text string) (string, bool) {
	for _, a := range table {
		if a.re.MatchString(text) {
			return a.label, true
		}
	}
	return "", false
}

// stopWords are dropped when the aggregate term falls back to "all the
// remaining words".
var stopWords = func() map[string]bool {
	set := make(map[string]bool)
	for _, table := range [][]alias{platformAliases, genreAliases} {
		for _, a := range table {
			set[a.key] = true
		}
	}
	for _, w := range []string{
		"top", "vendas", "globais", "sales", "nota", "critica", "crítica",
		"usuario", "usuário", "users", "score", "em", "no", "na", "de", "do", "da",
		"franquia", "franchise", "metacritic", "eu", "jp", "europe", "japan",
		"media", "dia", "average", "mean", "qual", "what", "the", "jogos", "games",
	} {
		set[w] = true
	}
	return set
}()
