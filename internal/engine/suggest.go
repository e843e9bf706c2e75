package engine

import (
	"gamestats/internal/fuzzy"
	"sort"
	"strings"

	"github.com/tchap/go-patricia/v2/patricia"
)

// nameRef is one distinct name and the row where it first appears.
type nameRef struct {
	first int
	name  string
}

// Suggester answers autocomplete queries over the distinct game names.
// Prefix matches always come first, in dataset order; fuzzy matches fill
// whatever room is left.
type Suggester struct {
	trie  *patricia.Trie // lowercase name -> []nameRef
	names []nameRef      // distinct names, dataset order
}

func newSuggester(cs *ColumnStore) *Suggester {
	s := &Suggester{trie: patricia.NewTrie()}

	seen := make(map[string]struct{})
	byKey := make(map[string][]nameRef)
	for i := 0; i < cs.Len(); i++ {
		name := cs.Names.Value(i)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		ref := nameRef{first: i, name: name}
		s.names = append(s.names, ref)
		key := cs.NamesLower[i]
		byKey[key] = append(byKey[key], ref)
	}
	for key, refs := range byKey {
		s.trie.Insert(patricia.Prefix(key), refs)
	}
	return s
}

// Suggest returns up to limit distinct names for query.
func (cs *ColumnStore) Suggest(query string, limit int) []string {
	return cs.suggester.Suggest(query, limit)
}

// Suggest returns up to limit distinct names for query. Identical inputs
// always produce identical output.
func (s *Suggester) Suggest(query string, limit int) []string {
	q := foldName(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return []string{}
	}

	out := s.prefixMatches(q, limit)
	if len(out) >= limit {
		return out
	}

	picked := make(map[string]struct{}, len(out))
	for _, name := range out {
		picked[name] = struct{}{}
	}
	for _, name := range s.fuzzyMatches(q, 2*limit) {
		if _, ok := picked[name]; ok {
			continue
		}
		out = append(out, name)
		if len(out) == limit {
			break
		}
	}
	return out
}

func (s *Suggester) prefixMatches(q string, limit int) []string {
	var refs []nameRef
	_ = s.trie.VisitSubtree(patricia.Prefix(q), func(_ patricia.Prefix, item patricia.Item) error {
		refs = append(refs, item.([]nameRef)...)
		return nil
	})
	sort.Slice(refs, func(i, j int) bool { return refs[i].first < refs[j].first })

	out := make([]string, 0, min(len(refs), limit))
	for _, r := range refs {
		if len(out) == limit {
			break
		}
		out = append(out, r.name)
	}
	return out
}

// fuzzyMatches ranks every distinct name by weighted ratio and returns the
// best n with a non-zero score. Equal scores keep dataset order.
func (s *Suggester) fuzzyMatches(q string, n int) []string {
	type scored struct {
		name  string
		score int
	}
	cands := make([]scored, 0, len(s.names))
	for _, r := range s.names {
		if sc := fuzzy.WRatio(q, r.name); sc > 0 {
			cands = append(cands, scored{name: r.name, score: sc})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })

	out := make([]string, 0, min(len(cands), n))
	for _, c := range cands[:min(len(cands), n)] {
		out = append(out, c.name)
	}
	return out
}
