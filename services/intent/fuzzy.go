package intent

import (
	"context"
	"strings"

	"github.com/sahilm/fuzzy"
)

// minTokenLen filters out tokens too short to carry signal ("of", "rg").
const minTokenLen = 3

// stopwords are query filler that would otherwise fuzzy-match half the
// catalog.
var stopwords = map[string]bool{
	"all": true, "and": true, "are": true, "can": true, "for": true,
	"get": true, "give": true, "have": true, "how": true, "list": true,
	"many": true, "please": true, "show": true, "tell": true, "the": true,
	"what": true, "which": true, "with": true, "you": true,
}

// fuzzyMatch is the last matcher before the help fallback. It tokenizes the
// query and fuzzy-searches each token against the resource-type catalog: the
// distinct types live in the account merged with the alias table's types.
// The best-scoring hit across all tokens wins.
func (c *Classifier) fuzzyMatch(ctx context.Context, q string) (Match, bool) {
	tokens := tokenize(q)
	if len(tokens) == 0 {
		return Match{}, false
	}

	catalog := AliasResourceTypes()
	if c.catalog != nil {
		// A catalog fetch failure only narrows the search space; the alias
		// types still make the fallback usable.
		if live, err := c.catalog.ResourceTypeCatalog(ctx); err == nil {
			catalog = mergeCatalog(catalog, live)
		}
	}

	var (
		best      fuzzy.Match
		bestToken string
		found     bool
	)
	for _, token := range tokens {
		matches := fuzzy.Find(token, catalog)
		if len(matches) == 0 {
			continue
		}
		if !found || matches[0].Score > best.Score {
			best = matches[0]
			bestToken = token
			found = true
		}
	}
	if !found || best.Score < 0 {
		return Match{}, false
	}

	return Match{
		Kind:         Discover,
		ResourceType: best.Str,
		Keyword:      bestToken,
		Rule:         "fuzzy-catalog",
	}, true
}

// tokenize splits q on non-alphanumeric runes and drops stopwords and short
// tokens.
func tokenize(q string) []string {
	fields := strings.FieldsFunc(q, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < minTokenLen || stopwords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// mergeCatalog unions base with extra, preserving base order and
// deduplicating.
func mergeCatalog(base, extra []string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	merged := make([]string, 0, len(base)+len(extra))
	for _, t := range base {
		if !seen[t] {
			seen[t] = true
			merged = append(merged, t)
		}
	}
	for _, t := range extra {
		if t != "" && !seen[t] {
			seen[t] = true
			merged = append(merged, t)
		}
	}
	return merged
}
