package catalog

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/noventicred/constrular/internal/domain"
)

type SortOrder string

const (
	SortRelevance SortOrder = "relevance"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortName      SortOrder = "name"
)

// Query filters and orders an already-fetched product list in memory.
// Term matching is case and accent insensitive; every term token must
// match the name, brand or description for a product to stay in.
type Query struct {
	Term       string
	CategoryID string
	MinPrice   *float64
	MaxPrice   *float64
	Sort       SortOrder
}

const (
	scoreName        = 100
	scoreNamePrefix  = 50
	scoreBrand       = 40
	scoreDescription = 20
)

func Search(products []domain.Product, q Query) []domain.Product {
	tokens := tokenize(q.Term)

	type scored struct {
		product domain.Product
		score   int
	}
	var matched []scored

	for _, p := range products {
		if q.CategoryID != "" && p.CategoryID != q.CategoryID {
			continue
		}
		if q.MinPrice != nil && p.Price < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && p.Price > *q.MaxPrice {
			continue
		}

		score, ok := scoreProduct(p, tokens)
		if !ok {
			continue
		}
		matched = append(matched, scored{product: p, score: score})
	}

	sortOrder := q.Sort
	if sortOrder == "" {
		sortOrder = SortRelevance
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch sortOrder {
		case SortPriceAsc:
			return a.product.Price < b.product.Price
		case SortPriceDesc:
			return a.product.Price > b.product.Price
		case SortName:
			return fold(a.product.Name) < fold(b.product.Name)
		default:
			if a.score != b.score {
				return a.score > b.score
			}
			return fold(a.product.Name) < fold(b.product.Name)
		}
	})

	out := make([]domain.Product, len(matched))
	for i, m := range matched {
		out[i] = m.product
	}
	return out
}

// scoreProduct returns the relevance of p for the given tokens and
// whether every token matched at least one field.
func scoreProduct(p domain.Product, tokens []string) (int, bool) {
	if len(tokens) == 0 {
		return 0, true
	}

	name := fold(p.Name)
	brand := fold(p.Brand)
	desc := fold(p.Description)

	total := 0
	for _, tok := range tokens {
		score := 0
		if strings.Contains(name, tok) {
			score += scoreName
			if strings.HasPrefix(name, tok) {
				score += scoreNamePrefix
			}
		}
		if brand != "" && strings.Contains(brand, tok) {
			score += scoreBrand
		}
		if desc != "" && strings.Contains(desc, tok) {
			score += scoreDescription
		}
		if score == 0 {
			return 0, false
		}
		total += score
	}
	return total, true
}

func tokenize(term string) []string {
	return strings.Fields(fold(term))
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold lowercases and strips combining marks, so "Cerâmica" matches
// "ceramica".
func fold(s string) string {
	folded, _, err := transform.String(foldTransformer, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}
