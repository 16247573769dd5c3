package cluster

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Tokenize lowercases s and splits it on every run of characters that are
// neither letters nor digits.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// IDF is the smoothed inverse document frequency ln((n+1)/(df+1)) + 1.
func IDF(n, df int) float64 {
	return math.Log(float64(n+1)/float64(df+1)) + 1
}

type tfidfModel struct {
	vocab   []string
	weights []float64
}

func buildTFIDF(docs [][]string) *tfidfModel {
	df := make(map[string]int)
	for _, tokens := range docs {
		for tok := range tokenSet(tokens) {
			df[tok]++
		}
	}
	vocab := make([]string, 0, len(df))
	for tok := range df {
		vocab = append(vocab, tok)
	}
	sort.Strings(vocab)
	weights := make([]float64, len(vocab))
	for i, tok := range vocab {
		weights[i] = IDF(len(docs), df[tok])
	}
	return &tfidfModel{vocab: vocab, weights: weights}
}

// vector returns the L2-normalized binary TF-IDF vector of tokens.
func (m *tfidfModel) vector(tokens []string) []float64 {
	set := tokenSet(tokens)
	v := make([]float64, len(m.vocab))
	var sum float64
	for i, tok := range m.vocab {
		if set[tok] {
			v[i] = m.weights[i]
			sum += v[i] * v[i]
		}
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] /= norm
	}
	return v
}

func tokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		set[tok] = true
	}
	return set
}
