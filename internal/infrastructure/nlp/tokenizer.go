// Package nlp holds the text-analysis engine: tokenization, keyword topic
// matching, the self-training Bayes classifier, TF-IDF scoring against the
// document corpus and extractive summarization.
package nlp

import (
	"regexp"
	"strings"
)

// wordPattern uses ASCII word boundaries: "abc123" yields no word and a
// non-ASCII letter ends a run.
var wordPattern = regexp.MustCompile(`\b[a-zA-Z]+\b`)

// maxTokenLen is the longest run kept as a token. Longer runs are still
// counted as words.
const maxTokenLen = 255

// Token is one unique word of a tokenized text plus its TF-IDF figures.
type Token struct {
	Text     string
	RawCount int
	TF       float64
	IDF      float64
	TFIDF    float64
}

// TokenSet holds the unique tokens of one text in first-occurrence order.
type TokenSet struct {
	tokens []Token
	index  map[string]int
}

func (s *TokenSet) Len() int { return len(s.tokens) }

// Tokens exposes the backing slice; callers own the set.
func (s *TokenSet) Tokens() []Token { return s.tokens }

func (s *TokenSet) Count(text string) int {
	i, ok := s.index[text]
	if !ok {
		return 0
	}
	return s.tokens[i].RawCount
}

// TotalCount is the sum of raw counts over all tokens.
func (s *TokenSet) TotalCount() int {
	total := 0
	for _, t := range s.tokens {
		total += t.RawCount
	}
	return total
}

func (s *TokenSet) add(text string) {
	if i, ok := s.index[text]; ok {
		s.tokens[i].RawCount++
		return
	}
	s.index[text] = len(s.tokens)
	s.tokens = append(s.tokens, Token{Text: text, RawCount: 1})
}

// Tokenizer extracts lowercase alphabetic tokens and drops stopwords.
type Tokenizer struct {
	stopwords map[string]struct{}
}

func NewTokenizer(stopwords []string) *Tokenizer {
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &Tokenizer{stopwords: stops}
}

// Tokenize consumes the whole text and returns its unique non-stopword tokens.
func (t *Tokenizer) Tokenize(text string) *TokenSet {
	set := &TokenSet{index: make(map[string]int)}
	for _, loc := range wordPattern.FindAllStringIndex(text, -1) {
		if loc[1]-loc[0] > maxTokenLen {
			continue
		}
		word := asciiLower(text[loc[0]:loc[1]])
		if t.isStopword(word) {
			continue
		}
		set.add(word)
	}
	return set
}

// CountWords counts alphabetic runs without stopword filtering or dedup.
func (t *Tokenizer) CountWords(text string) int {
	return CountWords(text)
}

func CountWords(text string) int {
	return len(wordPattern.FindAllStringIndex(text, -1))
}

func (t *Tokenizer) isStopword(word string) bool {
	_, ok := t.stopwords[word]
	return ok
}

// asciiLower folds only A-Z so byte offsets and non-ASCII text stay untouched.
func asciiLower(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
