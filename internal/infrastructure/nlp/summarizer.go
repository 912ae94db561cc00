package nlp

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/kirillkom/nlp-text-server/internal/core/domain"
)

var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]`)

// boundaryBoost weights the first and last sentence.
const boundaryBoost = 1.5

type Sentence struct {
	Text     string
	Position int
	Score    float64
}

// SplitSentences returns every maximal run of non-terminators followed by one
// terminator. Text without a terminator has no sentences.
func SplitSentences(text string) []Sentence {
	locs := sentencePattern.FindAllStringIndex(text, -1)
	out := make([]Sentence, 0, len(locs))
	for _, loc := range locs {
		out = append(out, Sentence{Text: text[loc[0]:loc[1]], Position: loc[0]})
	}
	return out
}

// Summarizer builds extractive summaries scored against a shared corpus.
type Summarizer struct {
	tokenizer *Tokenizer
	corpus    DocumentFrequencies
}

func NewSummarizer(tokenizer *Tokenizer, corpus DocumentFrequencies) *Summarizer {
	return &Summarizer{tokenizer: tokenizer, corpus: corpus}
}

// Summarize picks up to maxSentences of the best scored sentences and returns
// them in reading order, separated by single spaces.
func (s *Summarizer) Summarize(text string, maxSentences int) (string, error) {
	const op = "nlp.summarize"

	tokens := s.tokenizer.Tokenize(text)
	ScoreTFIDF(tokens, s.corpus)

	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return "", fmt.Errorf("%s: %w", op, domain.ErrNoSentences)
	}

	for i := range sentences {
		sentences[i].Score = scoreSentence(sentences[i].Text, tokens)
		if i == 0 || i == len(sentences)-1 {
			sentences[i].Score *= boundaryBoost
		}
	}

	ranked := make([]Sentence, len(sentences))
	copy(ranked, sentences)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	n := maxSentences
	if n > len(ranked) {
		n = len(ranked)
	}
	if n <= 0 {
		n = 1
	}
	selected := ranked[:n]

	// Reading order follows the first occurrence of the sentence text, so a
	// repeated sentence sorts at its first copy.
	sort.SliceStable(selected, func(i, j int) bool {
		return strings.Index(text, selected[i].Text) < strings.Index(text, selected[j].Text)
	})

	parts := make([]string, 0, n)
	for _, sent := range selected {
		if trimmed := strings.TrimSpace(sent.Text); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " "), nil
}

func scoreSentence(sentence string, tokens *TokenSet) float64 {
	folded := asciiLower(sentence)
	score := 0.0
	for _, tok := range tokens.Tokens() {
		if strings.Contains(folded, tok.Text) {
			score += tok.TFIDF
		}
	}
	if words := CountWords(sentence); words > 0 {
		score /= float64(words)
	}
	return score
}
