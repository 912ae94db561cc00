package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/nlp-text-server/internal/core/domain"
)

// Lexicon overrides the built-in stopwords and keyword lists. Keyword lists
// are keyed by topic wire name.
type Lexicon struct {
	Stopwords []string            `yaml:"stopwords"`
	Keywords  map[string][]string `yaml:"keywords"`
}

func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}

	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %w", path, err)
	}
	if _, err := lex.TopicKeywords(); err != nil {
		return nil, fmt.Errorf("lexicon %s: %w", path, err)
	}
	return &lex, nil
}

// TopicKeywords resolves the keyword keys. A name outside the fixed topic
// set is an error.
func (l *Lexicon) TopicKeywords() (map[domain.Topic][]string, error) {
	out := make(map[domain.Topic][]string, len(l.Keywords))
	for name, words := range l.Keywords {
		topic, ok := domain.ParseTopic(name)
		if !ok {
			return nil, domain.WrapError(domain.ErrInvalidInput, "lexicon keywords", fmt.Errorf("unknown topic %q", name))
		}
		out[topic] = words
	}
	return out, nil
}

// Merge returns stopwords and keywords with l applied over the defaults. A
// nil lexicon returns the defaults unchanged.
func (l *Lexicon) Merge(stopwords []string, keywords map[domain.Topic][]string) ([]string, map[domain.Topic][]string) {
	if l == nil {
		return stopwords, keywords
	}
	if len(l.Stopwords) > 0 {
		stopwords = l.Stopwords
	}
	overrides, err := l.TopicKeywords()
	if err != nil {
		return stopwords, keywords
	}
	merged := make(map[domain.Topic][]string, len(keywords))
	for topic, words := range keywords {
		merged[topic] = words
	}
	for topic, words := range overrides {
		merged[topic] = words
	}
	return stopwords, merged
}
