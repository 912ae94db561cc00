package nlp

import (
	"strings"

	"github.com/kirillkom/nlp-text-server/internal/core/domain"
)

// DefaultKeywords returns the fixed keyword lists per domain. Multi-word and
// diacritic entries cannot match a single ASCII token and are inert.
func DefaultKeywords() map[domain.Topic][]string {
	return map[domain.Topic][]string{
		domain.TopicSport: {
			"fotbal", "meci", "jucător", "echipă", "campionat", "sportiv",
			"baschet", "tenis", "competiție", "olimpic", "scor", "turneu", "victorie", "înfrângere", "gol",
		},
		domain.TopicPolitics: {
			"președinte", "guvern", "parlament", "lege", "politică",
			"alegeri", "ministru", "democrat", "partid", "vot", "stat", "constituție", "referendum", "senat",
		},
		domain.TopicTechnology: {
			"tehnologie", "computer", "software", "internet", "aplicație",
			"digital", "rețea", "programare", "inovație", "device", "sistem",
			"algoritm", "inteligență", "date", "inteligență artificială", "IA",
			"AI", "învățare automată", "rețele neurale", "machine learning",
			"deep learning", "automatizare", "roboți", "neural", "procesare",
		},
	}
}

// KeywordMatcher scores texts against per-domain keyword lists. It is the
// fallback used when the Bayes classifier cannot decide.
type KeywordMatcher struct {
	tokenizer *Tokenizer
	keywords  [len(domain.Topics)]map[string]struct{}
}

func NewKeywordMatcher(tokenizer *Tokenizer, keywords map[domain.Topic][]string) *KeywordMatcher {
	m := &KeywordMatcher{tokenizer: tokenizer}
	for i, topic := range domain.Topics {
		set := make(map[string]struct{}, len(keywords[topic]))
		for _, kw := range keywords[topic] {
			set[strings.ToLower(kw)] = struct{}{}
		}
		m.keywords[i] = set
	}
	return m
}

// Match returns the domain with the strictly greatest positive score, where
// a score is the summed frequency of matching tokens.
func (m *KeywordMatcher) Match(text string) domain.Topic {
	tokens := m.tokenizer.Tokenize(text)

	var scores [len(domain.Topics)]int
	for _, tok := range tokens.Tokens() {
		for i := range m.keywords {
			if _, ok := m.keywords[i][tok.Text]; ok {
				scores[i] += tok.RawCount
			}
		}
	}

	best, bestScore := domain.TopicUnknown, 0
	for i, topic := range domain.Topics {
		if scores[i] > bestScore {
			best, bestScore = topic, scores[i]
		}
	}
	return best
}
