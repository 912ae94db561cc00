package nlp

import (
	"math"

	"github.com/kirillkom/nlp-text-server/internal/core/domain"
)

// DomainModel is the per-domain state of the classifier.
type DomainModel struct {
	Topic           domain.Topic
	Prior           float64
	DocumentCount   int
	WordFrequencies map[string]int
	totalWords      int
}

// TotalWords is the sum of all word frequencies in the domain.
func (d *DomainModel) TotalWords() int { return d.totalWords }

// BayesClassifier is a multinomial Naive Bayes model over the fixed domain
// set, trained incrementally. It is not safe for concurrent use: the worker
// is its only caller.
type BayesClassifier struct {
	tokenizer      *Tokenizer
	domains        []DomainModel
	totalDocuments int
}

// NewBayesClassifier returns an untrained classifier. Every prior starts at
// zero, so nothing classifies until at least one document is trained.
func NewBayesClassifier(tokenizer *Tokenizer) *BayesClassifier {
	c := &BayesClassifier{
		tokenizer: tokenizer,
		domains:   make([]DomainModel, 0, len(domain.Topics)),
	}
	for _, topic := range domain.Topics {
		c.domains = append(c.domains, DomainModel{
			Topic:           topic,
			WordFrequencies: make(map[string]int),
		})
	}
	return c
}

// Train adds one labelled document. Topics outside the fixed set are ignored.
func (c *BayesClassifier) Train(text string, topic domain.Topic) {
	model := c.model(topic)
	if model == nil {
		return
	}

	model.DocumentCount++
	c.totalDocuments++
	for i := range c.domains {
		c.domains[i].Prior = float64(c.domains[i].DocumentCount) / float64(c.totalDocuments)
	}

	for _, tok := range c.tokenizer.Tokenize(text).Tokens() {
		model.WordFrequencies[tok.Text] += tok.RawCount
		model.totalWords += tok.RawCount
	}
}

// Classify returns the domain with the greatest log-posterior. Ties keep the
// earlier domain; TopicUnknown means no domain produced a finite score.
func (c *BayesClassifier) Classify(text string) domain.Topic {
	tokens := c.tokenizer.Tokenize(text)

	best := domain.TopicUnknown
	bestScore := math.Inf(-1)
	for i := range c.domains {
		score := c.logPosterior(&c.domains[i], tokens)
		if math.IsNaN(score) || math.IsInf(score, 0) {
			continue
		}
		if best == domain.TopicUnknown || score > bestScore {
			best, bestScore = c.domains[i].Topic, score
		}
	}
	return best
}

func (c *BayesClassifier) logPosterior(model *DomainModel, tokens *TokenSet) float64 {
	score := math.Log(model.Prior)
	for _, tok := range tokens.Tokens() {
		score += float64(tok.RawCount) * math.Log(conditional(model, tok.Text))
	}
	return score
}

// conditional is the add-one smoothed P(word|domain). The denominator uses the
// domain's own vocabulary size, not a global one.
func conditional(model *DomainModel, word string) float64 {
	freq := model.WordFrequencies[word]
	return (float64(freq) + 1.0) / (float64(model.totalWords) + float64(len(model.WordFrequencies)) + 1.0)
}

// ConditionalProbability exposes the smoothed estimate for one word.
func (c *BayesClassifier) ConditionalProbability(topic domain.Topic, word string) float64 {
	model := c.model(topic)
	if model == nil {
		return 0
	}
	return conditional(model, asciiLower(word))
}

// Domain returns a copy of the model for topic.
func (c *BayesClassifier) Domain(topic domain.Topic) (DomainModel, bool) {
	model := c.model(topic)
	if model == nil {
		return DomainModel{}, false
	}
	out := *model
	out.WordFrequencies = make(map[string]int, len(model.WordFrequencies))
	for w, n := range model.WordFrequencies {
		out.WordFrequencies[w] = n
	}
	return out, true
}

func (c *BayesClassifier) TotalDocuments() int { return c.totalDocuments }

// DocumentCounts reports trained documents per domain.
func (c *BayesClassifier) DocumentCounts() map[domain.Topic]int {
	out := make(map[domain.Topic]int, len(c.domains))
	for _, d := range c.domains {
		out[d.Topic] = d.DocumentCount
	}
	return out
}

func (c *BayesClassifier) model(topic domain.Topic) *DomainModel {
	if !topic.Valid() {
		return nil
	}
	for i := range c.domains {
		if c.domains[i].Topic == topic {
			return &c.domains[i]
		}
	}
	return nil
}
