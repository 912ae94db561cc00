package nlp

import "strings"

// Corpus is the append-only population of processed documents used for IDF.
// Only the worker touches it.
type Corpus struct {
	documents []string
	folded    []string
}

func NewCorpus() *Corpus {
	return &Corpus{}
}

func (c *Corpus) Append(text string) {
	c.documents = append(c.documents, text)
	c.folded = append(c.folded, asciiLower(text))
}

func (c *Corpus) Len() int { return len(c.documents) }

// ContainingCount is the number of documents in which token occurs as a
// case-insensitive substring. "cat" is found in "concatenate".
func (c *Corpus) ContainingCount(token string) int {
	needle := asciiLower(token)
	n := 0
	for _, doc := range c.folded {
		if strings.Contains(doc, needle) {
			n++
		}
	}
	return n
}
