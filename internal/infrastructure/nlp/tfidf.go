package nlp

import "math"

// DocumentFrequencies is what the scorer needs from a corpus.
type DocumentFrequencies interface {
	Len() int
	ContainingCount(token string) int
}

// ScoreTFIDF fills TF, IDF and TFIDF on every token of set in place.
//
//	tf  = count / total count of the document
//	idf = ln((|C| + 1) / (df + 1))
func ScoreTFIDF(set *TokenSet, corpus DocumentFrequencies) {
	total := set.TotalCount()
	if total == 0 {
		return
	}
	size := float64(corpus.Len())
	for i := range set.tokens {
		tok := &set.tokens[i]
		tok.TF = float64(tok.RawCount) / float64(total)
		df := corpus.ContainingCount(tok.Text)
		tok.IDF = math.Log((size + 1) / (float64(df) + 1))
		tok.TFIDF = tok.TF * tok.IDF
	}
}
