package nlp

import "github.com/kirillkom/nlp-text-server/internal/core/domain"

type LabeledDocument struct {
	Text  string
	Topic domain.Topic
}

// BootstrapCorpus seeds a fresh classifier: 2 Sport, 2 Politics and 4
// Technology documents.
var BootstrapCorpus = []LabeledDocument{
	{Topic: domain.TopicSport, Text: "Meciul de fotbal s-a terminat cu scorul de 2-1. Jucătorii au fost foarte buni."},
	{Topic: domain.TopicSport, Text: "Echipa națională a câștigat campionatul. Fotbaliștii au jucat excelent în finală."},
	{Topic: domain.TopicPolitics, Text: "Președintele a anunțat noi măsuri economice. Parlamentul va dezbate legea mâine."},
	{Topic: domain.TopicPolitics, Text: "Guvernul a aprobat noul buget. Opoziția critică deciziile luate de partidul de guvernare."},
	{Topic: domain.TopicTechnology, Text: "Noul smartphone are funcții avansate de inteligență artificială și baterie performantă."},
	{Topic: domain.TopicTechnology, Text: "Inteligența artificială revoluționează industria. Sistemele de învățare automată procesează date masive."},
	{Topic: domain.TopicTechnology, Text: "Algoritmii de machine learning și rețelele neurale sunt la baza multor aplicații moderne."},
	{Topic: domain.TopicTechnology, Text: "Companiile tech investesc în dezvoltarea de soluții bazate pe AI și automatizare."},
}

// Seed trains c on docs in order.
func Seed(c *BayesClassifier, docs []LabeledDocument) {
	for _, d := range docs {
		c.Train(d.Text, d.Topic)
	}
}
