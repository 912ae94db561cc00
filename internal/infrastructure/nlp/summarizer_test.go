package nlp

import (
	"errors"
	"strings"
	"testing"

	"github.com/kirillkom/nlp-text-server/internal/core/domain"
)

const goText = "Go is a compiled language. The weather was nice today. Goroutines make concurrent servers simple. " +
	"Channels connect goroutines safely. Many teams deploy servers written in Go."

func newTestSummarizer(docs ...string) *Summarizer {
	corpus := NewCorpus()
	for _, d := range docs {
		corpus.Append(d)
	}
	return NewSummarizer(newTestTokenizer(), corpus)
}

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("One. Two! Three? tail")
	want := []string{"One.", " Two!", " Three?"}
	if len(got) != len(want) {
		t.Fatalf("expected %d sentences, got %+v", len(want), got)
	}
	for i := range want {
		if got[i].Text != want[i] {
			t.Fatalf("sentence %d: expected %q, got %q", i, want[i], got[i].Text)
		}
	}
	if got[1].Position != 4 {
		t.Fatalf("expected position 4, got %d", got[1].Position)
	}
}

func TestSummarizeSelectsTopSentencesInReadingOrder(t *testing.T) {
	s := newTestSummarizer("The weather was cold yesterday.", "Nice weather for a walk today.", goText)

	got, err := s.Summarize(goText, 3)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	want := "Goroutines make concurrent servers simple. Channels connect goroutines safely. Many teams deploy servers written in Go."
	if got != want {
		t.Fatalf("unexpected summary:\n got: %q\nwant: %q", got, want)
	}
}

func TestSummarizeNonPositiveLimitReturnsOneSentence(t *testing.T) {
	s := newTestSummarizer("The weather was cold yesterday.", "Nice weather for a walk today.", goText)

	got, err := s.Summarize(goText, 0)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got != "Goroutines make concurrent servers simple." {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestSummarizeEqualScoresKeepScanOrder(t *testing.T) {
	// A corpus holding only the text itself makes every idf zero.
	s := newTestSummarizer(goText)

	got, err := s.Summarize(goText, 2)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got != "Go is a compiled language. The weather was nice today." {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestSummarizePreservesSourceOrder(t *testing.T) {
	text := "Zebras run. Apples fall from trees in autumn. Quantum physics puzzles many students. Dogs bark loudly at night. Rain."
	s := newTestSummarizer("apples and trees", "dogs at night", text)

	for limit := 2; limit <= 5; limit++ {
		got, err := s.Summarize(text, limit)
		if err != nil {
			t.Fatalf("limit %d: %v", limit, err)
		}
		last := -1
		for _, sent := range strings.SplitAfter(got, ".") {
			sent = strings.TrimSpace(sent)
			if sent == "" {
				continue
			}
			pos := strings.Index(text, sent)
			if pos < 0 {
				t.Fatalf("limit %d: sentence %q not in source", limit, sent)
			}
			if pos <= last {
				t.Fatalf("limit %d: summary out of order: %q", limit, got)
			}
			last = pos
		}
	}
}

func TestSummarizeWithoutTerminatorFails(t *testing.T) {
	s := newTestSummarizer()
	_, err := s.Summarize("no terminator here", 3)
	if !errors.Is(err, domain.ErrNoSentences) {
		t.Fatalf("expected ErrNoSentences, got %v", err)
	}
	if domain.SummaryPlaceholder(err) != domain.SummarySplitFailed {
		t.Fatalf("unexpected placeholder %q", domain.SummaryPlaceholder(err))
	}
}
