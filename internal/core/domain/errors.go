package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrProtocol       = errors.New("protocol violation")
	ErrNoSentences    = errors.New("no sentence boundary found")
	ErrUnknownKind    = errors.New("unknown request kind")
	ErrUnknownCommand = errors.New("unknown admin command")
	ErrTemporary      = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// Messages carried verbatim on the wire. Existing clients match on them.
const (
	MessageUnknownKind    = "Tip de cerere necunoscut"
	MessageUnknownCommand = "Comandă de administrare necunoscută"

	SummaryTokenizeFailed   = "Eroare la procesare text."
	SummarySplitFailed      = "Eroare la împărțirea textului în propoziții."
	SummaryAllocationFailed = "Eroare la alocarea memoriei pentru rezumat."
)

// SummaryPlaceholder maps a summarizer failure to the text returned in place
// of a summary. The response status stays OK.
func SummaryPlaceholder(err error) string {
	switch {
	case IsKind(err, ErrNoSentences):
		return SummarySplitFailed
	case IsKind(err, ErrInvalidInput):
		return SummaryTokenizeFailed
	default:
		return SummaryAllocationFailed
	}
}
