package ports

import (
	"context"

	"github.com/kirillkom/nlp-text-server/internal/core/domain"
)

// RequestProcessor is the inbound contract of the worker.
type RequestProcessor interface {
	Process(req domain.ProcessingRequest) domain.Response
	Handle(ctx context.Context, req domain.ProcessingRequest) error
}

// AdminReporter answers administrative status queries.
type AdminReporter interface {
	Report(cmd domain.AdminCommand) domain.AdminResponse
}
