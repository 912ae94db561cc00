package usecase

import (
	"fmt"
	"log/slog"

	"github.com/kirillkom/nlp-text-server/internal/core/domain"
	"github.com/kirillkom/nlp-text-server/internal/core/ports"
)

type AdminReportUseCase struct {
	registry ports.ClientRegistry
	queue    ports.QueueStats
}

func NewAdminReportUseCase(registry ports.ClientRegistry, queue ports.QueueStats) *AdminReportUseCase {
	return &AdminReportUseCase{registry: registry, queue: queue}
}

// Report reads registry and queue state. Queue status carries no client list.
func (uc *AdminReportUseCase) Report(cmd domain.AdminCommand) domain.AdminResponse {
	switch cmd {
	case domain.CommandGetClients:
		return domain.AdminResponse{
			Status:        domain.StatusOK,
			Clients:       uc.registry.Snapshot(),
			QueueSize:     uc.queue.Len(),
			QueueCapacity: uc.queue.Cap(),
		}
	case domain.CommandGetQueueStatus:
		return domain.AdminResponse{
			Status:        domain.StatusOK,
			QueueSize:     uc.queue.Len(),
			QueueCapacity: uc.queue.Cap(),
		}
	default:
		err := domain.WrapError(domain.ErrUnknownCommand, "usecase.report", fmt.Errorf("command %d", int32(cmd)))
		slog.Warn("admin_command_rejected", "error", err.Error())
		return domain.AdminResponse{Status: domain.StatusError, ErrorMessage: domain.MessageUnknownCommand}
	}
}
