package usecase

import (
	"testing"
	"time"

	"github.com/kirillkom/nlp-text-server/internal/core/domain"
)

type registryFake struct{ clients []domain.ClientRecord }

func (f *registryFake) Register(rec domain.ClientRecord) bool {
	f.clients = append(f.clients, rec)
	return true
}
func (f *registryFake) IncrementRequests(int32) {}
func (f *registryFake) Remove(int32)            {}
func (f *registryFake) Snapshot() []domain.ClientRecord {
	return append([]domain.ClientRecord(nil), f.clients...)
}
func (f *registryFake) Len() int { return len(f.clients) }

type queueStatsFake struct{ size, capacity int }

func (f queueStatsFake) Len() int { return f.size }
func (f queueStatsFake) Cap() int { return f.capacity }

func TestReportQueueStatus(t *testing.T) {
	reg := &registryFake{}
	reg.Register(domain.ClientRecord{ID: 1, Address: "127.0.0.1:5000", ConnectedAt: time.Now()})
	uc := NewAdminReportUseCase(reg, queueStatsFake{size: 3, capacity: 100})

	resp := uc.Report(domain.CommandGetQueueStatus)
	if resp.Status != domain.StatusOK || resp.QueueSize != 3 || resp.QueueCapacity != 100 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(resp.Clients) != 0 {
		t.Fatalf("queue status must not list clients, got %+v", resp.Clients)
	}
}

func TestReportClients(t *testing.T) {
	reg := &registryFake{}
	reg.Register(domain.ClientRecord{ID: 1, Address: "127.0.0.1:5000", RequestCount: 2})
	reg.Register(domain.ClientRecord{ID: 2, Address: "127.0.0.1:5001"})
	uc := NewAdminReportUseCase(reg, queueStatsFake{size: 0, capacity: 100})

	resp := uc.Report(domain.CommandGetClients)
	if resp.Status != domain.StatusOK || len(resp.Clients) != 2 || resp.QueueCapacity != 100 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Clients[0].RequestCount != 2 || resp.Clients[1].ID != 2 {
		t.Fatalf("unexpected clients: %+v", resp.Clients)
	}
}

func TestReportUnknownCommand(t *testing.T) {
	uc := NewAdminReportUseCase(&registryFake{}, queueStatsFake{capacity: 100})

	resp := uc.Report(domain.AdminCommand(7))
	if resp.Status != domain.StatusError || resp.ErrorMessage != domain.MessageUnknownCommand {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
