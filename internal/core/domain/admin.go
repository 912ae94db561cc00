package domain

import "time"

type AdminCommand int32

const (
	CommandGetClients     AdminCommand = 1
	CommandGetQueueStatus AdminCommand = 2
)

func (c AdminCommand) String() string {
	switch c {
	case CommandGetClients:
		return "get_clients"
	case CommandGetQueueStatus:
		return "get_queue_status"
	default:
		return "unknown"
	}
}

// ClientRecord is the registry entry for one text-processing connection.
type ClientRecord struct {
	ID           int32
	Address      string
	ConnectedAt  time.Time
	RequestCount int
}

type AdminResponse struct {
	Status        Status
	Clients       []ClientRecord
	QueueSize     int
	QueueCapacity int
	ErrorMessage  string
}
