package cli

import (
	"fmt"
	"io"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/kirillkom/nlp-text-server/internal/adapters/wire"
	"github.com/kirillkom/nlp-text-server/internal/core/domain"
)

const DefaultAdminSocket = "/tmp/nlp_admin_socket"

type adminOptions struct {
	socket  string
	timeout time.Duration
}

// NewAdminCmd is the root of the admin client.
func NewAdminCmd() *cobra.Command {
	opts := &adminOptions{}

	cmd := &cobra.Command{
		Use:     "nlp-admin",
		Short:   "Inspect a running NLP server",
		Example: `  nlp-admin clients
  nlp-admin queue-status --socket /run/nlp/admin.sock`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.socket, "socket", DefaultAdminSocket, "Admin unix socket path")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 5*time.Second, "Connection and reply timeout")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "clients",
			Short: "List connected clients",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				resp, err := sendAdminCommand(opts, domain.CommandGetClients)
				if err != nil {
					return err
				}
				return printClients(cmd.OutOrStdout(), resp)
			},
		},
		&cobra.Command{
			Use:   "queue-status",
			Short: "Show processing queue occupancy",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				resp, err := sendAdminCommand(opts, domain.CommandGetQueueStatus)
				if err != nil {
					return err
				}
				return printQueueStatus(cmd.OutOrStdout(), resp)
			},
		},
	)
	return cmd
}

func sendAdminCommand(opts *adminOptions, command domain.AdminCommand) (domain.AdminResponse, error) {
	conn, err := net.DialTimeout("unix", opts.socket, opts.timeout)
	if err != nil {
		return domain.AdminResponse{}, fmt.Errorf("connect %s: %w", opts.socket, err)
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(opts.timeout)); err != nil {
		return domain.AdminResponse{}, fmt.Errorf("set deadline: %w", err)
	}

	if err := wire.WriteAdminRequest(conn, command); err != nil {
		return domain.AdminResponse{}, fmt.Errorf("send command: %w", err)
	}
	resp, err := wire.ReadAdminResponse(conn)
	if err != nil {
		return domain.AdminResponse{}, fmt.Errorf("read response: %w", err)
	}
	return resp, nil
}

// printClients numbers rows from 1 in snapshot order.
func printClients(w io.Writer, resp domain.AdminResponse) error {
	if resp.Status != domain.StatusOK {
		_, err := fmt.Fprintf(w, "Eroare: %s\n", resp.ErrorMessage)
		return err
	}

	fmt.Fprintf(w, "Număr total de clienți: %d\n", len(resp.Clients))
	fmt.Fprintf(w, "%-5s %-20s %-25s %-15s\n", "ID", "Adresă", "Conectat la", "Cereri")
	fmt.Fprintln(w, "-------------------------------------------------------------")
	for i, c := range resp.Clients {
		connected := ""
		if !c.ConnectedAt.IsZero() {
			connected = c.ConnectedAt.Local().Format(time.DateTime)
		}
		if _, err := fmt.Fprintf(w, "%-5d %-20s %-25s %-15d\n", i+1, c.Address, connected, c.RequestCount); err != nil {
			return err
		}
	}
	return nil
}

func printQueueStatus(w io.Writer, resp domain.AdminResponse) error {
	if resp.Status != domain.StatusOK {
		_, err := fmt.Fprintf(w, "Eroare: %s\n", resp.ErrorMessage)
		return err
	}
	_, err := fmt.Fprintf(w, "Starea cozii de procesare:\nCereri în așteptare: %d / %d\n", resp.QueueSize, resp.QueueCapacity)
	return err
}
