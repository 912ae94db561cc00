package cli

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/kirillkom/nlp-text-server/internal/adapters/wire"
	"github.com/kirillkom/nlp-text-server/internal/core/domain"
)

// serveOnce answers a single text request with resp and reports what it read.
func serveOnce(t *testing.T, resp domain.Response) (string, <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	got := make(chan string, 1)
	go func() {
		defer ln.Close()
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		kind, text, err := wire.ReadRequest(conn)
		if err != nil {
			got <- "error: " + err.Error()
			return
		}
		got <- kind.String() + ":" + text
		_ = wire.WriteResponse(conn, resp)
	}()
	return ln.Addr().String(), got
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestCountWordsPrintsCount(t *testing.T) {
	addr, got := serveOnce(t, domain.Response{Status: domain.StatusOK, WordCount: 11, ProcessingSeconds: 0})
	path := writeFile(t, "The cat sat.")

	out, err := execute(t, NewClientCmd(), "count-words", path, "--addr", addr)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if req := <-got; req != "count_words:The cat sat." {
		t.Fatalf("unexpected request %q", req)
	}
	if !strings.Contains(out, "Numărul de cuvinte: 11") || !strings.Contains(out, "Timpul de procesare: 0.00 secunde") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestGenerateSummaryPrintsSummary(t *testing.T) {
	addr, _ := serveOnce(t, domain.Response{Status: domain.StatusOK, Summary: "First. Last.", ProcessingSeconds: 1})
	path := writeFile(t, "First. Middle. Last.")

	out, err := execute(t, NewClientCmd(), "generate-summary", path, "--addr", addr)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "Rezumat:\nFirst. Last.\n") || !strings.Contains(out, "1.00 secunde") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestClientPrintsServerError(t *testing.T) {
	addr, _ := serveOnce(t, domain.Response{Status: domain.StatusError, ErrorMessage: domain.MessageUnknownKind})
	path := writeFile(t, "text")

	out, err := execute(t, NewClientCmd(), "determine-topic", path, "--addr", addr)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "Eroare: "+domain.MessageUnknownKind) {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestClientRejectsOversizedFile(t *testing.T) {
	path := writeFile(t, strings.Repeat("a", wire.MaxTextSize))

	_, err := execute(t, NewClientCmd(), "count-words", path, "--addr", "127.0.0.1:1")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestClientRequiresFileArgument(t *testing.T) {
	if _, err := execute(t, NewClientCmd(), "count-words"); err == nil {
		t.Fatalf("expected argument error")
	}
}

func serveAdminOnce(t *testing.T, resp domain.AdminResponse) (string, <-chan domain.AdminCommand) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "admin.sock")
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	got := make(chan domain.AdminCommand, 1)
	go func() {
		defer ln.Close()
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		cmd, err := wire.ReadAdminRequest(conn)
		if err != nil {
			return
		}
		got <- cmd
		_ = wire.WriteAdminResponse(conn, resp)
	}()
	return path, got
}

func TestAdminClientsPrintsTable(t *testing.T) {
	socket, got := serveAdminOnce(t, domain.AdminResponse{
		Status: domain.StatusOK,
		Clients: []domain.ClientRecord{
			{ID: 7, Address: "127.0.0.1:5000", ConnectedAt: time.Unix(1_700_000_000, 0), RequestCount: 3},
		},
		QueueCapacity: 100,
	})

	out, err := execute(t, NewAdminCmd(), "clients", "--socket", socket)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if cmd := <-got; cmd != domain.CommandGetClients {
		t.Fatalf("unexpected command %v", cmd)
	}
	if !strings.Contains(out, "Număr total de clienți: 1") || !strings.Contains(out, "127.0.0.1:5000") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, time.Unix(1_700_000_000, 0).Local().Format(time.DateTime)) {
		t.Fatalf("expected local connect time in output:\n%s", out)
	}
}

func TestAdminQueueStatus(t *testing.T) {
	socket, got := serveAdminOnce(t, domain.AdminResponse{Status: domain.StatusOK, QueueSize: 3, QueueCapacity: 100})

	out, err := execute(t, NewAdminCmd(), "queue-status", "--socket", socket)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if cmd := <-got; cmd != domain.CommandGetQueueStatus {
		t.Fatalf("unexpected command %v", cmd)
	}
	if !strings.Contains(out, "Cereri în așteptare: 3 / 100") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
