package cli

import (
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kirillkom/nlp-text-server/internal/adapters/wire"
	"github.com/kirillkom/nlp-text-server/internal/core/domain"
)

const (
	DefaultServerAddr = "127.0.0.1:12345"
	defaultTimeout    = 30 * time.Second
)

type clientOptions struct {
	addr    string
	timeout time.Duration
}

// NewClientCmd is the root of the text-processing client. Each subcommand
// sends one file to the server and prints the result.
func NewClientCmd() *cobra.Command {
	opts := &clientOptions{}

	cmd := &cobra.Command{
		Use:     "nlp-client",
		Short:   "Send a text file to the NLP server",
		Example: `  nlp-client count-words article.txt
  nlp-client determine-topic article.txt --addr 10.0.0.5:12345
  nlp-client generate-summary article.txt`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.addr, "addr", DefaultServerAddr, "Server TCP address")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", defaultTimeout, "Connection and reply timeout")

	cmd.AddCommand(
		newRequestCmd(opts, "count-words", "Count the words in FILE", domain.KindCountWords),
		newRequestCmd(opts, "determine-topic", "Determine the topic of FILE", domain.KindDetermineTopic),
		newRequestCmd(opts, "generate-summary", "Summarize FILE", domain.KindGenerateSummary),
	)
	return cmd
}

func newRequestCmd(opts *clientOptions, use, short string, kind domain.RequestKind) *cobra.Command {
	return &cobra.Command{
		Use:   use + " FILE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readTextFile(args[0])
			if err != nil {
				return err
			}
			resp, err := sendRequest(opts, kind, text)
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), kind, resp)
		},
	}
}

// readTextFile rejects files that do not fit one request frame.
func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if limit := wire.MaxTextSize - 1; len(data) > limit {
		return "", domain.WrapError(domain.ErrInvalidInput, "cli.read_file",
			fmt.Errorf("%s is %d bytes, at most %d allowed", path, len(data), limit))
	}
	return string(data), nil
}

func sendRequest(opts *clientOptions, kind domain.RequestKind, text string) (domain.Response, error) {
	conn, err := net.DialTimeout("tcp", opts.addr, opts.timeout)
	if err != nil {
		return domain.Response{}, fmt.Errorf("connect %s: %w", opts.addr, err)
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(opts.timeout)); err != nil {
		return domain.Response{}, fmt.Errorf("set deadline: %w", err)
	}

	if err := wire.WriteRequest(conn, kind, text); err != nil {
		return domain.Response{}, fmt.Errorf("send request: %w", err)
	}
	resp, err := wire.ReadResponse(conn)
	if err != nil {
		return domain.Response{}, fmt.Errorf("read response: %w", err)
	}
	return resp, nil
}

func printResponse(w io.Writer, kind domain.RequestKind, resp domain.Response) error {
	if resp.Status != domain.StatusOK {
		_, err := fmt.Fprintf(w, "Eroare: %s\n", resp.ErrorMessage)
		return err
	}

	var err error
	switch kind {
	case domain.KindCountWords:
		_, err = fmt.Fprintf(w, "Numărul de cuvinte: %d\n", resp.WordCount)
	case domain.KindDetermineTopic:
		_, err = fmt.Fprintf(w, "Domeniul tematic: %s\n", resp.Topic)
	case domain.KindGenerateSummary:
		_, err = fmt.Fprintf(w, "Rezumat:\n%s\n", resp.Summary)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Timpul de procesare: %.2f secunde\n", resp.ProcessingSeconds)
	return err
}
