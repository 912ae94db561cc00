package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	adminadapter "github.com/kirillkom/nlp-text-server/internal/adapters/admin"
	tcpadapter "github.com/kirillkom/nlp-text-server/internal/adapters/tcp"
	"github.com/kirillkom/nlp-text-server/internal/config"
	"github.com/kirillkom/nlp-text-server/internal/core/ports"
	"github.com/kirillkom/nlp-text-server/internal/core/usecase"
	"github.com/kirillkom/nlp-text-server/internal/infrastructure/nlp"
	"github.com/kirillkom/nlp-text-server/internal/infrastructure/queue/memory"
	"github.com/kirillkom/nlp-text-server/internal/infrastructure/queue/nats"
	"github.com/kirillkom/nlp-text-server/internal/infrastructure/registry"
	"github.com/kirillkom/nlp-text-server/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/nlp-text-server/internal/infrastructure/resilience"
	"github.com/kirillkom/nlp-text-server/internal/observability/metrics"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	Config config.Config

	Queue     *memory.Queue
	Registry  *registry.Registry
	Metrics   *metrics.ServerMetrics
	ProcessUC ports.RequestProcessor
	AdminUC   ports.AdminReporter

	tcpServer   *tcpadapter.Server
	adminServer *adminadapter.Server

	tcpListener     net.Listener
	adminListener   net.Listener
	metricsListener net.Listener

	closeFn func()
}

// Engine is the text-processing state owned by the worker.
type Engine struct {
	Tokenizer  *nlp.Tokenizer
	Classifier *nlp.BayesClassifier
	Matcher    *nlp.KeywordMatcher
	Corpus     *nlp.Corpus
	Summarizer *nlp.Summarizer
}

// NewEngine builds the engine from the built-in word lists, with the lexicon
// at lexiconPath applied over them when the path is set. The classifier is
// trained on the bootstrap corpus before it is returned.
func NewEngine(lexiconPath string) (*Engine, error) {
	var lexicon *config.Lexicon
	if lexiconPath != "" {
		lex, err := config.LoadLexicon(lexiconPath)
		if err != nil {
			return nil, err
		}
		lexicon = lex
	}
	stopwords, keywords := lexicon.Merge(nlp.DefaultStopwords(), nlp.DefaultKeywords())

	tokenizer := nlp.NewTokenizer(stopwords)
	classifier := nlp.NewBayesClassifier(tokenizer)
	nlp.Seed(classifier, nlp.BootstrapCorpus)
	corpus := nlp.NewCorpus()

	return &Engine{
		Tokenizer:  tokenizer,
		Classifier: classifier,
		Matcher:    nlp.NewKeywordMatcher(tokenizer, keywords),
		Corpus:     corpus,
		Summarizer: nlp.NewSummarizer(tokenizer, corpus),
	}, nil
}

// New wires every component and binds the listeners. A bind failure is
// returned as an error and nothing is left open.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	engine, err := NewEngine(cfg.LexiconPath)
	if err != nil {
		return nil, fmt.Errorf("init engine: %w", err)
	}

	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*App, error) {
		closeAll()
		return nil, err
	}

	serverMetrics := metrics.NewServerMetrics(cfg.ServiceName)
	queue := memory.New(cfg.QueueCapacity)
	clients := registry.New(cfg.MaxClients)
	serverMetrics.RegisterQueue(cfg.ServiceName, queue)
	serverMetrics.SetClassifierDocuments(engine.Classifier.DocumentCounts())

	sinks := usecase.Sinks{Observer: serverMetrics}
	executor := resilience.NewExecutor(resilience.DefaultPolicy())

	if cfg.PostgresDSN != "" {
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return fail(fmt.Errorf("open postgres: %w", err))
		}
		closers = append(closers, func() { _ = db.Close() })

		journal := postgres.NewRequestJournal(db, executor)
		if err := journal.EnsureSchema(ctx); err != nil {
			return fail(fmt.Errorf("ensure schema: %w", err))
		}
		sinks.Journal = journal
	}

	if cfg.NATSURL != "" {
		publisher, err := nats.NewPublisher(cfg.NATSURL, cfg.NATSSubject, nats.Options{
			Name:               cfg.ServiceName,
			ResilienceExecutor: executor,
		})
		if err != nil {
			return fail(fmt.Errorf("init event publisher: %w", err))
		}
		closers = append(closers, publisher.Close)
		sinks.Events = publisher
	}

	processUC := usecase.NewProcessRequestUseCase(
		engine.Tokenizer,
		engine.Classifier,
		engine.Matcher,
		engine.Summarizer,
		engine.Corpus,
		cfg.SummarySentences,
		sinks,
	)
	adminUC := usecase.NewAdminReportUseCase(clients, queue)

	tcpListener, err := net.Listen("tcp", cfg.TCPAddr)
	if err != nil {
		return fail(fmt.Errorf("listen %s: %w", cfg.TCPAddr, err))
	}
	closers = append(closers, func() { _ = tcpListener.Close() })

	adminListener, err := adminadapter.ListenUnix(cfg.AdminSocketPath)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, func() { _ = adminListener.Close() })

	var metricsListener net.Listener
	if cfg.MetricsAddr != "" {
		metricsListener, err = net.Listen("tcp", cfg.MetricsAddr)
		if err != nil {
			return fail(fmt.Errorf("listen metrics %s: %w", cfg.MetricsAddr, err))
		}
		closers = append(closers, func() { _ = metricsListener.Close() })
	}

	return &App{
		Config:    cfg,
		Queue:     queue,
		Registry:  clients,
		Metrics:   serverMetrics,
		ProcessUC: processUC,
		AdminUC:   adminUC,

		tcpServer: tcpadapter.NewServer(queue, clients, tcpadapter.Options{
			RateLimitRPS:   cfg.ConnRateLimitRPS,
			RateLimitBurst: cfg.ConnRateLimitBurst,
			Observer:       serverMetrics,
		}),
		adminServer: adminadapter.NewServer(adminUC, 0),

		tcpListener:     tcpListener,
		adminListener:   adminListener,
		metricsListener: metricsListener,

		closeFn: closeAll,
	}, nil
}

// TCPAddr is the bound address of the text-processing listener.
func (a *App) TCPAddr() net.Addr { return a.tcpListener.Addr() }

// Run serves until ctx is cancelled or one of the loops fails.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return a.tcpServer.Serve(ctx, a.tcpListener) })
	g.Go(func() error { return a.adminServer.Serve(ctx, a.adminListener) })
	g.Go(func() error {
		slog.Info("worker_started", "queue_capacity", a.Queue.Cap())
		return a.Queue.Consume(ctx, a.ProcessUC.Handle)
	})

	if a.metricsListener != nil {
		srv := &http.Server{
			Handler:           a.Metrics.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			slog.Info("metrics_listening", "addr", a.metricsListener.Addr().String())
			if err := srv.Serve(a.metricsListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
