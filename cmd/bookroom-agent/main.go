package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sndraw/bookroom-sub000/internal/agent"
	"github.com/sndraw/bookroom-sub000/internal/config"
	"github.com/sndraw/bookroom-sub000/internal/llm"
	"github.com/sndraw/bookroom-sub000/internal/logging"
	"github.com/sndraw/bookroom-sub000/internal/message"
	"github.com/sndraw/bookroom-sub000/internal/metrics"
	"github.com/sndraw/bookroom-sub000/internal/tool"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "config/agent.yaml", "path to the agent config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if err := logging.Setup(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintln(os.Stderr, "logging:", err)
		os.Exit(1)
	}
	if cfg.Metrics.Addr != "" {
		metrics.StartServer(cfg.Metrics.Addr)
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		logging.Logger.Error().Err(err).Str("module", "main").Msg("tool setup failed")
		os.Exit(1)
	}

	question := strings.Join(flag.Args(), " ")
	if question == "" {
		fmt.Print("> ")
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			question = strings.TrimSpace(scanner.Text())
		}
	}
	if question == "" {
		fmt.Fprintln(os.Stderr, "usage: bookroom-agent [-config path] <question>")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := llm.NewClient(llm.Config{
		BaseURL: cfg.Model.BaseURL,
		APIKey:  cfg.Model.APIKey,
		Model:   cfg.Model.Name,
		Timeout: cfg.Model.Timeout(),
	})

	reply, _ := agent.New(client).QuestionChat(ctx,
		agent.Params{
			Prompt: cfg.Agent.Prompt,
			Query:  message.NewUser(message.Params{Content: message.Text(question)}),
		},
		agent.Options{
			Registry: registry,
			Sink:     agent.WriterSink{W: os.Stdout},
			Stream:   cfg.Agent.Stream,
			MaxSteps: cfg.Agent.MaxSteps,
			Generation: llm.GenerationParams{
				Temperature:      cfg.Model.Temperature,
				TopP:             cfg.Model.TopP,
				MaxTokens:        cfg.Model.MaxTokens,
				PresencePenalty:  cfg.Model.PresencePenalty,
				FrequencyPenalty: cfg.Model.FrequencyPenalty,
			},
		})
	fmt.Println()
	if reply.IsError {
		os.Exit(1)
	}
}

func buildRegistry(cfg *config.Config) (*tool.Registry, error) {
	var toolFile *config.ToolFile
	if cfg.ToolsFile != "" {
		tf, err := config.LoadToolFile(cfg.ToolsFile)
		if err != nil {
			return nil, err
		}
		toolFile = tf
	}

	registry := tool.NewRegistry()
	if cfg.Search.Endpoint != "" && toolFile.Enabled("web_search") {
		registry.Register(tool.NewSearchTool(cfg.Search.Endpoint))
	}
	if toolFile.Enabled("get_weather") {
		registry.Register(tool.NewWeatherTool())
	}
	if toolFile.Enabled("fetch_arxiv") {
		registry.Register(tool.NewArxivTool())
	}
	if err := registry.Validate(); err != nil {
		return nil, err
	}
	return registry, nil
}
