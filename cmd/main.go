package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"sentinel/internal/adapters/ai"
	"sentinel/internal/adapters/config"
	"sentinel/internal/adapters/errors/noop"
	"sentinel/internal/adapters/errors/sentry"
	"sentinel/internal/agents"
	"sentinel/internal/agents/crisis"
	"sentinel/internal/agents/launch"
	"sentinel/internal/agents/pricing"
	"sentinel/internal/agents/trends"
	"sentinel/internal/metrics"
	"sentinel/pkg/errors"
	"sentinel/pkg/logger"

	"github.com/shopspring/decimal"
)

func main() {
	pipeline := flag.String("pipeline", "trends", "pipeline to run: crisis, launch, trends, pricing")
	imagePath := flag.String("image", "", "optional image file (screenshot or chart)")
	metricsAddr := flag.String("metrics-addr", "", "expose Prometheus metrics on this address, e.g. :9090")
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := initLogger(cfg); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr, log)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	clients := ai.Build(ctx, ai.Settings{
		GeminiKey: cfg.AI.GeminiKey,
		OpenAIKey: cfg.AI.OpenAIKey,
		Model:     cfg.AI.Model,
		Thinking:  ai.ThinkingLevel(cfg.AI.ThinkingLevel),
	})

	image, err := loadImage(*imagePath)
	if err != nil {
		log.Fatalf("Failed to read image: %v", err)
	}

	stream, err := startPipeline(ctx, *pipeline, clients, image)
	if err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	defer stream.Close()

	printEvents(stream)

	if err := errorTracker.Flush(ctx); err != nil {
		log.Warnf("Failed to flush error tracker: %v", err)
	}
	log.Info("Done")
}

// loadConfig loads application configuration from environment
func loadConfig() (*config.Config, error) {
	return config.Load()
}

// initLogger initializes structured logging
func initLogger(cfg *config.Config) error {
	return logger.Init(cfg.App.LogLevel, cfg.App.Env)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

func serveMetrics(addr string, log *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	log.Infof("Metrics listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Errorf("Metrics server stopped: %v", err)
	}
}

// loadImage reads an optional image file, inferring the MIME subtype from
// the extension.
func loadImage(path string) (*ai.Image, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	subtype := strings.TrimPrefix(filepath.Ext(path), ".")
	if subtype == "jpg" {
		subtype = "jpeg"
	}
	return &ai.Image{Data: data, Subtype: subtype}, nil
}

func startPipeline(ctx context.Context, name string, clients *ai.Clients, image *ai.Image) (*agents.Stream, error) {
	switch name {
	case "crisis":
		detector := crisis.NewDetector(clients.Generator, crisis.Config{})
		return detector.Analyze(ctx, demoCrisisInput()), nil

	case "launch":
		detector := launch.NewDetector(clients.Generator, launch.Config{})
		in := demoLaunchInput()
		in.Image = image
		return detector.Analyze(ctx, in), nil

	case "trends":
		analyzer := trends.NewAnalyzer(clients.Generator, clients.Completer, trends.Config{})
		in := demoTrendsInput()
		in.Image = image
		return analyzer.Analyze(ctx, in), nil

	case "pricing":
		if image == nil {
			return nil, errors.New("pricing pipeline requires -image with a competitor screenshot")
		}
		analyzer := pricing.NewAnalyzer(clients.Generator, pricing.Config{})
		in := demoPricingInput()
		in.Image = *image
		return analyzer.Analyze(ctx, in), nil

	default:
		return nil, errors.Newf("unknown pipeline %q", name)
	}
}

// printEvents renders the stream to stdout, one line per thought and a
// pretty-printed metadata block for phase results.
func printEvents(stream *agents.Stream) {
	for {
		ev, ok := stream.Next()
		if !ok {
			return
		}

		tag := string(ev.Thought)
		if tag == "" {
			tag = "note"
		}
		fmt.Printf("[%s/%s] %s\n", ev.Agent, tag, strings.TrimSpace(ev.Content))

		if ev.Final && len(ev.Metadata) > 0 {
			pretty, err := json.MarshalIndent(ev.Metadata, "", "  ")
			if err == nil {
				fmt.Println(string(pretty))
			}
		}
	}
}

// demoCrisisInput synthesizes 48 hours of sentiment data with a crash and
// volume spike in the most recent day.
func demoCrisisInput() crisis.Input {
	rng := rand.New(rand.NewSource(42))
	now := time.Now()
	sources := []string{"twitter", "reddit", "news"}

	var points []crisis.Point
	for i := 0; i < 48; i++ {
		ts := now.Add(time.Duration(i-48) * time.Hour)
		score := 0.3 + rng.Float64()*0.2
		volume := 80 + rng.Intn(40)
		sample := "Loving the new firmware update on my tracker"
		if i >= 24 {
			score = -0.5 - rng.Float64()*0.3
			volume = 300 + rng.Intn(200)
			sample = "My FitTrack Pro battery died after the update, support is silent"
		}
		points = append(points, crisis.Point{
			Timestamp:  ts,
			Score:      score,
			Volume:     volume,
			Source:     sources[i%len(sources)],
			SampleText: sample,
		})
	}

	return crisis.Input{
		Product:  "FitTrack Pro",
		Baseline: 0.35,
		Points:   points,
	}
}

func demoLaunchInput() launch.Input {
	now := time.Now()
	return launch.Input{
		Competitor:  "PulseBand",
		YourProduct: "FitTrack Pro",
		Signals: []launch.Signal{
			{
				Source:     "press_release",
				Content:    "PulseBand announces the launch of its new generation tracker, available now with pre-order bonuses",
				URL:        "https://example.com/pulseband-launch",
				Timestamp:  now.Add(-6 * time.Hour),
				Engagement: 5400,
				Author:     "PulseBand PR",
			},
			{
				Source:     "twitter",
				Content:    "Just got early access to the unveiled PulseBand 3, the introducing video looks slick",
				Timestamp:  now.Add(-4 * time.Hour),
				Engagement: 1200,
				Author:     "@gadgetfan",
			},
			{
				Source:     "reddit",
				Content:    "PulseBand 3 release date confirmed for next week, pricing starts at $89",
				Timestamp:  now.Add(-2 * time.Hour),
				Engagement: 640,
				Author:     "u/wearables",
			},
		},
	}
}

func demoTrendsInput() trends.Input {
	return trends.Input{
		Product:  "FitTrack Pro",
		Category: "fitness wearables",
		Market:   demoMarket(),
	}
}

func demoMarket() trends.MarketData {
	return trends.MarketData{
		SentimentScore:     0.62,
		SentimentTrend:     "up",
		Volume24h:          184000,
		VolumeTrend:        "up",
		PriceChange7d:      12.4,
		PriceChange30d:     18.9,
		SocialMentions:     9400,
		SocialTrend:        "up",
		CompetitorActivity: "elevated",
		MarketPosition:     "mid",
		Seasonality:        "pre-holiday demand ramp",
	}
}

func demoPricingInput() pricing.Input {
	return pricing.Input{
		Product: pricing.Product{
			Name:     "FitTrack Pro",
			Price:    decimal.NewFromFloat(99.99),
			Currency: "USD",
			Features: []string{"GPS", "heart rate", "sleep tracking", "7-day battery"},
		},
	}
}
