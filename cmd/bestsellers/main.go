package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/bala-nullpointer/amznbsscraper/internal/api"
	"github.com/bala-nullpointer/amznbsscraper/internal/browser"
	"github.com/bala-nullpointer/amznbsscraper/internal/config"
	"github.com/bala-nullpointer/amznbsscraper/internal/database"
	"github.com/bala-nullpointer/amznbsscraper/internal/events"
	"github.com/bala-nullpointer/amznbsscraper/internal/logging"
	"github.com/bala-nullpointer/amznbsscraper/internal/models"
	"github.com/bala-nullpointer/amznbsscraper/internal/page"
	"github.com/bala-nullpointer/amznbsscraper/internal/progress"
	"github.com/bala-nullpointer/amznbsscraper/internal/queue"
	"github.com/bala-nullpointer/amznbsscraper/internal/ratelimit"
	"github.com/bala-nullpointer/amznbsscraper/internal/scraper"
	"github.com/bala-nullpointer/amznbsscraper/internal/storage"
)

func main() {
	var (
		headless      = flag.Bool("headless", true, "Run browser in headless mode")
		maxCategories = flag.Int("max-categories", 0, "Limit the number of categories scraped (0 = all)")
		outputDir     = flag.String("output", "", "Directory for report files (overrides OUTPUT_DIR)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *maxCategories > 0 {
		cfg.Scraper.MaxCategories = *maxCategories
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("starting bestsellers scraper", "base_url", cfg.Scraper.BaseURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutdown signal received")
		cancel()
	}()

	runID := uuid.New().String()
	startedAt := time.Now()

	browserOpts := browser.DefaultOptions()
	browserOpts.Headless = *headless && cfg.Browser.Headless
	browserOpts.Timeout = cfg.Browser.Timeout
	if cfg.Browser.UserAgent != "" {
		browserOpts.UserAgent = cfg.Browser.UserAgent
	}
	browserOpts.ProxyServer = cfg.Browser.ProxyServer

	b, err := browser.New(browserOpts)
	if err != nil {
		logger.Error("failed to initialize browser", "error", err)
		os.Exit(1)
	}
	defer b.Close()

	pwPage, err := b.NewPage()
	if err != nil {
		logger.Error("failed to open page", "error", err)
		os.Exit(1)
	}
	handle := page.NewPlaywrightHandle(pwPage)

	categories, err := scraper.DiscoverCategories(handle, cfg.Scraper.BaseURL, logger)
	if err != nil {
		logger.Error("category discovery failed", "error", err)
		os.Exit(1)
	}
	if cfg.Scraper.MaxCategories > 0 && len(categories) > cfg.Scraper.MaxCategories {
		categories = categories[:cfg.Scraper.MaxCategories]
	}

	taskQueue := queue.NewInMemoryQueue()
	defer taskQueue.Close()
	for _, category := range categories {
		taskQueue.Push(&queue.Task{
			ID:        uuid.New().String(),
			Category:  category,
			CreatedAt: time.Now(),
		})
	}

	tracker := progress.NewTracker(len(categories))

	var db *database.DB
	if cfg.Database.Enabled {
		db, err = database.New(ctx, database.Config{DSN: cfg.Database.DSN()})
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		if err := db.StartRun(ctx, models.RunSummary{RunID: runID, StartedAt: startedAt}); err != nil {
			logger.Error("failed to register run", "error", err)
			os.Exit(1)
		}
	}

	var publisher *events.Publisher
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer client.Close()
		publisher = events.NewPublisher(client, cfg.Redis.Stream, logger)
	}

	var apiServer *api.Server
	if cfg.API.Enabled {
		apiServer = api.NewServer(cfg.API.Port, tracker, logger)
		go func() {
			if err := apiServer.Start(); err != nil {
				logger.Error("api server failed", "error", err)
			}
		}()
	}

	rateLimiter := ratelimit.NewAdaptiveRateLimiter(
		cfg.Scraper.AdaptiveMinDelay,
		cfg.Scraper.AdaptiveMaxDelay,
	)

	categoryScraper := scraper.NewCategoryScraper(cfg.Scraper.BaseURL, logger)
	categoryScraper.MaxItems = cfg.Extraction.MaxItemsPerCategory
	detector := categoryScraper.Extractor().Detector()
	detector.MaxScrolls = cfg.Extraction.MaxScrolls
	detector.ScrollPause = cfg.Extraction.ScrollPause

	report := models.NewReport()

	logger.Info("scraping categories", "count", len(categories), "run_id", runID)

	// Every task is enqueued up front and retries are re-pushed before the
	// next pop, so the queue is never empty while work remains.
	for pending := taskQueue.Size(); pending > 0; pending-- {
		task, err := taskQueue.Pop(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				logger.Info("run cancelled")
				break
			}
			logger.Error("failed to pop task", "error", err)
			continue
		}

		if err := rateLimiter.Wait(ctx); err != nil {
			logger.Info("run cancelled during rate limit wait")
			break
		}

		logger.Info("processing category",
			"category", task.Category.Name,
			"url", task.Category.URL,
			"attempt", task.Retries+1)

		result := categoryScraper.Scrape(handle, task.Category)

		if result.Stats.Error != "" && len(result.CategoryItems) == 0 {
			rateLimiter.RecordError()
			if task.Retries < cfg.Scraper.MaxRetries {
				task.Retries++
				logger.Warn("category failed, retrying",
					"category", task.Category.Name,
					"error", result.Stats.Error,
					"retry", task.Retries)
				if err := taskQueue.Push(task); err == nil {
					pending++
				}
				continue
			}
		} else {
			rateLimiter.RecordSuccess()
		}

		report.Bestsellers[task.Category.Name] = result
		tracker.RecordCategory(result)

		if apiServer != nil {
			apiServer.Update(task.Category.Name, result)
		}
		if db != nil {
			if err := db.SaveCategoryResult(ctx, runID, task.Category.Name, result); err != nil {
				logger.Error("failed to persist category", "category", task.Category.Name, "error", err)
			}
		}
		if publisher != nil {
			if err := publisher.PublishCategoryScraped(ctx, runID, task.Category.Name, result); err != nil {
				logger.Error("failed to publish category event", "category", task.Category.Name, "error", err)
			}
		}

		snap := tracker.Snapshot()
		logger.Info("category done",
			"category", task.Category.Name,
			"items", len(result.CategoryItems),
			"progress", snap.Completed,
			"total", snap.TotalCategories,
			"eta", snap.ETA)
	}

	if cfg.Output.WriteJSON {
		path, err := storage.SaveReport(cfg.Output.Dir, report, startedAt)
		if err != nil {
			logger.Error("failed to save report", "error", err)
		} else {
			logger.Info("report saved", "path", path)
		}
	}
	if cfg.Output.WriteCSV {
		path, err := storage.SaveCSV(cfg.Output.Dir, report, startedAt)
		if err != nil {
			logger.Error("failed to save csv", "error", err)
		} else {
			logger.Info("csv saved", "path", path)
		}
	}

	summary := tracker.Summary(runID)
	if db != nil {
		if err := db.FinishRun(ctx, summary); err != nil {
			logger.Error("failed to finalize run", "error", err)
		}
	}

	if apiServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("api shutdown failed", "error", err)
		}
	}

	logger.Info("run complete",
		"run_id", summary.RunID,
		"categories", summary.Categories,
		"successful", summary.SuccessfulCategories,
		"failed", summary.FailedCategories,
		"items", summary.TotalItems,
		"duration", progress.FormatDuration(summary.Duration))
}
