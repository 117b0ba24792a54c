package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"dmitri/internal/config"
	"dmitri/internal/discovery"
	"dmitri/internal/domain"
	"dmitri/internal/eventbus"
	"dmitri/internal/history"
	"dmitri/internal/launch"
	"dmitri/internal/selection"
	"dmitri/internal/store"
	"dmitri/internal/ui"
)

const recentLimit = 100

func main() {
	var fontName string
	var configPath string
	flag.StringVar(&fontName, "f", "", "Font name override")
	flag.StringVar(&configPath, "config", "", "Config file path override")
	flag.Parse()

	// Set up logging. The launcher can run from anywhere, so the log
	// goes to the cache dir rather than the working directory.
	if cacheDir, err := os.UserCacheDir(); err == nil {
		logPath := filepath.Join(cacheDir, "dmitri", "dmitri.log")
		os.MkdirAll(filepath.Dir(logPath), 0755)
		if logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666); err == nil {
			defer logFile.Close()
			log.SetOutput(logFile)
		}
	}

	// Create event bus
	bus := eventbus.New()

	// Load configuration
	configSvc := config.NewConfigServiceWithBus(bus)
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = configSvc.LoadFromPath(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg, err = configSvc.Load()
		if err != nil {
			log.Printf("Failed to load config, using defaults: %v", err)
			cfg = config.DefaultConfig()
		}
	}
	if fontName != "" {
		cfg.FontName = fontName
	}

	// Open launch history; the launcher works without it.
	var historyDB *sql.DB
	if dbPath, err := history.DefaultPath(); err == nil {
		if historyDB, err = history.Open(dbPath); err != nil {
			log.Printf("Launch history unavailable: %v", err)
			historyDB = nil
		} else {
			defer historyDB.Close()
		}
	}

	// Scan the search path and collect the candidates. The core state
	// machine assumes a fully populated store before the first
	// keystroke, so the scan completes before the UI starts.
	candidates, err := collectCandidates(bus)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to scan search path: %v\n", err)
		os.Exit(1)
	}
	log.Printf("Found %d candidates on the search path", len(candidates))

	// Build the store, habitual programs first.
	var recent []string
	if historyDB != nil {
		if recent, err = history.Recent(historyDB, recentLimit); err != nil {
			log.Printf("Failed to read launch history: %v", err)
		}
	}
	candidateStore := store.NewRecentFirst(candidates, recent)

	// Run the UI.
	machine := selection.NewMachine(candidateStore, cfg.SubtextWeight)
	model := ui.NewModel(machine, ui.NewStyles(cfg.Color, cfg.Margin))

	p := tea.NewProgram(model)
	finalModel, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running launcher: %v\n", err)
		os.Exit(1)
	}

	m, ok := finalModel.(ui.Model)
	if !ok || m.Outcome() != ui.OutcomeCommitted {
		return // aborted, nothing to do
	}

	invocation := m.Invocation()
	if invocation == "" {
		return
	}

	if historyDB != nil {
		if err := history.Record(historyDB, invocation); err != nil {
			log.Printf("Failed to record launch: %v", err)
		}
	}

	bus.Publish(eventbus.LaunchedEvent{Invocation: invocation})

	// Fire-and-forget: a spawn failure surfaces through the shell and
	// the launcher exits either way, without re-entering the UI.
	if err := launch.Spawn(invocation); err != nil {
		log.Printf("Spawn failed: %v", err)
		fmt.Fprintf(os.Stderr, "dmitri: %v\n", err)
	}
}

// collectCandidates runs a search-path scan and gathers the published
// candidates until the scan completes. The bus dispatches handlers
// concurrently, so collection order is not arrival order; the result is
// re-sorted into shell resolution order (directory rank, then name)
// before it becomes the store order.
func collectCandidates(bus eventbus.EventBus) ([]domain.Candidate, error) {
	var mu sync.Mutex
	var candidates []domain.Candidate
	done := make(chan int, 1)

	unsubDiscovered := bus.Subscribe(eventbus.EventCandidateDiscovered, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.CandidateDiscoveredEvent); ok {
			mu.Lock()
			candidates = append(candidates, ev.Candidate)
			mu.Unlock()
		}
	})
	defer unsubDiscovered()
	unsubCompleted := bus.Subscribe(eventbus.EventScanCompleted, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.ScanCompletedEvent); ok {
			done <- ev.Found
		}
	})
	defer unsubCompleted()

	dirs := discovery.SearchPathDirs()
	discoverySvc := discovery.NewDiscoveryService(bus)
	if err := discoverySvc.StartScan(context.Background(), dirs); err != nil {
		return nil, err
	}

	var total int
	select {
	case total = <-done:
	case <-time.After(30 * time.Second):
		return nil, fmt.Errorf("search-path scan timed out")
	}

	// Discovery events are dispatched asynchronously; wait briefly for
	// the stragglers the completion event may have overtaken.
	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(candidates)
		mu.Unlock()
		if n >= total || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	mu.Lock()
	collected := append([]domain.Candidate(nil), candidates...)
	mu.Unlock()

	dirRank := make(map[string]int, len(dirs))
	for i, d := range dirs {
		if _, ok := dirRank[d]; !ok {
			dirRank[d] = i
		}
	}
	sort.SliceStable(collected, func(i, j int) bool {
		ri := dirRank[filepath.Dir(collected[i].Invocation)]
		rj := dirRank[filepath.Dir(collected[j].Invocation)]
		if ri != rj {
			return ri < rj
		}
		return collected[i].Name < collected[j].Name
	})

	return collected, nil
}
