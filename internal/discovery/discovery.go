// Package discovery scans the executable search path and publishes one
// event per launchable program found. The scan is one-shot per process:
// the candidate store is built from its results before the first
// keystroke is handled.
package discovery

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"dmitri/internal/domain"
	"dmitri/internal/eventbus"
)

// DiscoveryService finds executables on the search path
type DiscoveryService interface {
	StartScan(ctx context.Context, dirs []string) error
	StopScan()
}

// discoveryService is the concrete implementation
type discoveryService struct {
	bus        eventbus.EventBus
	mu         sync.Mutex
	isScanning bool
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewDiscoveryService creates a new discovery service
func NewDiscoveryService(bus eventbus.EventBus) DiscoveryService {
	ds := &discoveryService{bus: bus}

	bus.Subscribe(eventbus.EventScanRequested, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ScanRequestedEvent); ok {
			go ds.StartScan(context.Background(), event.Dirs)
		}
	})

	return ds
}

// SearchPathDirs returns the directories of the PATH environment
// variable, in order. Duplicate directories are kept: the candidate
// store dedupes by invocation path, first-seen wins, which matches the
// shell's own resolution order.
func SearchPathDirs() []string {
	return filepath.SplitList(os.Getenv("PATH"))
}

// StartScan scans the given directories in the background, publishing a
// CandidateDiscoveredEvent per executable and a ScanCompletedEvent at
// the end.
func (ds *discoveryService) StartScan(ctx context.Context, dirs []string) error {
	ds.mu.Lock()
	if ds.isScanning {
		ds.mu.Unlock()
		return fmt.Errorf("scan already in progress")
	}
	ds.isScanning = true

	scanCtx, cancel := context.WithCancel(ctx)
	ds.cancelFunc = cancel
	ds.mu.Unlock()

	ds.bus.Publish(eventbus.ScanStartedEvent{Dirs: dirs})

	found := 0

	ds.wg.Add(1)
	go func() {
		defer ds.wg.Done()
		defer func() {
			ds.mu.Lock()
			ds.isScanning = false
			ds.cancelFunc = nil
			ds.mu.Unlock()

			ds.bus.Publish(eventbus.ScanCompletedEvent{Found: found})
		}()

		for _, dir := range dirs {
			select {
			case <-scanCtx.Done():
				return
			default:
				found += ds.scanDirectory(scanCtx, dir)
			}
		}
	}()

	return nil
}

// StopScan stops any ongoing scan
func (ds *discoveryService) StopScan() {
	ds.mu.Lock()
	if ds.cancelFunc != nil {
		ds.cancelFunc()
	}
	ds.mu.Unlock()

	ds.wg.Wait()
}

// scanDirectory lists one search-path directory and publishes every
// executable regular file in it. Directories are not descended into:
// PATH lookup is flat.
func (ds *discoveryService) scanDirectory(ctx context.Context, dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		// Missing or unreadable PATH entries are routine; skip quietly.
		log.Printf("Skipping search-path dir %s: %v", dir, err)
		return 0
	}

	found := 0
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return found
		default:
		}

		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path) // follows symlinks, unlike entry.Info
		if err != nil {
			continue
		}
		if !info.Mode().IsRegular() || info.Mode().Perm()&0111 == 0 {
			continue
		}

		ds.bus.Publish(eventbus.CandidateDiscoveredEvent{
			Candidate: domain.Candidate{
				Name:       entry.Name(),
				Invocation: path,
			},
		})
		found++
	}

	return found
}
