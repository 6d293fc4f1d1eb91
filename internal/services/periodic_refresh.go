package services

import (
	"context"
	"log"
	"time"

	"github.com/dpup/linref.ersn.net/server/internal/config"
)

// PeriodicRefreshService keeps KML feed routes warm by re-running the paths
// service's feed refresh on the configured interval.
type PeriodicRefreshService struct {
	pathsService *PathsService
	config       *config.PathsConfig

	stopChan chan struct{}
	running  bool
}

// NewPeriodicRefreshService creates a new periodic refresh service
func NewPeriodicRefreshService(pathsService *PathsService, config *config.PathsConfig) *PeriodicRefreshService {
	return &PeriodicRefreshService{
		pathsService: pathsService,
		config:       config,
		stopChan:     make(chan struct{}),
	}
}

// StartPeriodicRefresh begins background feed refreshes. The first refresh
// runs immediately so the catalog is populated before traffic arrives.
func (p *PeriodicRefreshService) StartPeriodicRefresh(ctx context.Context) error {
	if p.running {
		return nil // Already running
	}

	if len(p.config.KMLFeeds) == 0 {
		log.Printf("No KML feeds configured, periodic refresh not started")
		return nil
	}

	p.running = true
	interval := p.config.RefreshInterval

	log.Printf("Starting periodic feed refresh every %v", interval)
	go p.refreshLoop(ctx, interval)

	return nil
}

// Stop gracefully stops the periodic refresh
func (p *PeriodicRefreshService) Stop() {
	if !p.running {
		return
	}

	p.running = false
	close(p.stopChan)
	log.Printf("Stopped periodic refresh service")
}

// refreshLoop runs the periodic refresh in background
func (p *PeriodicRefreshService) refreshLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.refreshOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Periodic refresh stopping due to context cancellation")
			return
		case <-p.stopChan:
			log.Printf("Periodic refresh stopping due to stop signal")
			return
		case <-ticker.C:
			p.refreshOnce(ctx)
		}
	}
}

func (p *PeriodicRefreshService) refreshOnce(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	if err := p.pathsService.RefreshFeeds(refreshCtx); err != nil {
		log.Printf("Periodic refresh failed: %v", err)
	}
}

// IsRunning returns whether periodic refresh is active
func (p *PeriodicRefreshService) IsRunning() bool {
	return p.running
}
