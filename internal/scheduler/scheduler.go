package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/powerranking-app/powerranking/db"
	"github.com/powerranking-app/powerranking/internal/models"
)

const (
	// SweepInterval is how often the sweeper looks for stale invites.
	SweepInterval = time.Hour

	// InviteTTL is how long an invite stays pending before it expires.
	InviteTTL = 14 * 24 * time.Hour
)

// Sweeper periodically expires pending group invites that were never acted on.
type Sweeper struct {
	interval time.Duration
	ttl      time.Duration
	ticker   *time.Ticker
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewSweeper initializes a new Sweeper instance
func NewSweeper(interval, ttl time.Duration) *Sweeper {
	ctx, cancel := context.WithCancel(context.Background())
	return &Sweeper{
		interval: interval,
		ttl:      ttl,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start runs an immediate sweep and then sweeps on the interval
func (s *Sweeper) Start() {
	log.Println("Starting invite sweeper...")

	s.ticker = time.NewTicker(s.interval)

	go func() {
		s.Sweep()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-s.ticker.C:
				s.Sweep()
			}
		}
	}()
}

// Stop gracefully shuts down the sweeper
func (s *Sweeper) Stop() {
	log.Println("Stopping invite sweeper...")
	s.cancel()

	if s.ticker != nil {
		s.ticker.Stop()
	}

	log.Println("Invite sweeper stopped")
}

// Sweep marks pending invites older than the TTL as expired.
func (s *Sweeper) Sweep() {
	cutoff := time.Now().Add(-s.ttl)

	result := db.DB.Model(&models.GroupInvite{}).
		Where("status = ? AND created_at < ?", models.InviteStatusPending, cutoff).
		Update("status", models.InviteStatusExpired)

	if result.Error != nil {
		log.Printf("Failed to expire stale invites: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Expired %d stale invites", result.RowsAffected)
	}
}

// Global sweeper instance
var globalSweeper *Sweeper

// Initialize creates and starts the global sweeper
func Initialize() {
	globalSweeper = NewSweeper(SweepInterval, InviteTTL)
	globalSweeper.Start()
}

// Shutdown stops the global sweeper
func Shutdown() {
	if globalSweeper != nil {
		globalSweeper.Stop()
	}
}
