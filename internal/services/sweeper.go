package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Sweeper runs the resolver on a fixed interval so picks settle without
// anyone hitting the manual resolve endpoint.
type Sweeper struct {
	resolver  *Resolver
	logger    *logrus.Logger
	cron      *cron.Cron
	interval  time.Duration
	mu        sync.Mutex
	isRunning bool
}

// NewSweeper creates a sweeper that resolves pending picks every interval.
func NewSweeper(resolver *Resolver, logger *logrus.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{
		resolver: resolver,
		logger:   logger,
		cron:     cron.New(),
		interval: interval,
	}
}

// Start begins the background sweep and runs one pass immediately.
func (s *Sweeper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("sweeper is already running")
	}

	schedule := fmt.Sprintf("@every %s", s.interval.String())
	if _, err := s.cron.AddFunc(schedule, s.sweep); err != nil {
		return fmt.Errorf("failed to schedule resolver sweep: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	go s.sweep()

	s.logger.Infof("Resolver sweeper started (every %s)", s.interval)
	return nil
}

// Stop halts the background sweep, waiting for an in-flight pass.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Resolver sweeper stopped")
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	resolved, err := s.resolver.ResolveAllPending(ctx)
	if err != nil {
		s.logger.Errorf("Sweeper: resolve pass failed: %v", err)
		return
	}
	if resolved > 0 {
		s.logger.Infof("Sweeper: settled %d picks", resolved)
	}
}
