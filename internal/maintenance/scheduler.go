package maintenance

import (
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Optimizer is the database operation run on schedule
type Optimizer interface {
	Optimize() error
}

// Scheduler runs database optimization on a cron schedule
type Scheduler struct {
	db       Optimizer
	schedule string
	cron     *cron.Cron
	entryID  cron.EntryID
	mu       sync.Mutex
	running  bool
}

// NewScheduler creates a scheduler; nothing runs until Start
func NewScheduler(db Optimizer, schedule string) *Scheduler {
	return &Scheduler{
		db:       db,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start validates the schedule and starts the cron runner
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	id, err := s.cron.AddFunc(s.schedule, s.RunOnce)
	if err != nil {
		return err
	}
	s.entryID = id

	s.cron.Start()
	s.running = true

	log.Info().Str("schedule", s.schedule).Msg("Maintenance scheduler started")
	return nil
}

// Stop stops the cron runner and waits for a running job to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	s.entryID = 0
	s.running = false
	log.Info().Msg("Maintenance scheduler stopped")
}

// IsRunning returns whether the scheduler is running
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// RunOnce optimizes the database immediately
func (s *Scheduler) RunOnce() {
	if err := s.db.Optimize(); err != nil {
		log.Error().Err(err).Msg("Scheduled database optimize failed")
		return
	}
	log.Info().Msg("Database optimized")
}
