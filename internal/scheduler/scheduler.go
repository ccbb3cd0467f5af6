package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler re-runs the relay on a cron spec. Jobs are skipped, not
// queued, while a previous run is still in flight.
type Scheduler struct {
	engine *cron.Cron
	log    *logrus.Logger
}

func New(spec string, job func(), log *logrus.Logger) (*Scheduler, error) {
	engine := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := engine.AddFunc(spec, job); err != nil {
		return nil, err
	}
	return &Scheduler{engine: engine, log: log}, nil
}

func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.engine.Start()
}

// Stop waits for a running job to finish before returning.
func (s *Scheduler) Stop() {
	ctx := s.engine.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}
