package settlement

import (
	"context"
	"log"
	"time"

	"vyuha/internal/models"

	"github.com/robfig/cron/v3"
)

// The sweep targets tournaments starting between these offsets from now, so a
// one-minute cadence sees each tournament's window exactly once.
const (
	recalcWindowStart = 2 * time.Minute
	recalcWindowEnd   = 3 * time.Minute
)

// dueLister is the slice of the repository the sweep needs.
type dueLister interface {
	DueForRecalculation(from, to time.Time) ([]models.Tournament, error)
}

// Recalculator runs the pre-start prize pool recomputation on a schedule.
type Recalculator struct {
	svc  Service
	repo dueLister
	cron *cron.Cron
}

func NewRecalculator(svc Service, repo dueLister) *Recalculator {
	return &Recalculator{
		svc:  svc,
		repo: repo,
		cron: cron.New(),
	}
}

// Start registers the every-minute sweep and starts the scheduler.
func (r *Recalculator) Start() error {
	if _, err := r.cron.AddFunc("* * * * *", r.Run); err != nil {
		return err
	}
	r.cron.Start()
	log.Println("prize pool recalculation sweep started")
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (r *Recalculator) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

// Run executes one sweep over tournaments whose start falls inside the
// recalculation window and which have not been recalculated yet.
func (r *Recalculator) Run() {
	now := time.Now()
	due, err := r.repo.DueForRecalculation(now.Add(recalcWindowStart), now.Add(recalcWindowEnd))
	if err != nil {
		log.Printf("recalculation sweep query failed: %v", err)
		return
	}

	for _, t := range due {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := r.svc.Recalculate(ctx, t.ID)
		cancel()
		if err != nil {
			log.Printf("recalculation failed for tournament %d (%s): %v", t.ID, t.Title, err)
			continue
		}
		log.Printf("recalculated prize pool for tournament %d (%s)", t.ID, t.Title)
	}
}
