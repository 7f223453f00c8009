package settlement

import (
	"context"
	"testing"
	"time"

	"vyuha/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLister struct {
	from, to time.Time
	due      []models.Tournament
}

func (r *recordingLister) DueForRecalculation(from, to time.Time) ([]models.Tournament, error) {
	r.from, r.to = from, to
	return r.due, nil
}

type recordingService struct {
	Service
	recalculated []uint
}

func (r *recordingService) Recalculate(_ context.Context, id uint) error {
	r.recalculated = append(r.recalculated, id)
	return nil
}

func TestRecalculatorRun(t *testing.T) {
	due := models.Tournament{Title: "Summer Clash"}
	due.ID = 42
	lister := &recordingLister{due: []models.Tournament{due}}
	svc := &recordingService{}
	r := NewRecalculator(svc, lister)

	before := time.Now()
	r.Run()

	// The sweep looks two to three minutes ahead.
	assert.WithinDuration(t, before.Add(2*time.Minute), lister.from, time.Second)
	assert.Equal(t, time.Minute, lister.to.Sub(lister.from))

	require.Len(t, svc.recalculated, 1)
	assert.Equal(t, uint(42), svc.recalculated[0])
}

func TestRecalculatorRun_NothingDue(t *testing.T) {
	lister := &recordingLister{}
	svc := &recordingService{}
	NewRecalculator(svc, lister).Run()
	assert.Empty(t, svc.recalculated)
}

func TestDueSelection(t *testing.T) {
	repo := newFakeSettlementRepo()
	now := time.Now()

	inWindow := upcomingTournament(9, 50, 10)
	inWindow.StartDate = now.Add(150 * time.Second)
	repo.addTournament(inWindow)

	tooSoon := upcomingTournament(9, 50, 10)
	tooSoon.StartDate = now.Add(30 * time.Second)
	repo.addTournament(tooSoon)

	already := upcomingTournament(9, 50, 10)
	already.StartDate = now.Add(150 * time.Second)
	stamp := now
	already.PoolRecalculatedAt = &stamp
	repo.addTournament(already)

	due, err := repo.DueForRecalculation(now.Add(2*time.Minute), now.Add(3*time.Minute))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, inWindow.ID, due[0].ID)
}
