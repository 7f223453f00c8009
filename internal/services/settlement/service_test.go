package settlement

import (
	"context"
	"testing"
	"time"

	domainerrors "vyuha/internal/errors"
	"vyuha/internal/models"
	"vyuha/internal/repositories"
	"vyuha/internal/services/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSettlementRepo holds all settlement state in memory. ExecuteInTransaction
// snapshots the state and restores it when the callback fails, mirroring a
// database rollback so the no-partial-writes assertions are meaningful.
type fakeSettlementRepo struct {
	users         map[uint]*models.User
	tournaments   map[uint]*models.Tournament
	registrations []models.TournamentRegistration
	txns          []models.WalletTransaction
	nextID        uint

	// staleRegisteredRead makes IsRegistered miss existing rows, so the
	// unique-index path in CreateRegistration is the only duplicate guard.
	staleRegisteredRead bool
}

func newFakeSettlementRepo() *fakeSettlementRepo {
	return &fakeSettlementRepo{
		users:       make(map[uint]*models.User),
		tournaments: make(map[uint]*models.Tournament),
		nextID:      1,
	}
}

func (f *fakeSettlementRepo) addUser(id uint, balance float64) *models.User {
	u := &models.User{WalletBalance: balance, Status: models.UserStatusActive}
	u.ID = id
	f.users[id] = u
	return u
}

func (f *fakeSettlementRepo) addTournament(t *models.Tournament) *models.Tournament {
	t.ID = f.nextID
	f.nextID++
	f.tournaments[t.ID] = t
	return t
}

func (f *fakeSettlementRepo) Create(t *models.Tournament) error {
	f.addTournament(t)
	return nil
}

func (f *fakeSettlementRepo) GetByID(id uint) (*models.Tournament, error) {
	t, ok := f.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeSettlementRepo) GetByIDForUpdate(id uint) (*models.Tournament, error) {
	return f.GetByID(id)
}

func (f *fakeSettlementRepo) Update(t *models.Tournament) error {
	if _, ok := f.tournaments[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	copied := *t
	f.tournaments[t.ID] = &copied
	return nil
}

func (f *fakeSettlementRepo) List(status string, limit, offset int) ([]models.Tournament, int64, error) {
	var out []models.Tournament
	for _, t := range f.tournaments {
		if status == "" || t.Status == status {
			out = append(out, *t)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeSettlementRepo) GetByOrganizer(organizerID uint) ([]models.Tournament, error) {
	var out []models.Tournament
	for _, t := range f.tournaments {
		if t.OrganizerID == organizerID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeSettlementRepo) AddAggregates(id uint, pool, organizer, platform, fees float64) error {
	t, ok := f.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.CurrentPrizePool += pool
	t.OrganizerEarnings += organizer
	t.PlatformEarnings += platform
	t.TotalFeesCollected += fees
	return nil
}

func (f *fakeSettlementRepo) SetAggregates(id uint, pool, organizer, platform, fees float64, at time.Time) error {
	t, ok := f.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.CurrentPrizePool = pool
	t.OrganizerEarnings = organizer
	t.PlatformEarnings = platform
	t.TotalFeesCollected = fees
	t.PoolRecalculatedAt = &at
	return nil
}

func (f *fakeSettlementRepo) CountRegistrations(tournamentID uint) (int64, error) {
	var count int64
	for _, reg := range f.registrations {
		if reg.TournamentID == tournamentID {
			count++
		}
	}
	return count, nil
}

func (f *fakeSettlementRepo) IsRegistered(tournamentID, userID uint) (bool, error) {
	if f.staleRegisteredRead {
		return false, nil
	}
	for _, reg := range f.registrations {
		if reg.TournamentID == tournamentID && reg.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSettlementRepo) CreateRegistration(reg *models.TournamentRegistration) error {
	// Enforces the unique index regardless of what IsRegistered reported.
	for _, existing := range f.registrations {
		if existing.TournamentID == reg.TournamentID && existing.UserID == reg.UserID {
			return repositories.ErrAlreadyRegistered
		}
	}
	f.registrations = append(f.registrations, *reg)
	return nil
}

func (f *fakeSettlementRepo) ListRegistrations(tournamentID uint) ([]models.TournamentRegistration, error) {
	var out []models.TournamentRegistration
	for _, reg := range f.registrations {
		if reg.TournamentID == tournamentID {
			out = append(out, reg)
		}
	}
	return out, nil
}

func (f *fakeSettlementRepo) DueForRecalculation(from, to time.Time) ([]models.Tournament, error) {
	var out []models.Tournament
	for _, t := range f.tournaments {
		if t.Status == models.TournamentStatusUpcoming && t.PoolRecalculatedAt == nil &&
			!t.StartDate.Before(from) && t.StartDate.Before(to) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeSettlementRepo) AggregateTotals() (*models.TournamentTotals, error) {
	var totals models.TournamentTotals
	for _, t := range f.tournaments {
		totals.TotalFeesCollected += t.TotalFeesCollected
		totals.PlatformEarnings += t.PlatformEarnings
		totals.OrganizerEarnings += t.OrganizerEarnings
		totals.CurrentPrizePool += t.CurrentPrizePool
	}
	return &totals, nil
}

func (f *fakeSettlementRepo) GetUserByID(id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeSettlementRepo) CreditBalance(userID uint, amount float64) error {
	u, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.WalletBalance += amount
	return nil
}

func (f *fakeSettlementRepo) DebitBalance(userID uint, amount float64) error {
	u, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	if u.WalletBalance < amount {
		return repositories.ErrInsufficientBalance
	}
	u.WalletBalance -= amount
	return nil
}

func (f *fakeSettlementRepo) CreateTransaction(txn *models.WalletTransaction) error {
	txn.ID = f.nextID
	f.nextID++
	f.txns = append(f.txns, *txn)
	return nil
}

func (f *fakeSettlementRepo) ExecuteInTransaction(fc func(tx repositories.SettlementRepository) error) error {
	snapshot := f.clone()
	if err := fc(f); err != nil {
		*f = *snapshot
		return err
	}
	return nil
}

func (f *fakeSettlementRepo) clone() *fakeSettlementRepo {
	c := newFakeSettlementRepo()
	c.nextID = f.nextID
	for id, u := range f.users {
		copied := *u
		c.users[id] = &copied
	}
	for id, t := range f.tournaments {
		copied := *t
		c.tournaments[id] = &copied
	}
	c.registrations = append([]models.TournamentRegistration(nil), f.registrations...)
	c.txns = append([]models.WalletTransaction(nil), f.txns...)
	c.staleRegisteredRead = f.staleRegisteredRead
	return c
}

// stubSettings returns a fixed commission snapshot.
type stubSettings struct {
	snapshot settings.CommissionSettings
}

func (s *stubSettings) Get(context.Context) (settings.CommissionSettings, error) {
	return s.snapshot, nil
}
func (s *stubSettings) Save(context.Context, settings.CommissionSettings) error { return nil }
func (s *stubSettings) GetPaymentDetails(context.Context) (settings.PaymentDetails, error) {
	return settings.PaymentDetails{}, nil
}
func (s *stubSettings) SetPaymentDetails(context.Context, settings.PaymentDetails) error { return nil }

func defaultSplit() *stubSettings {
	return &stubSettings{snapshot: settings.CommissionSettings{
		OrganizerPercent: 10,
		PlatformPercent:  10,
		PrizePoolPercent: 80,
	}}
}

func upcomingTournament(organizerID uint, fee float64, maxParticipants int) *models.Tournament {
	return &models.Tournament{
		Title:           "Summer Clash",
		Game:            "BGMI",
		OrganizerID:     organizerID,
		EntryFee:        fee,
		MaxParticipants: maxParticipants,
		StartDate:       time.Now().Add(24 * time.Hour),
		Status:          models.TournamentStatusUpcoming,
	}
}

func TestJoinTournament(t *testing.T) {
	t.Run("insufficient balance leaves no writes", func(t *testing.T) {
		repo := newFakeSettlementRepo()
		repo.addUser(1, 100)
		tour := repo.addTournament(upcomingTournament(9, 150, 10))
		svc := NewService(repo, defaultSplit(), nil)

		err := svc.JoinTournament(context.Background(), 1, tour.ID)
		assert.ErrorIs(t, err, repositories.ErrInsufficientBalance)
		assert.Equal(t, 100.0, repo.users[1].WalletBalance)
		assert.Empty(t, repo.registrations)
		assert.Empty(t, repo.txns)
		assert.Zero(t, repo.tournaments[tour.ID].CurrentPrizePool)
	})

	t.Run("successful join settles the full split", func(t *testing.T) {
		repo := newFakeSettlementRepo()
		repo.addUser(1, 200)
		tour := repo.addTournament(upcomingTournament(9, 100, 10))
		svc := NewService(repo, defaultSplit(), nil)

		require.NoError(t, svc.JoinTournament(context.Background(), 1, tour.ID))

		assert.Equal(t, 100.0, repo.users[1].WalletBalance)
		got := repo.tournaments[tour.ID]
		assert.Equal(t, 80.0, got.CurrentPrizePool)
		assert.Equal(t, 10.0, got.OrganizerEarnings)
		assert.Equal(t, 10.0, got.PlatformEarnings)
		assert.Equal(t, 100.0, got.TotalFeesCollected)

		require.Len(t, repo.txns, 1)
		txn := repo.txns[0]
		assert.Equal(t, models.TransactionTypeEntryFee, txn.Type)
		assert.Equal(t, -100.0, txn.Amount)
		assert.Equal(t, models.TransactionStatusCompleted, txn.Status)
		require.NotNil(t, txn.TournamentID)
		assert.Equal(t, tour.ID, *txn.TournamentID)

		require.Len(t, repo.registrations, 1)
		assert.Equal(t, uint(1), repo.registrations[0].UserID)
	})

	t.Run("double join rejected", func(t *testing.T) {
		repo := newFakeSettlementRepo()
		repo.addUser(1, 500)
		tour := repo.addTournament(upcomingTournament(9, 100, 10))
		svc := NewService(repo, defaultSplit(), nil)

		require.NoError(t, svc.JoinTournament(context.Background(), 1, tour.ID))
		err := svc.JoinTournament(context.Background(), 1, tour.ID)
		assert.ErrorIs(t, err, domainerrors.ErrAlreadyRegistered)
		assert.Equal(t, 400.0, repo.users[1].WalletBalance, "second join must not debit")
	})

	t.Run("duplicate join caught by the unique index rolls back", func(t *testing.T) {
		repo := newFakeSettlementRepo()
		repo.addUser(1, 500)
		tour := repo.addTournament(upcomingTournament(9, 100, 10))
		svc := NewService(repo, defaultSplit(), nil)

		require.NoError(t, svc.JoinTournament(context.Background(), 1, tour.ID))

		repo.staleRegisteredRead = true
		err := svc.JoinTournament(context.Background(), 1, tour.ID)
		assert.ErrorIs(t, err, domainerrors.ErrAlreadyRegistered)
		assert.Equal(t, 400.0, repo.users[1].WalletBalance, "debit must roll back")
		assert.Len(t, repo.registrations, 1)
	})

	t.Run("full tournament rejected", func(t *testing.T) {
		repo := newFakeSettlementRepo()
		repo.addUser(1, 500)
		repo.addUser(2, 500)
		tour := repo.addTournament(upcomingTournament(9, 100, 1))
		svc := NewService(repo, defaultSplit(), nil)

		require.NoError(t, svc.JoinTournament(context.Background(), 1, tour.ID))
		err := svc.JoinTournament(context.Background(), 2, tour.ID)
		assert.ErrorIs(t, err, domainerrors.ErrTournamentFull)
	})

	t.Run("banned user rejected", func(t *testing.T) {
		repo := newFakeSettlementRepo()
		banned := repo.addUser(1, 500)
		banned.Status = models.UserStatusBanned
		tour := repo.addTournament(upcomingTournament(9, 100, 10))
		svc := NewService(repo, defaultSplit(), nil)

		err := svc.JoinTournament(context.Background(), 1, tour.ID)
		assert.ErrorIs(t, err, domainerrors.ErrAccountBanned)
	})

	t.Run("non-upcoming tournament rejected", func(t *testing.T) {
		repo := newFakeSettlementRepo()
		repo.addUser(1, 500)
		tour := upcomingTournament(9, 100, 10)
		tour.Status = models.TournamentStatusOngoing
		repo.addTournament(tour)
		svc := NewService(repo, defaultSplit(), nil)

		err := svc.JoinTournament(context.Background(), 1, tour.ID)
		assert.ErrorIs(t, err, domainerrors.ErrTournamentNotJoinable)
	})

	t.Run("free tournament registers without ledger row", func(t *testing.T) {
		repo := newFakeSettlementRepo()
		repo.addUser(1, 0)
		tour := repo.addTournament(upcomingTournament(9, 0, 10))
		svc := NewService(repo, defaultSplit(), nil)

		require.NoError(t, svc.JoinTournament(context.Background(), 1, tour.ID))
		assert.Empty(t, repo.txns)
		assert.Len(t, repo.registrations, 1)
		assert.Zero(t, repo.tournaments[tour.ID].TotalFeesCollected)
	})
}

func TestStartTournament(t *testing.T) {
	repo := newFakeSettlementRepo()
	tour := repo.addTournament(upcomingTournament(9, 100, 10))
	svc := NewService(repo, defaultSplit(), nil)

	t.Run("wrong organizer", func(t *testing.T) {
		err := svc.StartTournament(context.Background(), 8, tour.ID)
		assert.ErrorIs(t, err, domainerrors.ErrNotTournamentOrganizer)
	})

	t.Run("upcoming to ongoing", func(t *testing.T) {
		require.NoError(t, svc.StartTournament(context.Background(), 9, tour.ID))
		assert.Equal(t, models.TournamentStatusOngoing, repo.tournaments[tour.ID].Status)
	})

	t.Run("one-way", func(t *testing.T) {
		err := svc.StartTournament(context.Background(), 9, tour.ID)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
	})
}

func TestDeclareWinner(t *testing.T) {
	setup := func(t *testing.T) (*fakeSettlementRepo, Service, *models.Tournament) {
		t.Helper()
		repo := newFakeSettlementRepo()
		repo.addUser(1, 200)
		repo.addUser(2, 200)
		tour := repo.addTournament(upcomingTournament(9, 100, 10))
		svc := NewService(repo, defaultSplit(), nil)
		require.NoError(t, svc.JoinTournament(context.Background(), 1, tour.ID))
		require.NoError(t, svc.JoinTournament(context.Background(), 2, tour.ID))
		return repo, svc, tour
	}

	t.Run("prize credited exactly once on the ongoing edge", func(t *testing.T) {
		repo, svc, tour := setup(t)
		require.NoError(t, svc.StartTournament(context.Background(), 9, tour.ID))

		require.NoError(t, svc.DeclareWinner(context.Background(), 9, tour.ID, 1))

		// 2 joins x 100 fee x 80% pool = 160, on top of 100 remaining balance.
		assert.Equal(t, 260.0, repo.users[1].WalletBalance)
		got := repo.tournaments[tour.ID]
		assert.Equal(t, models.TournamentStatusCompleted, got.Status)
		require.NotNil(t, got.WinnerUserID)
		assert.Equal(t, uint(1), *got.WinnerUserID)
		assert.NotNil(t, got.WinnerDeclaredAt)

		prizeRows := 0
		for _, txn := range repo.txns {
			if txn.Type == models.TransactionTypePrize {
				prizeRows++
				assert.Equal(t, 160.0, txn.Amount)
				assert.Equal(t, 1, txn.Rank)
				assert.Equal(t, "Prize for winning Summer Clash", txn.Description)
			}
		}
		assert.Equal(t, 1, prizeRows)

		// Double declare is rejected and does not pay again.
		err := svc.DeclareWinner(context.Background(), 9, tour.ID, 2)
		assert.ErrorIs(t, err, domainerrors.ErrWinnerAlreadyDeclared)
		assert.Equal(t, 260.0, repo.users[1].WalletBalance)
		assert.Equal(t, 100.0, repo.users[2].WalletBalance)
	})

	t.Run("rejected while upcoming", func(t *testing.T) {
		_, svc, tour := setup(t)
		err := svc.DeclareWinner(context.Background(), 9, tour.ID, 1)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
	})

	t.Run("winner must be registered", func(t *testing.T) {
		repo, svc, tour := setup(t)
		repo.addUser(3, 0)
		require.NoError(t, svc.StartTournament(context.Background(), 9, tour.ID))
		err := svc.DeclareWinner(context.Background(), 9, tour.ID, 3)
		assert.ErrorIs(t, err, domainerrors.ErrWinnerNotRegistered)
	})

	t.Run("only the organizer may declare", func(t *testing.T) {
		_, svc, tour := setup(t)
		require.NoError(t, svc.StartTournament(context.Background(), 9, tour.ID))
		err := svc.DeclareWinner(context.Background(), 8, tour.ID, 1)
		assert.ErrorIs(t, err, domainerrors.ErrNotTournamentOrganizer)
	})
}

func TestCancelTournament(t *testing.T) {
	repo := newFakeSettlementRepo()
	repo.addUser(1, 200)
	repo.addUser(2, 150)
	tour := repo.addTournament(upcomingTournament(9, 100, 10))
	svc := NewService(repo, defaultSplit(), nil)

	require.NoError(t, svc.JoinTournament(context.Background(), 1, tour.ID))
	require.NoError(t, svc.JoinTournament(context.Background(), 2, tour.ID))

	require.NoError(t, svc.CancelTournament(context.Background(), 9, tour.ID))

	assert.Equal(t, 200.0, repo.users[1].WalletBalance)
	assert.Equal(t, 150.0, repo.users[2].WalletBalance)
	got := repo.tournaments[tour.ID]
	assert.Equal(t, models.TournamentStatusCancelled, got.Status)
	assert.Zero(t, got.CurrentPrizePool)
	assert.Zero(t, got.TotalFeesCollected)

	refunds := 0
	for _, txn := range repo.txns {
		if txn.Type == models.TransactionTypeEntryFee && txn.Amount > 0 {
			refunds++
		}
	}
	assert.Equal(t, 2, refunds)

	// Cancelled tournaments cannot be joined or re-cancelled.
	err := svc.CancelTournament(context.Background(), 9, tour.ID)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
}

func TestRecalculate(t *testing.T) {
	repo := newFakeSettlementRepo()
	tour := repo.addTournament(upcomingTournament(9, 50, 100))
	svc := NewService(repo, defaultSplit(), nil)

	for i := uint(1); i <= 10; i++ {
		repo.addUser(i, 100)
		require.NoError(t, svc.JoinTournament(context.Background(), i, tour.ID))
	}

	// Inject drift; recalculation must overwrite it.
	repo.tournaments[tour.ID].CurrentPrizePool = 999

	require.NoError(t, svc.Recalculate(context.Background(), tour.ID))

	got := repo.tournaments[tour.ID]
	assert.Equal(t, 400.0, got.CurrentPrizePool) // 50 x 10 x 80%
	assert.Equal(t, 50.0, got.OrganizerEarnings)
	assert.Equal(t, 50.0, got.PlatformEarnings)
	assert.Equal(t, 500.0, got.TotalFeesCollected)
	assert.NotNil(t, got.PoolRecalculatedAt)

	t.Run("non-upcoming rejected", func(t *testing.T) {
		require.NoError(t, svc.StartTournament(context.Background(), 9, tour.ID))
		err := svc.Recalculate(context.Background(), tour.ID)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
	})
}
