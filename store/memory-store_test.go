package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/youngamerican68/Property-Perfect/models"
	"github.com/youngamerican68/Property-Perfect/store"
)

func seedStoreUser(t *testing.T, s *store.MemoryStore, id uint, balance int) *models.User {
	t.Helper()
	u := &models.User{Email: "agent@example.com", CreditBalance: balance}
	u.ID = id
	require.NoError(t, s.CreateUser(u))
	return u
}

func newJob(userID uint, createdAt time.Time) *models.EnhancementJob {
	job := &models.EnhancementJob{
		UserID:           userID,
		Status:           models.JobProcessing,
		OriginalImageURL: "https://example.com/room.jpg",
		CreditsUsed:      1,
	}
	job.CreatedAt = createdAt
	return job
}

func TestDebitFloorsAtZero(t *testing.T) {
	s := store.NewMemoryStore()
	seedStoreUser(t, s, 1, 1)

	require.NoError(t, s.Debit(1, 1))

	err := s.Debit(1, 1)
	assert.ErrorIs(t, err, store.ErrInsufficientCredit)

	balance, err := s.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, 0, balance, "a failed debit must not change the balance")
}

func TestDebitUnknownUser(t *testing.T) {
	s := store.NewMemoryStore()
	assert.ErrorIs(t, s.Debit(99, 1), store.ErrInsufficientCredit)
}

func TestCreateJobAndDebitAtomicity(t *testing.T) {
	s := store.NewMemoryStore()
	seedStoreUser(t, s, 1, 1)

	job := newJob(1, time.Time{})
	require.NoError(t, s.CreateJobAndDebit(job))
	assert.NotZero(t, job.ID)

	// second attempt has no credit left: no job row, no balance change
	err := s.CreateJobAndDebit(newJob(1, time.Time{}))
	assert.ErrorIs(t, err, store.ErrInsufficientCredit)

	count, err := s.CountJobsByUser(1, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	balance, err := s.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestJobStatesAreTerminal(t *testing.T) {
	s := store.NewMemoryStore()
	seedStoreUser(t, s, 1, 2)

	job := newJob(1, time.Time{})
	require.NoError(t, s.CreateJobAndDebit(job))
	require.NoError(t, s.CompleteJob(job.ID, "data:image/png;base64,AA=="))

	// completed jobs cannot be failed or re-completed
	assert.Error(t, s.FailJob(job.ID, "late failure"))
	assert.Error(t, s.CompleteJob(job.ID, "other"))

	jobs, err := s.ListJobsByUser(1, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, models.JobCompleted, jobs[0].Status)
	assert.Equal(t, "data:image/png;base64,AA==", jobs[0].EnhancedImageURL)
	assert.NotNil(t, jobs[0].CompletedAt)
}

func TestFailJobRecordsMessage(t *testing.T) {
	s := store.NewMemoryStore()
	seedStoreUser(t, s, 1, 1)

	job := newJob(1, time.Time{})
	require.NoError(t, s.CreateJobAndDebit(job))
	require.NoError(t, s.FailJob(job.ID, "model timeout"))

	jobs, err := s.ListJobsByUser(1, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, models.JobFailed, jobs[0].Status)
	assert.Equal(t, "model timeout", jobs[0].ErrorMessage)
}

func TestListJobsNewestFirstWithLimit(t *testing.T) {
	s := store.NewMemoryStore()
	seedStoreUser(t, s, 1, 10)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.CreateJobAndDebit(newJob(1, base.Add(time.Duration(i)*time.Hour))))
	}

	jobs, err := s.ListJobsByUser(1, 2)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.True(t, jobs[0].CreatedAt.After(jobs[1].CreatedAt))
	assert.Equal(t, base.Add(2*time.Hour), jobs[0].CreatedAt)
}

func TestCountJobsSinceFilter(t *testing.T) {
	s := store.NewMemoryStore()
	seedStoreUser(t, s, 1, 10)
	seedStoreUser(t, s, 2, 10)

	cutoff := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.CreateJobAndDebit(newJob(1, cutoff.Add(-time.Hour))))
	require.NoError(t, s.CreateJobAndDebit(newJob(1, cutoff.Add(time.Hour))))
	require.NoError(t, s.CreateJobAndDebit(newJob(2, cutoff.Add(2*time.Hour))))

	total, err := s.CountJobs(time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	recent, err := s.CountJobs(cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(2), recent)

	userRecent, err := s.CountJobsByUser(1, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), userRecent)

	active, err := s.CountActiveUsers(cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(2), active)
}

func TestDuplicatePurchase(t *testing.T) {
	s := store.NewMemoryStore()
	seedStoreUser(t, s, 1, 0)

	p := &models.Purchase{
		UserID:           1,
		CreditsPurchased: 25,
		AmountCents:      1900,
		StripeSessionID:  "cs_dup",
	}
	require.NoError(t, s.CreatePurchase(p))

	dup := &models.Purchase{UserID: 1, CreditsPurchased: 25, StripeSessionID: "cs_dup"}
	assert.ErrorIs(t, s.CreatePurchase(dup), store.ErrDuplicatePurchase)

	seen, err := s.HasPurchase("cs_dup")
	require.NoError(t, err)
	assert.True(t, seen)

	revenue, err := s.TotalRevenueCents()
	require.NoError(t, err)
	assert.Equal(t, int64(1900), revenue)
}

func TestRecordPurchaseAndCredit(t *testing.T) {
	s := store.NewMemoryStore()
	seedStoreUser(t, s, 1, 0)

	p := &models.Purchase{
		UserID:           1,
		CreditsPurchased: 75,
		AmountCents:      4900,
		StripeSessionID:  "cs_grant",
	}
	require.NoError(t, s.RecordPurchaseAndCredit(p))

	balance, err := s.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, 75, balance)

	// a replayed session loses the insert and grants nothing
	replay := &models.Purchase{UserID: 1, CreditsPurchased: 75, StripeSessionID: "cs_grant"}
	assert.ErrorIs(t, s.RecordPurchaseAndCredit(replay), store.ErrDuplicatePurchase)

	balance, err = s.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, 75, balance)
}

func TestRecordPurchaseAndCreditUnknownUser(t *testing.T) {
	s := store.NewMemoryStore()

	p := &models.Purchase{UserID: 9, CreditsPurchased: 25, StripeSessionID: "cs_ghost"}
	assert.ErrorIs(t, s.RecordPurchaseAndCredit(p), store.ErrNotFound)

	// nothing recorded, so a retry can still succeed
	seen, err := s.HasPurchase("cs_ghost")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestCreditAndGetBalance(t *testing.T) {
	s := store.NewMemoryStore()
	seedStoreUser(t, s, 1, 5)

	require.NoError(t, s.Credit(1, 75))
	balance, err := s.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, 80, balance)

	assert.ErrorIs(t, s.Credit(99, 10), store.ErrNotFound)
}

func TestUserCRUD(t *testing.T) {
	s := store.NewMemoryStore()

	u := &models.User{Email: "crud@example.com", FirstName: "Jo"}
	require.NoError(t, s.CreateUser(u))
	assert.NotZero(t, u.ID)

	byEmail, err := s.GetUserByEmail("crud@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byEmail.FirstName = "Joan"
	require.NoError(t, s.UpdateUser(byEmail))

	got, err := s.GetUser(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Joan", got.FirstName)

	require.NoError(t, s.DeleteUser(u.ID))
	_, err = s.GetUser(u.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteUser(u.ID), store.ErrNotFound)
}
