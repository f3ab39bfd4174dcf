package store

import (
	"sort"
	"sync"
	"time"

	"github.com/youngamerican68/Property-Perfect/models"
)

// MemoryStore keeps everything in maps behind a mutex. It mirrors the
// GormStore semantics and backs handler tests.
type MemoryStore struct {
	mu        sync.Mutex
	users     map[uint]*models.User
	jobs      map[uint]*models.EnhancementJob
	purchases map[uint]*models.Purchase
	nextID    uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[uint]*models.User),
		jobs:      make(map[uint]*models.EnhancementJob),
		purchases: make(map[uint]*models.Purchase),
		nextID:    1,
	}
}

func (s *MemoryStore) allocID() uint {
	id := s.nextID
	s.nextID++
	return id
}

func (s *MemoryStore) CreateUser(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == 0 {
		u.ID = s.allocID()
	} else if u.ID >= s.nextID {
		s.nextID = u.ID + 1
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	clone := *u
	s.users[u.ID] = &clone
	return nil
}

func (s *MemoryStore) GetUser(id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *MemoryStore) GetUserByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdateUser(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return ErrNotFound
	}
	clone := *u
	s.users[u.ID] = &clone
	return nil
}

func (s *MemoryStore) DeleteUser(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *MemoryStore) CountUsers() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

func (s *MemoryStore) GetBalance(userID uint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return 0, ErrNotFound
	}
	return u.CreditBalance, nil
}

func (s *MemoryStore) Debit(userID uint, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debitLocked(userID, amount)
}

func (s *MemoryStore) debitLocked(userID uint, amount int) error {
	u, ok := s.users[userID]
	if !ok || u.CreditBalance < amount {
		return ErrInsufficientCredit
	}
	u.CreditBalance -= amount
	return nil
}

func (s *MemoryStore) Credit(userID uint, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.CreditBalance += amount
	return nil
}

func (s *MemoryStore) CreateJobAndDebit(job *models.EnhancementJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.debitLocked(job.UserID, job.CreditsUsed); err != nil {
		return err
	}
	if job.ID == 0 {
		job.ID = s.allocID()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	clone := *job
	s.jobs[job.ID] = &clone
	return nil
}

func (s *MemoryStore) CompleteJob(id uint, enhancedImageURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok || j.Status != models.JobProcessing {
		return ErrNotFound
	}
	now := time.Now().UTC()
	j.Status = models.JobCompleted
	j.EnhancedImageURL = enhancedImageURL
	j.CompletedAt = &now
	return nil
}

func (s *MemoryStore) FailJob(id uint, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok || j.Status != models.JobProcessing {
		return ErrNotFound
	}
	now := time.Now().UTC()
	j.Status = models.JobFailed
	j.ErrorMessage = message
	j.CompletedAt = &now
	return nil
}

func (s *MemoryStore) ListJobsByUser(userID uint, limit int) ([]models.EnhancementJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var jobs []models.EnhancementJob
	for _, j := range s.jobs {
		if j.UserID == userID {
			jobs = append(jobs, *j)
		}
	}
	sort.Slice(jobs, func(i, k int) bool {
		return jobs[i].CreatedAt.After(jobs[k].CreatedAt)
	})
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

func (s *MemoryStore) CountJobsByUser(userID uint, since time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, j := range s.jobs {
		if j.UserID == userID && (since.IsZero() || !j.CreatedAt.Before(since)) {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) CountJobs(since time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, j := range s.jobs {
		if since.IsZero() || !j.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) CountActiveUsers(since time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[uint]struct{})
	for _, j := range s.jobs {
		if since.IsZero() || !j.CreatedAt.Before(since) {
			seen[j.UserID] = struct{}{}
		}
	}
	return int64(len(seen)), nil
}

func (s *MemoryStore) HasPurchase(stripeSessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.purchases {
		if p.StripeSessionID == stripeSessionID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) CreatePurchase(p *models.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createPurchaseLocked(p)
}

func (s *MemoryStore) createPurchaseLocked(p *models.Purchase) error {
	for _, existing := range s.purchases {
		if existing.StripeSessionID == p.StripeSessionID {
			return ErrDuplicatePurchase
		}
	}
	if p.ID == 0 {
		p.ID = s.allocID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	clone := *p
	s.purchases[p.ID] = &clone
	return nil
}

func (s *MemoryStore) RecordPurchaseAndCredit(p *models.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[p.UserID]
	if !ok {
		return ErrNotFound
	}
	if err := s.createPurchaseLocked(p); err != nil {
		return err
	}
	u.CreditBalance += p.CreditsPurchased
	return nil
}

func (s *MemoryStore) TotalRevenueCents() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, p := range s.purchases {
		total += p.AmountCents
	}
	return total, nil
}
