package store

import (
	"errors"
	"time"

	"github.com/youngamerican68/Property-Perfect/models"
)

var (
	// ErrInsufficientCredit is returned when a debit would take a balance
	// below zero. No partial debit is applied.
	ErrInsufficientCredit = errors.New("insufficient credit")

	// ErrNotFound is returned for lookups and updates on missing rows.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicatePurchase is returned when a checkout session id has
	// already been recorded.
	ErrDuplicatePurchase = errors.New("purchase already recorded")
)

// Store is the persistence surface for users, the credit ledger,
// enhancement jobs, and purchases.
type Store interface {
	// users
	CreateUser(u *models.User) error
	GetUser(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateUser(u *models.User) error
	DeleteUser(id uint) error
	CountUsers() (int64, error)

	// credit ledger
	GetBalance(userID uint) (int, error)
	// Debit applies a single conditional decrement; it fails with
	// ErrInsufficientCredit when the balance is below amount.
	Debit(userID uint, amount int) error
	Credit(userID uint, amount int) error

	// jobs
	// CreateJobAndDebit writes the job row and debits one credit in the
	// same transaction. On ErrInsufficientCredit the job row is rolled
	// back.
	CreateJobAndDebit(job *models.EnhancementJob) error
	CompleteJob(id uint, enhancedImageURL string) error
	FailJob(id uint, message string) error
	ListJobsByUser(userID uint, limit int) ([]models.EnhancementJob, error)
	// CountJobsByUser and CountJobs treat a zero since as unbounded.
	CountJobsByUser(userID uint, since time.Time) (int64, error)
	CountJobs(since time.Time) (int64, error)
	CountActiveUsers(since time.Time) (int64, error)

	// purchases
	HasPurchase(stripeSessionID string) (bool, error)
	CreatePurchase(p *models.Purchase) error
	// RecordPurchaseAndCredit inserts the purchase row and grants its
	// credits in the same transaction. The unique session id is the
	// replay gate: a duplicate insert fails with ErrDuplicatePurchase and
	// grants nothing.
	RecordPurchaseAndCredit(p *models.Purchase) error
	TotalRevenueCents() (int64, error)
}
