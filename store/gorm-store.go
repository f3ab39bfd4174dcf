package store

import (
	"errors"
	"time"

	"github.com/youngamerican68/Property-Perfect/models"
	"gorm.io/gorm"
)

// GormStore backs the Store interface with Postgres through GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateUser(u *models.User) error {
	return s.db.Create(u).Error
}

func (s *GormStore) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) UpdateUser(u *models.User) error {
	return s.db.Save(u).Error
}

func (s *GormStore) DeleteUser(id uint) error {
	res := s.db.Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) CountUsers() (int64, error) {
	var count int64
	err := s.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

func (s *GormStore) GetBalance(userID uint) (int, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return 0, err
	}
	return user.CreditBalance, nil
}

// Debit decrements the balance with a floor check in a single statement so
// concurrent debits for the same user cannot overspend.
func (s *GormStore) Debit(userID uint, amount int) error {
	return debitTx(s.db, userID, amount)
}

func debitTx(tx *gorm.DB, userID uint, amount int) error {
	res := tx.Model(&models.User{}).
		Where("id = ? AND credit_balance >= ?", userID, amount).
		UpdateColumn("credit_balance", gorm.Expr("credit_balance - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientCredit
	}
	return nil
}

func (s *GormStore) Credit(userID uint, amount int) error {
	return creditTx(s.db, userID, amount)
}

func creditTx(tx *gorm.DB, userID uint, amount int) error {
	res := tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("credit_balance", gorm.Expr("credit_balance + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) CreateJobAndDebit(job *models.EnhancementJob) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(job).Error; err != nil {
			return err
		}
		return debitTx(tx, job.UserID, job.CreditsUsed)
	})
}

func (s *GormStore) CompleteJob(id uint, enhancedImageURL string) error {
	now := time.Now().UTC()
	return s.finishJob(id, map[string]any{
		"status":             models.JobCompleted,
		"enhanced_image_url": enhancedImageURL,
		"completed_at":       &now,
	})
}

func (s *GormStore) FailJob(id uint, message string) error {
	now := time.Now().UTC()
	return s.finishJob(id, map[string]any{
		"status":        models.JobFailed,
		"error_message": message,
		"completed_at":  &now,
	})
}

// finishJob only moves jobs out of the processing state; terminal states
// are never re-entered.
func (s *GormStore) finishJob(id uint, fields map[string]any) error {
	res := s.db.Model(&models.EnhancementJob{}).
		Where("id = ? AND status = ?", id, models.JobProcessing).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) ListJobsByUser(userID uint, limit int) ([]models.EnhancementJob, error) {
	var jobs []models.EnhancementJob
	tx := s.db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (s *GormStore) CountJobsByUser(userID uint, since time.Time) (int64, error) {
	var count int64
	tx := s.db.Model(&models.EnhancementJob{}).Where("user_id = ?", userID)
	if !since.IsZero() {
		tx = tx.Where("created_at >= ?", since)
	}
	err := tx.Count(&count).Error
	return count, err
}

func (s *GormStore) CountJobs(since time.Time) (int64, error) {
	var count int64
	tx := s.db.Model(&models.EnhancementJob{})
	if !since.IsZero() {
		tx = tx.Where("created_at >= ?", since)
	}
	err := tx.Count(&count).Error
	return count, err
}

func (s *GormStore) CountActiveUsers(since time.Time) (int64, error) {
	var count int64
	tx := s.db.Model(&models.EnhancementJob{}).Distinct("user_id")
	if !since.IsZero() {
		tx = tx.Where("created_at >= ?", since)
	}
	err := tx.Count(&count).Error
	return count, err
}

func (s *GormStore) HasPurchase(stripeSessionID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Purchase{}).
		Where("stripe_session_id = ?", stripeSessionID).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) CreatePurchase(p *models.Purchase) error {
	if err := s.db.Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicatePurchase
		}
		return err
	}
	return nil
}

// RecordPurchaseAndCredit makes the purchase insert the gate for the grant:
// concurrent deliveries of the same session race on the unique session id,
// and only the transaction that wins the insert credits the user.
func (s *GormStore) RecordPurchaseAndCredit(p *models.Purchase) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicatePurchase
			}
			return err
		}
		return creditTx(tx, p.UserID, p.CreditsPurchased)
	})
}

func (s *GormStore) TotalRevenueCents() (int64, error) {
	var total int64
	err := s.db.Model(&models.Purchase{}).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error
	return total, err
}
