package services

import (
	"errors"
	"fmt"
	"log"
	"math"

	"edemy/models"
	"edemy/payments"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PurchaseService owns the purchase lifecycle: checkout initiation and the
// webhook-driven pending -> completed/failed transitions with their
// enrollment side effects.
type PurchaseService struct {
	db       *gorm.DB
	checkout payments.Client
	currency string

	// Notify, when set, is called after a successful enrollment commit.
	// Failures there must not affect the purchase, so it runs outside the
	// transaction.
	Notify func(user *models.User, course *models.Course)
}

func NewPurchaseService(db *gorm.DB, checkout payments.Client, currency string) *PurchaseService {
	return &PurchaseService{db: db, checkout: checkout, currency: currency}
}

// Initiate creates a pending purchase priced from the course and returns the
// hosted checkout URL. If session creation fails the purchase is deleted
// again so no orphaned pending row is left behind.
func (s *PurchaseService) Initiate(userID, courseID, origin string) (string, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return "", err
	}

	var course models.Course
	if err := s.db.First(&course, "id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: course %s", ErrNotFound, courseID)
		}
		return "", err
	}

	amount := PurchaseAmount(course.CoursePrice, course.Discount)
	if amount < 0 {
		return "", fmt.Errorf("%w: computed amount %.2f is negative", ErrInvalidArgument, amount)
	}

	purchase := models.Purchase{
		CourseID: course.ID,
		UserID:   user.ID,
		Amount:   amount,
		Status:   models.PurchaseStatusPending,
	}
	if err := s.db.Create(&purchase).Error; err != nil {
		return "", err
	}

	url, err := s.checkout.CreateCheckoutSession(payments.CheckoutParams{
		PurchaseID:  purchase.ID,
		ProductName: course.CourseTitle,
		UnitAmount:  MinorUnits(amount),
		Currency:    s.currency,
		SuccessURL:  origin + "/loading/my-enrollments",
		CancelURL:   origin + "/",
	})
	if err != nil {
		if delErr := s.db.Delete(&models.Purchase{}, "id = ?", purchase.ID).Error; delErr != nil {
			log.Printf("Failed to clean up purchase %s after checkout error: %v", purchase.ID, delErr)
		}
		return "", fmt.Errorf("%w: checkout session: %v", ErrProviderUnavailable, err)
	}

	return url, nil
}

// OnPaymentSucceeded enrolls the purchaser and marks the purchase completed.
// Unknown correlation tokens and already-terminal purchases are no-ops, so
// redelivered events cannot double-enroll.
func (s *PurchaseService) OnPaymentSucceeded(purchaseID string) error {
	var purchase models.Purchase
	if err := s.db.First(&purchase, "id = ?", purchaseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("No purchase found for id %s, ignoring payment success", purchaseID)
			return nil
		}
		return err
	}

	var user models.User
	var course models.Course
	enrolled := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Claim the purchase with a conditional update. Zero rows means a
		// concurrent or earlier delivery already reached a terminal status.
		res := tx.Model(&models.Purchase{}).
			Where("id = ? AND status = ?", purchaseID, models.PurchaseStatusPending).
			Update("status", models.PurchaseStatusCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		if err := tx.First(&user, "id = ?", purchase.UserID).Error; err != nil {
			return err
		}
		if err := tx.First(&course, "id = ?", purchase.CourseID).Error; err != nil {
			return err
		}

		enrollment := models.Enrollment{UserID: user.ID, CourseID: course.ID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&enrollment).Error; err != nil {
			return err
		}

		enrolled = true
		return nil
	})
	if err != nil {
		// The rollback leaves the purchase pending, so the provider's retry
		// can pick it up again.
		log.Printf("Error handling payment success for purchase %s: %v", purchaseID, err)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if enrolled && s.Notify != nil {
		s.Notify(&user, &course)
	}
	return nil
}

// OnPaymentFailed marks a pending purchase failed. No enrollment effects.
func (s *PurchaseService) OnPaymentFailed(purchaseID string) error {
	res := s.db.Model(&models.Purchase{}).
		Where("id = ? AND status = ?", purchaseID, models.PurchaseStatusPending).
		Update("status", models.PurchaseStatusFailed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		log.Printf("Purchase %s missing or already terminal, ignoring payment failure", purchaseID)
	}
	return nil
}

// PurchaseAmount applies the percentage discount and rounds to two decimal
// currency units.
func PurchaseAmount(price, discountPct float64) float64 {
	return math.Round((price-discountPct*price/100)*100) / 100
}

// MinorUnits converts a two-decimal amount to integer minor units,
// truncating anything below one cent. The epsilon keeps binary float
// representation from dropping a cent (33.33 * 100 is 3332.999...).
func MinorUnits(amount float64) int64 {
	return int64(math.Floor(amount*100 + 1e-6))
}
