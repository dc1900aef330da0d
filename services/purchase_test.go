package services

import (
	"errors"
	"testing"

	"edemy/models"
	"edemy/payments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
)

type fakeCheckout struct {
	lastParams payments.CheckoutParams
	sessionURL string
	err        error
}

func (f *fakeCheckout) CreateCheckoutSession(p payments.CheckoutParams) (string, error) {
	f.lastParams = p
	if f.err != nil {
		return "", f.err
	}
	return f.sessionURL, nil
}

func (f *fakeCheckout) PurchaseIDForPaymentIntent(paymentIntentID string) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeCheckout) VerifyEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return stripe.Event{}, errors.New("not implemented")
}

func TestInitiateCreatesPendingPurchase(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "user_1")
	course := seedCourse(t, db, "Go Basics", 100, 20, "lec1")
	checkout := &fakeCheckout{sessionURL: "https://checkout.test/session"}
	svc := NewPurchaseService(db, checkout, "usd")

	url, err := svc.Initiate(user.ID, course.ID, "https://edemy.test")
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.test/session", url)

	var purchase models.Purchase
	require.NoError(t, db.First(&purchase, "user_id = ?", user.ID).Error)
	assert.Equal(t, course.ID, purchase.CourseID)
	assert.Equal(t, models.PurchaseStatusPending, purchase.Status)
	assert.InDelta(t, 80.00, purchase.Amount, 0.001)

	assert.Equal(t, purchase.ID, checkout.lastParams.PurchaseID)
	assert.Equal(t, int64(8000), checkout.lastParams.UnitAmount)
	assert.Equal(t, "usd", checkout.lastParams.Currency)
	assert.Equal(t, "https://edemy.test/loading/my-enrollments", checkout.lastParams.SuccessURL)
	assert.Equal(t, "https://edemy.test/", checkout.lastParams.CancelURL)
}

func TestInitiateUnknownUserOrCourse(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "user_1")
	course := seedCourse(t, db, "Go Basics", 100, 0, "lec1")
	svc := NewPurchaseService(db, &fakeCheckout{sessionURL: "https://checkout.test"}, "usd")

	_, err := svc.Initiate("missing", course.ID, "https://edemy.test")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Initiate(user.ID, "missing", "https://edemy.test")
	assert.ErrorIs(t, err, ErrNotFound)

	// No purchase rows should be left behind by failed lookups.
	var count int64
	require.NoError(t, db.Model(&models.Purchase{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestInitiateCompensatesFailedCheckout(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "user_1")
	course := seedCourse(t, db, "Go Basics", 50, 0, "lec1")
	checkout := &fakeCheckout{err: errors.New("provider down")}
	svc := NewPurchaseService(db, checkout, "usd")

	_, err := svc.Initiate(user.ID, course.ID, "https://edemy.test")
	assert.ErrorIs(t, err, ErrProviderUnavailable)

	// The pending purchase must not be orphaned.
	var count int64
	require.NoError(t, db.Model(&models.Purchase{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPaymentSucceededEnrollsOnce(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "user_1")
	course := seedCourse(t, db, "Go Basics", 100, 20, "lec1")
	svc := NewPurchaseService(db, &fakeCheckout{sessionURL: "https://checkout.test"}, "usd")

	_, err := svc.Initiate(user.ID, course.ID, "https://edemy.test")
	require.NoError(t, err)

	var purchase models.Purchase
	require.NoError(t, db.First(&purchase, "user_id = ?", user.ID).Error)

	notified := 0
	svc.Notify = func(u *models.User, c *models.Course) { notified++ }

	// Delivered twice: the second is a permitted no-op.
	require.NoError(t, svc.OnPaymentSucceeded(purchase.ID))
	require.NoError(t, svc.OnPaymentSucceeded(purchase.ID))

	require.NoError(t, db.First(&purchase, "id = ?", purchase.ID).Error)
	assert.Equal(t, models.PurchaseStatusCompleted, purchase.Status)

	var enrollments int64
	require.NoError(t, db.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).
		Count(&enrollments).Error)
	assert.Equal(t, int64(1), enrollments)
	assert.Equal(t, 1, notified)
}

func TestPaymentSucceededUnknownPurchase(t *testing.T) {
	db := newTestDB(t)
	svc := NewPurchaseService(db, &fakeCheckout{}, "usd")

	// Unknown correlation tokens are tolerated, not fatal.
	assert.NoError(t, svc.OnPaymentSucceeded("missing"))
}

func TestPaymentFailedIsTerminal(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "user_1")
	course := seedCourse(t, db, "Go Basics", 100, 0, "lec1")
	svc := NewPurchaseService(db, &fakeCheckout{sessionURL: "https://checkout.test"}, "usd")

	_, err := svc.Initiate(user.ID, course.ID, "https://edemy.test")
	require.NoError(t, err)

	var purchase models.Purchase
	require.NoError(t, db.First(&purchase, "user_id = ?", user.ID).Error)

	require.NoError(t, svc.OnPaymentFailed(purchase.ID))

	require.NoError(t, db.First(&purchase, "id = ?", purchase.ID).Error)
	assert.Equal(t, models.PurchaseStatusFailed, purchase.Status)

	// No enrollment side effects on failure.
	var enrollments int64
	require.NoError(t, db.Model(&models.Enrollment{}).Count(&enrollments).Error)
	assert.Zero(t, enrollments)

	// A late success event must not re-open the failed purchase.
	require.NoError(t, svc.OnPaymentSucceeded(purchase.ID))
	require.NoError(t, db.First(&purchase, "id = ?", purchase.ID).Error)
	assert.Equal(t, models.PurchaseStatusFailed, purchase.Status)
	require.NoError(t, db.Model(&models.Enrollment{}).Count(&enrollments).Error)
	assert.Zero(t, enrollments)
}

func TestPurchaseAmount(t *testing.T) {
	assert.InDelta(t, 80.00, PurchaseAmount(100, 20), 0.001)
	assert.InDelta(t, 100.00, PurchaseAmount(100, 0), 0.001)
	assert.InDelta(t, 0.00, PurchaseAmount(100, 100), 0.001)
	assert.InDelta(t, 33.33, PurchaseAmount(49.99, 33.33), 0.001)

	assert.Equal(t, int64(8000), MinorUnits(80.00))
	assert.Equal(t, int64(3333), MinorUnits(33.33))
	assert.Equal(t, int64(0), MinorUnits(0))
}
