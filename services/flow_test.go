package services

import (
	"testing"

	"edemy/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Full purchase flow: checkout initiation priced from the course, then the
// success event enrolling both sides of the relationship.
func TestPurchaseFlowEndToEnd(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "user_1")
	course := seedCourse(t, db, "Go Basics", 100, 20, "lec1", "lec2")

	checkout := &fakeCheckout{sessionURL: "https://checkout.test/session"}
	purchases := NewPurchaseService(db, checkout, "usd")
	userSync := NewUserSyncService(db, &fakeProfileFetcher{})

	url, err := purchases.Initiate(user.ID, course.ID, "https://edemy.test")
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.test/session", url)

	var purchase models.Purchase
	require.NoError(t, db.First(&purchase, "user_id = ?", user.ID).Error)
	assert.InDelta(t, 80.00, purchase.Amount, 0.001)

	require.NoError(t, purchases.OnPaymentSucceeded(purchase.ID))

	got, err := userSync.EnsureUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{course.ID}, got.EnrolledCourses)

	var studentIDs []string
	require.NoError(t, db.Model(&models.Enrollment{}).
		Where("course_id = ?", course.ID).
		Pluck("user_id", &studentIDs).Error)
	assert.Equal(t, []string{user.ID}, studentIDs)

	require.NoError(t, db.First(&purchase, "id = ?", purchase.ID).Error)
	assert.Equal(t, models.PurchaseStatusCompleted, purchase.Status)
}
