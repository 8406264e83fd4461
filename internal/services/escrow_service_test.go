// internal/services/escrow_service_test.go
package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/christopherzulu0/Bixi-Road-sub001/internal/errs"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/models"
)

type EscrowServiceSuite struct {
	suite.Suite
	db      *gorm.DB
	service *EscrowService
	seller  *models.User
	buyer   *models.User
}

func TestEscrowServiceSuite(t *testing.T) {
	suite.Run(t, new(EscrowServiceSuite))
}

func (s *EscrowServiceSuite) SetupTest() {
	s.db = setupTestDB(s.T())
	s.service = NewEscrowService(s.db, newTestNotificationService(s.db))
	s.seller = createTestUser(s.T(), s.db, models.UserRoleSeller)
	s.buyer = createTestUser(s.T(), s.db, models.UserRoleBuyer)
}

func (s *EscrowServiceSuite) TestPurchaseHappyPath() {
	listing := createLiveListing(s.T(), s.db, s.seller.ID, 10, 5.00)

	txn, err := s.service.Purchase(s.buyer.ID, &PurchaseRequest{
		ListingID: listing.ID,
		Quantity:  4,
	})
	s.Require().NoError(err)

	s.Equal(20.00, txn.TotalAmount)
	s.Equal(0.075, txn.CommissionRate)
	s.Equal(1.50, txn.CommissionAmount)
	s.Equal(18.50, txn.SellerReceives)
	s.Equal(models.EscrowStatusFundsHeld, txn.EscrowStatus)
	s.NotEmpty(txn.Code)
	s.Equal(s.seller.ID, txn.SellerID)

	var updated models.Listing
	s.Require().NoError(s.db.First(&updated, "id = ?", listing.ID).Error)
	s.Equal(6.0, updated.Quantity)
	s.Equal(models.ListingStatusLive, updated.Status)
	s.True(updated.IsActive)
}

func (s *EscrowServiceSuite) TestPurchaseExactQuantityMarksSold() {
	listing := createLiveListing(s.T(), s.db, s.seller.ID, 4, 5.00)

	_, err := s.service.Purchase(s.buyer.ID, &PurchaseRequest{
		ListingID: listing.ID,
		Quantity:  4,
	})
	s.Require().NoError(err)

	var updated models.Listing
	s.Require().NoError(s.db.First(&updated, "id = ?", listing.ID).Error)
	s.Equal(0.0, updated.Quantity)
	s.Equal(models.ListingStatusSold, updated.Status)
	s.False(updated.IsActive)
}

func (s *EscrowServiceSuite) TestPurchaseInsufficientQuantity() {
	listing := createLiveListing(s.T(), s.db, s.seller.ID, 2.5, 5.00)

	_, err := s.service.Purchase(s.buyer.ID, &PurchaseRequest{
		ListingID: listing.ID,
		Quantity:  3,
	})
	s.Require().Error(err)
	s.True(errs.IsKind(err, errs.KindValidation))
	s.Contains(errs.MessageOf(err), "only 2.5 available")

	// Failed purchase must not touch the listing.
	var updated models.Listing
	s.Require().NoError(s.db.First(&updated, "id = ?", listing.ID).Error)
	s.Equal(2.5, updated.Quantity)

	var count int64
	s.db.Model(&models.Transaction{}).Count(&count)
	s.Equal(int64(0), count)
}

func (s *EscrowServiceSuite) TestPurchaseOwnListing() {
	listing := createLiveListing(s.T(), s.db, s.seller.ID, 10, 5.00)

	_, err := s.service.Purchase(s.seller.ID, &PurchaseRequest{
		ListingID: listing.ID,
		Quantity:  1,
	})
	s.True(errs.IsKind(err, errs.KindValidation))
}

func (s *EscrowServiceSuite) TestPurchaseListingNotLive() {
	listing := createTestListing(s.T(), s.db, s.seller.ID, 10, 5.00, models.ListingStatusApproved, false)

	_, err := s.service.Purchase(s.buyer.ID, &PurchaseRequest{
		ListingID: listing.ID,
		Quantity:  1,
	})
	s.True(errs.IsKind(err, errs.KindValidation))
}

func (s *EscrowServiceSuite) TestPurchaseUnknownListing() {
	_, err := s.service.Purchase(s.buyer.ID, &PurchaseRequest{
		ListingID: s.buyer.ID, // not a listing ID
		Quantity:  1,
	})
	s.True(errs.IsKind(err, errs.KindNotFound))
}

func (s *EscrowServiceSuite) TestConcurrentPurchasesNeverOversell() {
	const stock = 5
	const buyers = 12

	listing := createLiveListing(s.T(), s.db, s.seller.ID, stock, 5.00)

	var wg sync.WaitGroup
	results := make(chan error, buyers)
	for i := 0; i < buyers; i++ {
		buyer := createTestUser(s.T(), s.db, models.UserRoleBuyer)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.Purchase(buyer.ID, &PurchaseRequest{
				ListingID: listing.ID,
				Quantity:  1,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		s.True(errs.IsKind(err, errs.KindValidation))
	}
	s.Equal(stock, succeeded)

	var updated models.Listing
	s.Require().NoError(s.db.Unscoped().First(&updated, "id = ?", listing.ID).Error)
	s.Equal(0.0, updated.Quantity)

	var count int64
	s.db.Model(&models.Transaction{}).Count(&count)
	s.Equal(int64(stock), count)
}

func (s *EscrowServiceSuite) TestConfirmDeliveryReleasesFunds() {
	listing := createLiveListing(s.T(), s.db, s.seller.ID, 10, 5.00)
	txn, err := s.service.Purchase(s.buyer.ID, &PurchaseRequest{ListingID: listing.ID, Quantity: 2})
	s.Require().NoError(err)

	released, err := s.service.ConfirmDelivery(txn.ID, s.buyer.ID)
	s.Require().NoError(err)
	s.Equal(models.EscrowStatusReleased, released.EscrowStatus)
	s.True(released.BuyerConfirmed)
	s.NotNil(released.ReleasedAt)
}

func (s *EscrowServiceSuite) TestConfirmDeliveryOnlyBuyer() {
	listing := createLiveListing(s.T(), s.db, s.seller.ID, 10, 5.00)
	txn, err := s.service.Purchase(s.buyer.ID, &PurchaseRequest{ListingID: listing.ID, Quantity: 2})
	s.Require().NoError(err)

	_, err = s.service.ConfirmDelivery(txn.ID, s.seller.ID)
	s.True(errs.IsKind(err, errs.KindAuthorization))
}

func (s *EscrowServiceSuite) TestConfirmDeliveryTwice() {
	listing := createLiveListing(s.T(), s.db, s.seller.ID, 10, 5.00)
	txn, err := s.service.Purchase(s.buyer.ID, &PurchaseRequest{ListingID: listing.ID, Quantity: 2})
	s.Require().NoError(err)

	_, err = s.service.ConfirmDelivery(txn.ID, s.buyer.ID)
	s.Require().NoError(err)

	_, err = s.service.ConfirmDelivery(txn.ID, s.buyer.ID)
	s.True(errs.IsKind(err, errs.KindConflict))
}

func (s *EscrowServiceSuite) TestRefundRestoresQuantity() {
	admin := createTestUser(s.T(), s.db, models.UserRoleAdmin)
	listing := createLiveListing(s.T(), s.db, s.seller.ID, 10, 5.00)
	txn, err := s.service.Purchase(s.buyer.ID, &PurchaseRequest{ListingID: listing.ID, Quantity: 4})
	s.Require().NoError(err)

	refunded, err := s.service.Refund(txn.ID, admin.ID, &RefundRequest{Reason: "shipment never arrived"})
	s.Require().NoError(err)
	s.Equal(models.EscrowStatusRefunded, refunded.EscrowStatus)
	s.NotNil(refunded.RefundedAt)
	s.Equal("shipment never arrived", refunded.RefundReason)

	var updated models.Listing
	s.Require().NoError(s.db.First(&updated, "id = ?", listing.ID).Error)
	s.Equal(10.0, updated.Quantity)
}

func (s *EscrowServiceSuite) TestRefundRelistsSoldOutListing() {
	admin := createTestUser(s.T(), s.db, models.UserRoleAdmin)
	listing := createLiveListing(s.T(), s.db, s.seller.ID, 4, 5.00)
	txn, err := s.service.Purchase(s.buyer.ID, &PurchaseRequest{ListingID: listing.ID, Quantity: 4})
	s.Require().NoError(err)

	_, err = s.service.Refund(txn.ID, admin.ID, &RefundRequest{Reason: "dispute resolved for buyer"})
	s.Require().NoError(err)

	var updated models.Listing
	s.Require().NoError(s.db.First(&updated, "id = ?", listing.ID).Error)
	s.Equal(4.0, updated.Quantity)
	s.Equal(models.ListingStatusLive, updated.Status)
	s.True(updated.IsActive)
}

func (s *EscrowServiceSuite) TestRefundAfterRelease() {
	admin := createTestUser(s.T(), s.db, models.UserRoleAdmin)
	listing := createLiveListing(s.T(), s.db, s.seller.ID, 10, 5.00)
	txn, err := s.service.Purchase(s.buyer.ID, &PurchaseRequest{ListingID: listing.ID, Quantity: 2})
	s.Require().NoError(err)

	_, err = s.service.ConfirmDelivery(txn.ID, s.buyer.ID)
	s.Require().NoError(err)

	_, err = s.service.Refund(txn.ID, admin.ID, &RefundRequest{Reason: "too late"})
	s.True(errs.IsKind(err, errs.KindConflict))
}

func (s *EscrowServiceSuite) TestRefundRequiresReason() {
	admin := createTestUser(s.T(), s.db, models.UserRoleAdmin)
	listing := createLiveListing(s.T(), s.db, s.seller.ID, 10, 5.00)
	txn, err := s.service.Purchase(s.buyer.ID, &PurchaseRequest{ListingID: listing.ID, Quantity: 2})
	s.Require().NoError(err)

	_, err = s.service.Refund(txn.ID, admin.ID, &RefundRequest{Reason: "   "})
	s.True(errs.IsKind(err, errs.KindValidation))
}

func (s *EscrowServiceSuite) TestGetByIDVisibility() {
	listing := createLiveListing(s.T(), s.db, s.seller.ID, 10, 5.00)
	txn, err := s.service.Purchase(s.buyer.ID, &PurchaseRequest{ListingID: listing.ID, Quantity: 1})
	s.Require().NoError(err)

	_, err = s.service.GetByID(txn.ID, s.buyer.ID, false)
	s.NoError(err)

	_, err = s.service.GetByID(txn.ID, s.seller.ID, false)
	s.NoError(err)

	stranger := createTestUser(s.T(), s.db, models.UserRoleBuyer)
	_, err = s.service.GetByID(txn.ID, stranger.ID, false)
	s.True(errs.IsKind(err, errs.KindAuthorization))

	_, err = s.service.GetByID(txn.ID, stranger.ID, true)
	s.NoError(err)
}
