// internal/services/listing_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/christopherzulu0/Bixi-Road-sub001/internal/errs"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/models"
)

type ListingServiceSuite struct {
	suite.Suite
	db      *gorm.DB
	service *ListingService
	admin   *models.User
	seller  *models.User
}

func TestListingServiceSuite(t *testing.T) {
	suite.Run(t, new(ListingServiceSuite))
}

func (s *ListingServiceSuite) SetupTest() {
	s.db = setupTestDB(s.T())
	s.service = NewListingService(s.db, newTestNotificationService(s.db))
	s.admin = createTestUser(s.T(), s.db, models.UserRoleAdmin)
	s.seller = createTestUser(s.T(), s.db, models.UserRoleSeller)
}

func (s *ListingServiceSuite) create() *models.Listing {
	listing, err := s.service.Create(s.seller.ID, &CreateListingRequest{
		Title:        "Raw coltan ore",
		Description:  "Direct from the mine",
		Category:     "Coltan",
		Unit:         "kilograms",
		Quantity:     250,
		PricePerUnit: 42.50,
		MiningRegion: "North Kivu",
	})
	s.Require().NoError(err)
	return listing
}

func (s *ListingServiceSuite) TestCreateEntersReview() {
	listing := s.create()

	s.Equal(models.ListingStatusPendingReview, listing.Status)
	s.False(listing.IsActive)
	s.Equal(models.CategoryColtan, listing.Category)
	s.Equal(models.UnitKilograms, listing.Unit)
}

func (s *ListingServiceSuite) TestCreateUnknownCategoryFallsBack() {
	listing, err := s.service.Create(s.seller.ID, &CreateListingRequest{
		Title:        "Mystery mineral",
		Category:     "unobtainium",
		Unit:         "buckets",
		Quantity:     1,
		PricePerUnit: 1,
	})
	s.Require().NoError(err)
	s.Equal(models.CategoryOtherMineral, listing.Category)
	s.Equal(models.UnitGrams, listing.Unit)
}

func (s *ListingServiceSuite) TestCreateRequiresVerifiedSeller() {
	buyer := createTestUser(s.T(), s.db, models.UserRoleBuyer)

	_, err := s.service.Create(buyer.ID, &CreateListingRequest{
		Title:        "Not allowed",
		Quantity:     1,
		PricePerUnit: 1,
	})
	s.True(errs.IsKind(err, errs.KindAuthorization))
}

func (s *ListingServiceSuite) TestCreateValidation() {
	_, err := s.service.Create(s.seller.ID, &CreateListingRequest{
		Title:        "  ",
		Quantity:     1,
		PricePerUnit: 1,
	})
	s.True(errs.IsKind(err, errs.KindValidation))

	_, err = s.service.Create(s.seller.ID, &CreateListingRequest{
		Title:        "Zero stock",
		Quantity:     0,
		PricePerUnit: 1,
	})
	s.True(errs.IsKind(err, errs.KindValidation))
}

func (s *ListingServiceSuite) TestApprove() {
	listing := s.create()

	decided, err := s.service.Decide(listing.ID, s.admin.ID, &DecideListingRequest{
		Action: models.DecisionApprove,
	})
	s.Require().NoError(err)
	s.Equal(models.ListingStatusApproved, decided.Status)
	s.NotNil(decided.ApprovedAt)
	s.False(decided.IsActive)
}

func (s *ListingServiceSuite) TestRejectRequiresReason() {
	listing := s.create()

	_, err := s.service.Decide(listing.ID, s.admin.ID, &DecideListingRequest{
		Action: models.DecisionReject,
	})
	s.True(errs.IsKind(err, errs.KindValidation))
}

func (s *ListingServiceSuite) TestDecideTwice() {
	listing := s.create()

	_, err := s.service.Decide(listing.ID, s.admin.ID, &DecideListingRequest{
		Action: models.DecisionApprove,
	})
	s.Require().NoError(err)

	_, err = s.service.Decide(listing.ID, s.admin.ID, &DecideListingRequest{
		Action: models.DecisionReject,
		Reason: "second look",
	})
	s.True(errs.IsKind(err, errs.KindConflict))
}

func (s *ListingServiceSuite) TestDecideWritesAuditLog() {
	listing := s.create()

	_, err := s.service.Decide(listing.ID, s.admin.ID, &DecideListingRequest{
		Action: models.DecisionApprove,
	})
	s.Require().NoError(err)

	var log models.AuditLog
	s.Require().NoError(s.db.First(&log, "resource_type = ? AND resource_id = ?", "listing", listing.ID).Error)
	s.Equal("listing.approve", log.Action)
	s.Require().NotNil(log.UserID)
	s.Equal(s.admin.ID, *log.UserID)
}

func (s *ListingServiceSuite) TestPublishApprovedListing() {
	listing := s.create()
	_, err := s.service.Decide(listing.ID, s.admin.ID, &DecideListingRequest{Action: models.DecisionApprove})
	s.Require().NoError(err)

	published, err := s.service.Publish(listing.ID, s.seller.ID)
	s.Require().NoError(err)
	s.Equal(models.ListingStatusLive, published.Status)
	s.True(published.IsActive)
}

func (s *ListingServiceSuite) TestPublishPendingListing() {
	listing := s.create()

	_, err := s.service.Publish(listing.ID, s.seller.ID)
	s.True(errs.IsKind(err, errs.KindConflict))
}

func (s *ListingServiceSuite) TestPublishOwnerGate() {
	listing := s.create()
	_, err := s.service.Decide(listing.ID, s.admin.ID, &DecideListingRequest{Action: models.DecisionApprove})
	s.Require().NoError(err)

	other := createTestUser(s.T(), s.db, models.UserRoleSeller)
	_, err = s.service.Publish(listing.ID, other.ID)
	s.True(errs.IsKind(err, errs.KindAuthorization))
}

func (s *ListingServiceSuite) TestSearchOnlyLiveListings() {
	live := createLiveListing(s.T(), s.db, s.seller.ID, 10, 5)
	createTestListing(s.T(), s.db, s.seller.ID, 10, 5, models.ListingStatusPendingReview, false)
	createTestListing(s.T(), s.db, s.seller.ID, 10, 5, models.ListingStatusSold, false)

	listings, total, err := s.service.Search(SearchListingsFilter{}, 0, 10)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(listings, 1)
	s.Equal(live.ID, listings[0].ID)
}

func (s *ListingServiceSuite) TestSearchFilters() {
	gold := &models.Listing{
		SellerID: s.seller.ID, Title: "Gold dust", Category: models.CategoryGold,
		Unit: models.UnitGrams, Quantity: 100, PricePerUnit: 75,
		MiningRegion: "Ashanti", Status: models.ListingStatusLive, IsActive: true,
	}
	s.Require().NoError(s.db.Create(gold).Error)
	createLiveListing(s.T(), s.db, s.seller.ID, 10, 5) // copper

	listings, total, err := s.service.Search(SearchListingsFilter{Category: "Gold"}, 0, 10)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal(gold.ID, listings[0].ID)

	_, total, err = s.service.Search(SearchListingsFilter{MinPrice: 50}, 0, 10)
	s.Require().NoError(err)
	s.Equal(int64(1), total)

	_, total, err = s.service.Search(SearchListingsFilter{Query: "gold"}, 0, 10)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
}

func (s *ListingServiceSuite) TestDeactivate() {
	listing := createLiveListing(s.T(), s.db, s.seller.ID, 10, 5)

	deactivated, err := s.service.Deactivate(listing.ID, s.seller.ID)
	s.Require().NoError(err)
	s.False(deactivated.IsActive)

	_, total, err := s.service.Search(SearchListingsFilter{}, 0, 10)
	s.Require().NoError(err)
	s.Equal(int64(0), total)
}
