// internal/router/router_test.go
package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/christopherzulu0/Bixi-Road-sub001/internal/config"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/models"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/utils"
)

type RouterSuite struct {
	suite.Suite
	db     *gorm.DB
	engine *gin.Engine
	jwt    *utils.JWTManager
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)

	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	s.Require().NoError(db.AutoMigrate(
		&models.User{},
		&models.SellerApplication{},
		&models.Listing{},
		&models.Transaction{},
		&models.Inquiry{},
		&models.AuditLog{},
		&models.AdminNotification{},
	))

	cfg := &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:      "test-secret",
			Issuer:         "mineral-marketplace-test",
			AccessTokenTTL: 1,
		},
		Frontend: config.FrontendConfig{BaseURL: "http://localhost:3000"},
	}

	s.db = db
	s.jwt = utils.NewJWTManager(cfg.JWT)
	s.engine = Setup(cfg, db)
}

func (s *RouterSuite) createUser(role models.UserRole) (*models.User, string) {
	id := uuid.New()
	user := &models.User{
		Username:   "user-" + id.String()[:8],
		Email:      id.String()[:8] + "@test.example",
		ExternalID: id.String(),
		Role:       role,
		Status:     models.UserStatusActive,
	}
	if role == models.UserRoleSeller {
		user.VerifiedMiner = true
	}
	s.Require().NoError(s.db.Create(user).Error)

	token, err := s.jwt.GenerateToken(user.ID, user.Username, user.Email, string(user.Role))
	s.Require().NoError(err)
	return user, token
}

func (s *RouterSuite) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	s.engine.ServeHTTP(recorder, req)
	return recorder
}

func (s *RouterSuite) decode(recorder *httptest.ResponseRecorder) map[string]interface{} {
	var envelope map[string]interface{}
	s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope
}

func (s *RouterSuite) TestHealth() {
	recorder := s.request(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, recorder.Code)
}

func (s *RouterSuite) TestPublicListingsWithoutToken() {
	recorder := s.request(http.MethodGet, "/api/v1/listings", "", nil)
	s.Equal(http.StatusOK, recorder.Code)
}

func (s *RouterSuite) TestProtectedRouteRequiresToken() {
	recorder := s.request(http.MethodPost, "/api/v1/applications", "", gin.H{"company_name": "X"})
	s.Equal(http.StatusUnauthorized, recorder.Code)
}

func (s *RouterSuite) TestAdminRouteRequiresAdminRole() {
	_, buyerToken := s.createUser(models.UserRoleBuyer)

	recorder := s.request(http.MethodGet, "/api/v1/admin/dashboard", buyerToken, nil)
	s.Equal(http.StatusForbidden, recorder.Code)
}

func (s *RouterSuite) TestSuspendedUserRejected() {
	user, token := s.createUser(models.UserRoleBuyer)
	s.Require().NoError(s.db.Model(user).Update("status", models.UserStatusSuspended).Error)

	recorder := s.request(http.MethodGet, "/api/v1/transactions", token, nil)
	s.Equal(http.StatusForbidden, recorder.Code)
}

func (s *RouterSuite) TestSellerOnboardingToSaleFlow() {
	_, buyerToken := s.createUser(models.UserRoleBuyer)
	applicant, applicantToken := s.createUser(models.UserRoleBuyer)
	_, adminToken := s.createUser(models.UserRoleAdmin)

	// Applicant files a seller application.
	recorder := s.request(http.MethodPost, "/api/v1/applications", applicantToken, gin.H{
		"company_name":  "Kitwe Minerals Ltd",
		"mining_region": "Copperbelt",
	})
	s.Require().Equal(http.StatusCreated, recorder.Code)
	applicationID := s.decode(recorder)["data"].(map[string]interface{})["id"].(string)

	// Admin approves it.
	recorder = s.request(http.MethodPost, "/api/v1/admin/applications/"+applicationID+"/decide", adminToken, gin.H{
		"action": "approve",
	})
	s.Require().Equal(http.StatusOK, recorder.Code)

	var promoted models.User
	s.Require().NoError(s.db.First(&promoted, "id = ?", applicant.ID).Error)
	s.Equal(models.UserRoleSeller, promoted.Role)
	s.True(promoted.VerifiedMiner)

	// The role is resolved from the database on every request, so the
	// pre-promotion token now grants seller access.
	sellerToken := applicantToken

	// New seller creates a listing.
	recorder = s.request(http.MethodPost, "/api/v1/listings", sellerToken, gin.H{
		"title":          "Copper cathode batch",
		"category":       "Copper",
		"unit":           "kilograms",
		"quantity":       10,
		"price_per_unit": 5.00,
		"mining_region":  "Copperbelt",
	})
	s.Require().Equal(http.StatusCreated, recorder.Code)
	listingID := s.decode(recorder)["data"].(map[string]interface{})["id"].(string)

	// Admin approves, seller publishes.
	recorder = s.request(http.MethodPost, "/api/v1/admin/listings/"+listingID+"/decide", adminToken, gin.H{
		"action": "approve",
	})
	s.Require().Equal(http.StatusOK, recorder.Code)

	recorder = s.request(http.MethodPost, "/api/v1/listings/"+listingID+"/publish", sellerToken, nil)
	s.Require().Equal(http.StatusOK, recorder.Code)

	// Buyer purchases 4 units.
	recorder = s.request(http.MethodPost, "/api/v1/transactions", buyerToken, gin.H{
		"listing_id": listingID,
		"quantity":   4,
	})
	s.Require().Equal(http.StatusCreated, recorder.Code)

	data := s.decode(recorder)["data"].(map[string]interface{})
	s.Equal(20.00, data["total_amount"])
	s.Equal(1.50, data["commission_amount"])
	s.Equal(18.50, data["seller_receives"])
	s.Equal("funds_held", data["escrow_status"])
	transactionID := data["id"].(string)

	// Buyer confirms delivery, releasing the funds.
	recorder = s.request(http.MethodPost, "/api/v1/transactions/"+transactionID+"/confirm-delivery", buyerToken, nil)
	s.Require().Equal(http.StatusOK, recorder.Code)
	data = s.decode(recorder)["data"].(map[string]interface{})
	s.Equal("released", data["escrow_status"])

	// Remaining stock is visible publicly.
	recorder = s.request(http.MethodGet, "/api/v1/listings/"+listingID, "", nil)
	s.Require().Equal(http.StatusOK, recorder.Code)
	data = s.decode(recorder)["data"].(map[string]interface{})
	s.Equal(6.0, data["quantity"])
}

func (s *RouterSuite) TestInquiryFlow() {
	seller, sellerToken := s.createUser(models.UserRoleSeller)
	_, buyerToken := s.createUser(models.UserRoleBuyer)

	listing := &models.Listing{
		SellerID: seller.ID, Title: "Gold dust", Category: models.CategoryGold,
		Unit: models.UnitGrams, Quantity: 100, PricePerUnit: 75,
		Status: models.ListingStatusLive, IsActive: true,
	}
	s.Require().NoError(s.db.Create(listing).Error)

	recorder := s.request(http.MethodPost, "/api/v1/inquiries", buyerToken, gin.H{
		"listing_id": listing.ID.String(),
		"message":    "What is the purity?",
	})
	s.Require().Equal(http.StatusCreated, recorder.Code)
	inquiryID := s.decode(recorder)["data"].(map[string]interface{})["id"].(string)

	recorder = s.request(http.MethodPost, "/api/v1/inquiries/"+inquiryID+"/respond", sellerToken, gin.H{
		"response": "99.5% assayed.",
	})
	s.Require().Equal(http.StatusOK, recorder.Code)

	// A second response is rejected.
	recorder = s.request(http.MethodPost, "/api/v1/inquiries/"+inquiryID+"/respond", sellerToken, gin.H{
		"response": "Let me add more detail.",
	})
	s.Equal(http.StatusConflict, recorder.Code)
}
