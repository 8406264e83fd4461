// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/christopherzulu0/Bixi-Road-sub001/internal/config"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/ledger"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/models"
)

// NotificationService delivers emails and admin notifications. Every Async
// method runs after the triggering transaction has committed and never
// reports failure to the caller; delivery problems are logged only.
type NotificationService struct {
	db  *gorm.DB
	cfg config.EmailConfig
}

func NewNotificationService(db *gorm.DB, cfg config.EmailConfig) *NotificationService {
	return &NotificationService{db: db, cfg: cfg}
}

// NotifyAdminsAsync records an in-app notification for the admin dashboard.
func (s *NotificationService) NotifyAdminsAsync(notifType, title, message, resourceType string, resourceID uuid.UUID) {
	go func() {
		notification := &models.AdminNotification{
			Type:                notifType,
			Title:               title,
			Message:             message,
			Priority:            "medium",
			Status:              "unread",
			RelatedResourceType: resourceType,
			RelatedResourceID:   &resourceID,
		}
		if err := s.db.Create(notification).Error; err != nil {
			logrus.WithError(err).Warn("Failed to create admin notification")
		}
	}()
}

func (s *NotificationService) SendApplicationApprovedAsync(application *models.SellerApplication) {
	go s.sendTemplated(application.Applicant.Email, "application_approved", map[string]interface{}{
		"Username":    application.Applicant.Username,
		"CompanyName": application.CompanyName,
	})
}

func (s *NotificationService) SendApplicationRejectedAsync(application *models.SellerApplication) {
	go s.sendTemplated(application.Applicant.Email, "application_rejected", map[string]interface{}{
		"Username": application.Applicant.Username,
		"Reason":   application.RejectionReason,
	})
}

func (s *NotificationService) SendListingApprovedAsync(listing *models.Listing) {
	go s.sendTemplated(listing.Seller.Email, "listing_approved", map[string]interface{}{
		"Username": listing.Seller.Username,
		"Title":    listing.Title,
	})
}

func (s *NotificationService) SendListingRejectedAsync(listing *models.Listing, reason string) {
	go s.sendTemplated(listing.Seller.Email, "listing_rejected", map[string]interface{}{
		"Username": listing.Seller.Username,
		"Title":    listing.Title,
		"Reason":   reason,
	})
}

// SendPurchaseNotificationsAsync emails the buyer a receipt and the seller a
// sale alert after a purchase commits.
func (s *NotificationService) SendPurchaseNotificationsAsync(txn *models.Transaction) {
	go func() {
		s.sendTemplated(txn.Buyer.Email, "purchase_receipt", map[string]interface{}{
			"Username": txn.Buyer.Username,
			"Code":     txn.Code,
			"Title":    txn.Listing.Title,
			"Quantity": ledger.FormatQuantity(txn.Quantity),
			"Total":    fmt.Sprintf("%.2f", txn.TotalAmount),
		})
		s.sendTemplated(txn.Seller.Email, "sale_alert", map[string]interface{}{
			"Username":       txn.Seller.Username,
			"Code":           txn.Code,
			"Title":          txn.Listing.Title,
			"Quantity":       ledger.FormatQuantity(txn.Quantity),
			"SellerReceives": fmt.Sprintf("%.2f", txn.SellerReceives),
		})
	}()
}

func (s *NotificationService) SendFundsReleasedAsync(txn *models.Transaction) {
	go s.sendTemplated(txn.Seller.Email, "funds_released", map[string]interface{}{
		"Username":       txn.Seller.Username,
		"Code":           txn.Code,
		"SellerReceives": fmt.Sprintf("%.2f", txn.SellerReceives),
	})
}

func (s *NotificationService) SendRefundIssuedAsync(txn *models.Transaction) {
	go s.sendTemplated(txn.Buyer.Email, "refund_issued", map[string]interface{}{
		"Username": txn.Buyer.Username,
		"Code":     txn.Code,
		"Total":    fmt.Sprintf("%.2f", txn.TotalAmount),
		"Reason":   txn.RefundReason,
	})
}

func (s *NotificationService) SendInquiryReceivedAsync(inquiry *models.Inquiry) {
	go s.sendTemplated(inquiry.Seller.Email, "inquiry_received", map[string]interface{}{
		"Username": inquiry.Seller.Username,
		"Title":    inquiry.Listing.Title,
		"Message":  inquiry.Message,
	})
}

func (s *NotificationService) SendInquiryResponseAsync(inquiry *models.Inquiry) {
	go s.sendTemplated(inquiry.Buyer.Email, "inquiry_response", map[string]interface{}{
		"Username": inquiry.Buyer.Username,
		"Title":    inquiry.Listing.Title,
		"Response": inquiry.Response,
	})
}

func (s *NotificationService) sendTemplated(to, templateName string, data map[string]interface{}) {
	if to == "" {
		return
	}
	if s.cfg.SMTPHost == "" {
		logrus.WithFields(logrus.Fields{"to": to, "template": templateName}).
			Debug("SMTP not configured, skipping email")
		return
	}

	subject, body, err := renderEmailTemplate(templateName, data)
	if err != nil {
		logrus.WithError(err).WithField("template", templateName).Warn("Failed to render email")
		return
	}

	if err := s.send(to, subject, body); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"to": to, "template": templateName}).
			Warn("Failed to send email")
	}
}

func (s *NotificationService) send(to, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)

	msg := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.cfg.FromName, s.cfg.FromEmail, to, subject, htmlBody)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	return smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{to}, []byte(msg))
}

type emailTemplate struct {
	Subject string
	Body    string
}

var emailTemplates = map[string]emailTemplate{
	"application_approved": {
		Subject: "Your seller application has been approved",
		Body:    `<h2>Congratulations {{.Username}}!</h2><p>Your application for <strong>{{.CompanyName}}</strong> has been approved. You can now create mineral listings.</p>`,
	},
	"application_rejected": {
		Subject: "Your seller application was not approved",
		Body:    `<h2>Hello {{.Username}},</h2><p>Your seller application was not approved.</p><p>Reason: {{.Reason}}</p><p>You may submit a new application with updated information.</p>`,
	},
	"listing_approved": {
		Subject: "Your listing has been approved",
		Body:    `<h2>Hello {{.Username}},</h2><p>Your listing <strong>{{.Title}}</strong> has been approved. Publish it to make it available to buyers.</p>`,
	},
	"listing_rejected": {
		Subject: "Your listing was not approved",
		Body:    `<h2>Hello {{.Username}},</h2><p>Your listing <strong>{{.Title}}</strong> was not approved.</p><p>Reason: {{.Reason}}</p>`,
	},
	"purchase_receipt": {
		Subject: "Purchase confirmation",
		Body:    `<h2>Thank you {{.Username}}!</h2><p>Your purchase of {{.Quantity}} x <strong>{{.Title}}</strong> is confirmed.</p><p>Order {{.Code}}, total {{.Total}}. Funds are held in escrow until you confirm delivery.</p>`,
	},
	"sale_alert": {
		Subject: "You made a sale",
		Body:    `<h2>Hello {{.Username}},</h2><p>{{.Quantity}} of <strong>{{.Title}}</strong> sold (order {{.Code}}).</p><p>You will receive {{.SellerReceives}} once the buyer confirms delivery.</p>`,
	},
	"funds_released": {
		Subject: "Escrow funds released",
		Body:    `<h2>Hello {{.Username}},</h2><p>The buyer confirmed delivery for order {{.Code}}. {{.SellerReceives}} has been released to you.</p>`,
	},
	"refund_issued": {
		Subject: "Your order has been refunded",
		Body:    `<h2>Hello {{.Username}},</h2><p>Order {{.Code}} has been refunded ({{.Total}}).</p><p>Reason: {{.Reason}}</p>`,
	},
	"inquiry_received": {
		Subject: "New inquiry about your listing",
		Body:    `<h2>Hello {{.Username}},</h2><p>A buyer asked about <strong>{{.Title}}</strong>:</p><blockquote>{{.Message}}</blockquote>`,
	},
	"inquiry_response": {
		Subject: "The seller responded to your inquiry",
		Body:    `<h2>Hello {{.Username}},</h2><p>The seller responded to your inquiry about <strong>{{.Title}}</strong>:</p><blockquote>{{.Response}}</blockquote>`,
	},
}

func renderEmailTemplate(name string, data map[string]interface{}) (string, string, error) {
	tmpl, ok := emailTemplates[name]
	if !ok {
		return "", "", fmt.Errorf("unknown email template: %s", name)
	}

	parsed, err := template.New(name).Parse(tmpl.Body)
	if err != nil {
		return "", "", err
	}

	var buf bytes.Buffer
	if err := parsed.Execute(&buf, data); err != nil {
		return "", "", err
	}
	return tmpl.Subject, buf.String(), nil
}
