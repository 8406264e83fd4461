// internal/i18n/keys.go
package i18n

// Message keys used across handlers and services.
const (
	MsgSuccess       = "common.success"
	MsgCreated       = "common.created"
	MsgBadRequest    = "common.bad_request"
	MsgUnauthorized  = "common.unauthorized"
	MsgForbidden     = "common.forbidden"
	MsgNotFound      = "common.not_found"
	MsgConflict      = "common.conflict"
	MsgInternalError = "common.internal_error"

	MsgApplicationSubmitted = "application.submitted"
	MsgApplicationApproved  = "application.approved"
	MsgApplicationRejected  = "application.rejected"

	MsgListingCreated   = "listing.created"
	MsgListingApproved  = "listing.approved"
	MsgListingRejected  = "listing.rejected"
	MsgListingPublished = "listing.published"

	MsgPurchaseComplete  = "transaction.purchase_complete"
	MsgDeliveryConfirmed = "transaction.delivery_confirmed"
	MsgRefundIssued      = "transaction.refund_issued"

	MsgInquirySent      = "inquiry.sent"
	MsgInquiryResponded = "inquiry.responded"
)
