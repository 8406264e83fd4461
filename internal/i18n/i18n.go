// internal/i18n/i18n.go
package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultLanguage is used when a request carries no usable Accept-Language.
const DefaultLanguage = "en"

var (
	mu           sync.RWMutex
	translations = map[string]map[string]string{
		"en": englishMessages,
	}
)

var englishMessages = map[string]string{
	MsgSuccess:       "Success",
	MsgCreated:       "Created",
	MsgBadRequest:    "Invalid request",
	MsgUnauthorized:  "Authentication required",
	MsgForbidden:     "You do not have permission to perform this action",
	MsgNotFound:      "Resource not found",
	MsgConflict:      "The request conflicts with the current state",
	MsgInternalError: "An internal error occurred",

	MsgApplicationSubmitted: "Seller application submitted",
	MsgApplicationApproved:  "Seller application approved",
	MsgApplicationRejected:  "Seller application rejected",

	MsgListingCreated:   "Listing created and queued for review",
	MsgListingApproved:  "Listing approved",
	MsgListingRejected:  "Listing rejected",
	MsgListingPublished: "Listing is now live",

	MsgPurchaseComplete:  "Purchase complete, funds held in escrow",
	MsgDeliveryConfirmed: "Delivery confirmed, funds released to seller",
	MsgRefundIssued:      "Refund issued",

	MsgInquirySent:      "Inquiry sent to seller",
	MsgInquiryResponded: "Response sent to buyer",
}

// LoadLocaleFiles merges any JSON locale files found in dir over the
// embedded English defaults. Missing dir is not an error.
func LoadLocaleFiles(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		lang := strings.TrimSuffix(entry.Name(), ".json")
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			logrus.Warnf("Failed to read locale file %s: %v", entry.Name(), err)
			continue
		}
		var messages map[string]string
		if err := json.Unmarshal(data, &messages); err != nil {
			logrus.Warnf("Failed to parse locale file %s: %v", entry.Name(), err)
			continue
		}

		mu.Lock()
		existing, ok := translations[lang]
		if !ok {
			existing = make(map[string]string, len(messages))
			translations[lang] = existing
		}
		for k, v := range messages {
			existing[k] = v
		}
		mu.Unlock()
	}

	return nil
}

// T translates key for lang, falling back to English, then to the key itself.
// Optional args are interpolated with fmt.Sprintf.
func T(lang, key string, args ...interface{}) string {
	mu.RLock()
	defer mu.RUnlock()

	msg := lookup(lang, key)
	if msg == "" {
		msg = lookup(DefaultLanguage, key)
	}
	if msg == "" {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

func lookup(lang, key string) string {
	if messages, ok := translations[lang]; ok {
		if msg, ok := messages[key]; ok {
			return msg
		}
	}
	return ""
}

// ParseAcceptLanguage picks the first supported language from an
// Accept-Language header value.
func ParseAcceptLanguage(header string) string {
	if header == "" {
		return DefaultLanguage
	}

	mu.RLock()
	defer mu.RUnlock()

	for _, part := range strings.Split(header, ",") {
		lang := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if lang == "" {
			continue
		}
		// Exact match first, then the primary subtag.
		if _, ok := translations[lang]; ok {
			return lang
		}
		if idx := strings.Index(lang, "-"); idx > 0 {
			if _, ok := translations[lang[:idx]]; ok {
				return lang[:idx]
			}
		}
	}
	return DefaultLanguage
}
