// internal/i18n/i18n_test.go
package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslateKnownKey(t *testing.T) {
	assert.Equal(t, "Listing is now live", T("en", MsgListingPublished))
}

func TestTranslateUnknownLanguageFallsBack(t *testing.T) {
	assert.Equal(t, "Listing is now live", T("sw", MsgListingPublished))
}

func TestTranslateUnknownKeyReturnsKey(t *testing.T) {
	assert.Equal(t, "no.such.key", T("en", "no.such.key"))
}

func TestParseAcceptLanguage(t *testing.T) {
	assert.Equal(t, "en", ParseAcceptLanguage(""))
	assert.Equal(t, "en", ParseAcceptLanguage("en-US,en;q=0.9"))
	assert.Equal(t, "en", ParseAcceptLanguage("fr-FR,fr;q=0.9"))
}
