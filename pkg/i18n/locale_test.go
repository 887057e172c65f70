package i18n

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLocale(t *testing.T) {
	cases := []struct {
		in   string
		want Locale
		ok   bool
	}{
		{"ru", RU, true},
		{"UZ", UZ, true},
		{"en-US", EN, true},
		{"ru-RU", RU, true},
		{"uz-Latn-UZ", UZ, true},
		{"", "", false},
		{"not a tag!", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseLocale(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, tc.in)
		}
	}
}

func TestNegotiate(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/news?lang=uz", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	assert.Equal(t, UZ, Negotiate(req), "query param имеет приоритет")

	req = httptest.NewRequest("GET", "/api/news", nil)
	req.Header.Set(LangHeader, "en")
	req.Header.Set("Accept-Language", "uz")
	assert.Equal(t, EN, Negotiate(req))

	req = httptest.NewRequest("GET", "/api/news", nil)
	req.Header.Set("Accept-Language", "en-GB,en;q=0.8")
	assert.Equal(t, EN, Negotiate(req))

	req = httptest.NewRequest("GET", "/api/news", nil)
	assert.Equal(t, Default, Negotiate(req))
	assert.Equal(t, Default, Negotiate(nil))
}

func TestContextLocale(t *testing.T) {
	ctx := WithLocale(context.Background(), EN)
	assert.Equal(t, EN, FromContext(ctx))
	assert.Equal(t, Default, FromContext(context.Background()))
}
