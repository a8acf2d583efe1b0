package checkout

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	DefaultCountryCode = "91"
	messagingBase      = "https://wa.me/"
	// digits in a national number, after the country code
	nationalLength = 10
)

var phoneNoise = regexp.MustCompile(`[\s\-()]`)

// NormalizePhone turns a hand-typed number into the digits-only
// international form the messaging link expects, using the default
// country code.
func NormalizePhone(raw string) string {
	return normalizePhone(raw, DefaultCountryCode)
}

func normalizePhone(raw, countryCode string) string {
	phone := phoneNoise.ReplaceAllString(raw, "")
	switch {
	case phone == "":
		return ""
	case strings.HasPrefix(phone, "+"):
		return phone[1:]
	case strings.HasPrefix(phone, "0"):
		return countryCode + phone[1:]
	case !strings.HasPrefix(phone, countryCode) || len(phone) < len(countryCode)+nationalLength:
		return countryCode + phone
	}
	return phone
}

// Link builds the outbound chat link for phone with text prefilled.
func Link(phone, text string) string {
	return link(NormalizePhone(phone), text)
}

func link(normalized, text string) string {
	return messagingBase + normalized + "?text=" + encodeText(text)
}

// encodeText percent-encodes text for a query value, spaces as %20.
func encodeText(text string) string {
	return strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}
