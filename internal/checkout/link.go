package checkout

import (
	"net/url"
	"strings"
)

// Link builds the WhatsApp deep link for a pre-filled message. The phone
// number is reduced to its digits; no further validation happens here.
func Link(phone, message string) string {
	return "https://api.whatsapp.com/send?phone=" + digits(phone) + "&text=" + url.QueryEscape(message)
}

func digits(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
