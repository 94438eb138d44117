package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid checks that the address has a domain part that
// actually resolves (MX, or A/AAAA as fallback). Syntax is already
// covered by the binding tag; this catches typo'd domains at signup.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := strings.ToLower(email[at+1:])
	if !strings.Contains(domain, ".") {
		return false
	}

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
