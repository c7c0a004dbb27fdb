package intake

import (
	"regexp"
	"strings"
)

var (
	phoneCandidateRe = regexp.MustCompile(`\+?[0-9][0-9\s\-()._]{5,}[0-9]`)
	bracketAddrRe    = regexp.MustCompile(`<([^>]+)>`)
)

const (
	minPhoneDigits = 7
	maxPhoneDigits = 15
)

// Identity is the derived key set used to detect resubmission. Name keeps its
// original casing; comparisons go through the Normal* accessors.
type Identity struct {
	MessageID string
	Name      string
	Email     string
	Phone     string
}

// DeriveIdentity builds the identity key set for a message. The resume email
// wins over the From header; a header without an angle-bracket address
// degrades to the raw header string, which is acceptable because the phone
// and message-id keys remain as fallback dedup paths.
func DeriveIdentity(messageID, from string, fields *ResumeFields) Identity {
	email := ""
	name := ""
	phone := ""
	if fields != nil {
		email = strings.TrimSpace(fields.Email)
		name = strings.TrimSpace(fields.Name)
		phone = ExtractPhone(fields.FullText)
	}
	if email == "" {
		email = addressFromHeader(from)
	}

	return Identity{
		MessageID: messageID,
		Name:      name,
		Email:     email,
		Phone:     phone,
	}
}

// NormalName returns the name key: trimmed and lower-cased.
func (id Identity) NormalName() string {
	return strings.ToLower(strings.TrimSpace(id.Name))
}

// NormalEmail returns the email key: trimmed and lower-cased.
func (id Identity) NormalEmail() string {
	return strings.ToLower(strings.TrimSpace(id.Email))
}

// ExtractPhone scans free text for phone-number candidates and returns the
// best normalized one: digits only, optionally keeping a leading +, between 7
// and 15 digits. A +-prefixed candidate wins over any other; otherwise the
// longest valid candidate is chosen. Returns "" when nothing qualifies.
func ExtractPhone(text string) string {
	candidates := phoneCandidateRe.FindAllString(text, -1)

	valid := make([]string, 0, len(candidates))
	for _, c := range candidates {
		n := normalizePhone(c)
		if n == "" {
			continue
		}
		valid = append(valid, n)
	}

	best := ""
	for _, n := range valid {
		if strings.HasPrefix(n, "+") {
			return n
		}
		if len(n) > len(best) {
			best = n
		}
	}
	return best
}

// NormalizePhone reduces an already-chosen phone value to its comparison
// form. Unlike ExtractPhone it does not search, it only strips and validates.
func NormalizePhone(phone string) string {
	return normalizePhone(phone)
}

func normalizePhone(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	n := b.String()
	digits := len(strings.TrimPrefix(n, "+"))
	if digits < minPhoneDigits || digits > maxPhoneDigits {
		return ""
	}
	return n
}

func addressFromHeader(from string) string {
	if m := bracketAddrRe.FindStringSubmatch(from); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(from)
}

// FirstName returns the first whitespace-delimited token of a full name, used
// for the acknowledgment greeting. Blank names yield "".
func FirstName(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}
