package normalize

import "strings"

// FrenchContact guesses whether a contact's coordinates belong to France.
// French dial prefixes and .fr mail domains are accepted outright; generic
// international TLDs are accepted too because the companies being prospected
// are French, so a .com mailbox is most likely theirs. Only a clearly foreign
// dial prefix, or the absence of any coordinate, rejects.
//
// The pipeline does not apply this filter: prospecting is scoped to French
// companies already, so dropping the rare foreign mailbox would lose more
// signal than it removes noise. The heuristic is kept available for callers
// that post-process exported contact lists.
func FrenchContact(email, phone string) bool {
	if phone != "" {
		digits := strings.Map(keepDigit, phone)
		if strings.HasPrefix(digits, "33") || (len(digits) >= 2 && digits[0] == '0' && digits[1] >= '1' && digits[1] <= '9') {
			return true
		}
		if len(digits) > 6 {
			return false
		}
	}

	if email != "" {
		lower := strings.ToLower(email)
		for _, tld := range []string{".fr", ".gouv.fr", ".com.fr", ".co.fr", ".com", ".net", ".org", ".biz"} {
			if strings.HasSuffix(lower, tld) {
				return true
			}
		}
	}

	if email == "" && phone == "" {
		return false
	}
	if email != "" && phone == "" {
		return true
	}
	return true
}
