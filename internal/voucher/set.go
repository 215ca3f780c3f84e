package voucher

import "strings"

// codeSet tracks voucher codes case-insensitively.
type codeSet map[string]struct{}

func newCodeSet(capacity int) codeSet {
	return make(codeSet, capacity)
}

// Add inserts the code and reports whether it was new.
func (s codeSet) Add(code string) bool {
	key := strings.ToUpper(code)
	if _, ok := s[key]; ok {
		return false
	}
	s[key] = struct{}{}
	return true
}

func (s codeSet) Contains(code string) bool {
	_, ok := s[strings.ToUpper(code)]
	return ok
}

func (s codeSet) Size() int {
	return len(s)
}
