package api

import "strings"

// Param is a single request parameter. Params preserve insertion order so
// encoded requests are reproducible; net/url.Values would sort keys and
// encode spaces as '+', neither of which matches the service's expectations.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered parameter list.
type Params []Param

// Set replaces the value of an existing key, or appends the pair if the key
// is not present.
func (p *Params) Set(key, value string) {
	for i := range *p {
		if (*p)[i].Key == key {
			(*p)[i].Value = value
			return
		}
	}
	*p = append(*p, Param{Key: key, Value: value})
}

// Get returns the value for key, or "" if absent.
func (p Params) Get(key string) string {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value
		}
	}
	return ""
}

// Encode serializes the list as k1=v1&k2=v2 in insertion order. Values are
// percent-encoded per RFC 3986; keys are taken as-is (they are fixed
// protocol identifiers, never user input).
func (p Params) Encode() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for i, kv := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(kv.Key)
		b.WriteByte('=')
		b.WriteString(escape(kv.Value))
	}
	return b.String()
}

const upperhex = "0123456789ABCDEF"

// escape percent-encodes everything except RFC 3986 unreserved characters
// (ALPHA / DIGIT / "-" / "." / "_" / "~"). Spaces become %20, not '+'.
func escape(s string) string {
	hexCount := 0
	for i := 0; i < len(s); i++ {
		if !isUnreserved(s[i]) {
			hexCount++
		}
	}
	if hexCount == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*hexCount)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0xf])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	}
	return false
}
