package events

import (
	"strconv"

	"github.com/jiangplus/nostr-snap/engine/library"
)

// Serialize returns the canonical serialization of u, the preimage of its id:
//
//	[0,<pubkey>,<created_at>,<kind>,<tags>,<content>]
//
// as compact UTF-8 JSON. Strings are escaped the way JSON.stringify escapes
// them, so independent implementations produce identical bytes.
func Serialize(u UnsignedEvent) ([]byte, error) {
	if err := u.check(); err != nil {
		return nil, err
	}
	return u.appendCanonical(make([]byte, 0, 100+len(u.Content)+32*len(u.Tags))), nil
}

// DeriveID returns the lowercase hex sha256 of the canonical serialization of u.
func DeriveID(u UnsignedEvent) (string, error) {
	b, err := Serialize(u)
	if err != nil {
		return "", err
	}
	return library.Sha256Sum(b), nil
}

func (u UnsignedEvent) appendCanonical(dst []byte) []byte {
	// pubkey has already been checked to be lowercase hex.
	dst = append(dst, `[0,"`...)
	dst = append(dst, u.PubKey...)
	dst = append(dst, `",`...)
	dst = strconv.AppendInt(dst, int64(u.CreatedAt), 10)
	dst = append(dst, ',')
	dst = strconv.AppendInt(dst, int64(u.Kind), 10)
	dst = append(dst, ',')
	dst = u.Tags.appendJSON(dst)
	dst = append(dst, ',')
	dst = appendString(dst, u.Content)
	return append(dst, ']')
}

func (tags Tags) appendJSON(dst []byte) []byte {
	dst = append(dst, '[')
	for i, tag := range tags {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = append(dst, '[')
		for j, s := range tag {
			if j > 0 {
				dst = append(dst, ',')
			}
			dst = appendString(dst, s)
		}
		dst = append(dst, ']')
	}
	return append(dst, ']')
}

// appendString writes s as a JSON string. Only quote, backslash and bytes
// below 0x20 are escaped; everything else, including non-ASCII, is copied.
func appendString(dst []byte, s string) []byte {
	const hexDigits = "0123456789abcdef"
	dst = append(dst, '"')
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		dst = append(dst, s[start:i]...)
		switch c {
		case '"', '\\':
			dst = append(dst, '\\', c)
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		}
		start = i + 1
	}
	dst = append(dst, s[start:]...)
	return append(dst, '"')
}
