package baidu

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Characters left as-is on top of ASCII letters, digits and "-_.~".
const safeChars = "/:=&?#+!$,;'@()*[]"

const upperHex = "0123456789ABCDEF"

// Quote percent-encodes s byte by byte (UTF-8), keeping unreserved
// characters and safeChars unescaped.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if keep(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}
	return b.String()
}

func keep(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.' || c == '~':
		return true
	}
	return strings.IndexByte(safeChars, c) >= 0
}

// Signer builds authenticated request URLs for the map API.
//
// The checksum ("sn") is the hex MD5 of the query-escaped string formed by
// the encoded path+query followed by the secret key.
type Signer struct {
	host      string
	secretKey string
	now       func() time.Time
}

func NewSigner(host, secretKey string, now func() time.Time) *Signer {
	if now == nil {
		now = time.Now
	}
	return &Signer{
		host:      strings.TrimRight(host, "/"),
		secretKey: secretKey,
		now:       now,
	}
}

// Sign substitutes args into template and returns the full signed URL.
func (s *Signer) Sign(template string, args ...any) string {
	encoded := Quote(fmt.Sprintf(template, args...))
	return s.host + encoded + "&sn=" + checksum(encoded, s.secretKey)
}

// Timestamp returns the current Unix time of the signer's clock.
func (s *Signer) Timestamp() string {
	return strconv.FormatInt(s.now().Unix(), 10)
}

func checksum(encoded, secretKey string) string {
	sum := md5.Sum([]byte(url.QueryEscape(encoded + secretKey)))
	return hex.EncodeToString(sum[:])
}
