package random

import (
	crand "crypto/rand"
	"encoding/binary"
	mrand "math/rand"
	"time"
)

const (
	charset      = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	upperCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

func init() {
	var b [8]byte
	_, err := crand.Read(b[:])
	if err != nil {
		mrand.Seed(time.Now().UnixNano())
		return
	}
	mrand.Seed(int64(binary.LittleEndian.Uint64(b[:])))
}

func String(length int) string {
	return draw(charset, length)
}

// StringUpper draws only digits and uppercase letters, for identifiers meant
// to be read back by humans.
func StringUpper(length int) string {
	return draw(upperCharset, length)
}

func draw(charset string, length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[mrand.Intn(len(charset))]
	}
	return string(b)
}
