package wompi

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// IntegrityHash signs the transaction parameters the gateway authenticates
// against: the hex-encoded sha256 digest of reference+amount+currency+secret,
// with the amount rendered as its minor-unit integer. The expiration argument
// is part of the gateway contract but unused by the checkout flow.
func IntegrityHash(reference string, amountCents int64, currency, secret, expiration string) string {
	_ = expiration
	msg := reference + strconv.FormatInt(amountCents, 10) + currency + secret
	sum := sha256.Sum256([]byte(msg))
	return hex.EncodeToString(sum[:])
}
