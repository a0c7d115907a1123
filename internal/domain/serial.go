package domain

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// SerialUserBuckets is the modulus applied to a user id inside a serial
const SerialUserBuckets = 1000

// FormatSerial builds the printed serial of an owned copy:
// <card_number>-<unix seconds>-<user id mod 1000>. Non-numeric user ids are
// hashed first.
func FormatSerial(cardNumber string, at time.Time, userID string) string {
	n, err := strconv.ParseUint(userID, 10, 64)
	if err != nil {
		n = xxhash.Sum64String(userID)
	}
	return fmt.Sprintf("%s-%d-%d", cardNumber, at.Unix(), n%SerialUserBuckets)
}
