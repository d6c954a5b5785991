package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/mejor-tasa/tasas/banks"
	"github.com/mejor-tasa/tasas/types"
)

// SHA256Hex returns the hex-encoded SHA-256 digest of the given content.
// Used to fingerprint fetched documents for change detection
func SHA256Hex(content []byte) string {
	sum := sha256.Sum256(content)

	return hex.EncodeToString(sum[:])
}

// GenerateOfferID derives a stable 16-hex-char id from the offer's
// discriminating fields. Identical tuples collapse to the same id across
// runs; a changed rate_from yields a new id, so a rate change produces a
// new offer rather than an update
func GenerateOfferID(
	id banks.ID,
	product types.ProductType,
	currency types.CurrencyIndex,
	segment types.Segment,
	channel types.Channel,
	rateFrom float64,
) string {
	key := strings.Join(
		[]string{
			id.String(),
			product.String(),
			currency.String(),
			segment.String(),
			channel.String(),
			strconv.FormatFloat(rateFrom, 'f', -1, 64),
		},
		"|",
	)

	return SHA256Hex([]byte(key))[:16]
}
