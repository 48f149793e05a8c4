package cart

import (
	"crypto/sha256"
	"encoding/hex"
)

const identitySeparator = "::"

// IdentityKey derives the merge key of a cart line from its product and
// customization notes. Lines without notes are keyed by the product id alone;
// any difference in notes, whitespace included, yields a different key.
func IdentityKey(productID, notes string) string {
	if notes == "" {
		return productID
	}
	sum := sha256.Sum256([]byte(notes))
	return productID + identitySeparator + hex.EncodeToString(sum[:8])
}
