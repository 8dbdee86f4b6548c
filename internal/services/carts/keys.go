package cartsvc

import (
	"encoding/binary"

	"github.com/ZeroFairy/kuenyawz-api/internal/entity"
)

var cartPrefix = []byte("cart_item/")

func appendID(k []byte, id entity.ID) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return append(k, b[:]...)
}

// accountCartPrefix is cart_item/<account_be8>/, the scan range of one
// account's cart.
func accountCartPrefix(accountID entity.ID) []byte {
	k := make([]byte, 0, len(cartPrefix)+9)
	k = appendID(append(k, cartPrefix...), accountID)
	return append(k, '/')
}

// cartItemKey is cart_item/<account_be8>/<item_be8>.
func cartItemKey(accountID, itemID entity.ID) []byte {
	return appendID(accountCartPrefix(accountID), itemID)
}
