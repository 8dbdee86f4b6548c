package catalogsvc

import (
	"encoding/binary"

	"github.com/ZeroFairy/kuenyawz-api/internal/entity"
)

var productPrefix = []byte("product/")

// productKey is product/<id_be8>.
func productKey(id entity.ID) []byte {
	k := make([]byte, 0, len(productPrefix)+8)
	k = append(k, productPrefix...)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return append(k, b[:]...)
}
