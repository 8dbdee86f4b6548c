package accountsvc

import (
	"encoding/binary"

	"github.com/ZeroFairy/kuenyawz-api/internal/entity"
)

var (
	accountPrefix = []byte("account/")
	emailPrefix   = []byte("account_email/")
)

// accountKey is account/<id_be8>; big-endian keeps scans in id (and thus
// creation) order.
func accountKey(id entity.ID) []byte {
	k := make([]byte, 0, len(accountPrefix)+8)
	k = append(k, accountPrefix...)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return append(k, b[:]...)
}

// emailKey is account_email/<email> -> id_be8.
func emailKey(email string) []byte {
	k := make([]byte, 0, len(emailPrefix)+len(email))
	k = append(k, emailPrefix...)
	return append(k, email...)
}

func idBytes(id entity.ID) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return b[:]
}

func idFromBytes(b []byte) (entity.ID, bool) {
	if len(b) != 8 {
		return 0, false
	}
	return entity.ID(binary.BigEndian.Uint64(b)), true
}
