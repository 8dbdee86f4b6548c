package transactionsvc

import (
	"encoding/binary"

	"github.com/google/uuid"

	"github.com/ZeroFairy/kuenyawz-api/internal/entity"
)

var (
	txPrefix  = []byte("transaction/")
	refPrefix = []byte("transaction_ref/")
	accPrefix = []byte("transaction_account/")
)

func appendID(k []byte, id entity.ID) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return append(k, b[:]...)
}

// txKey is transaction/<id_be8>.
func txKey(id entity.ID) []byte {
	return appendID(append([]byte(nil), txPrefix...), id)
}

// refKey is transaction_ref/<uuid>; its value is the transaction id bytes.
func refKey(ref uuid.UUID) []byte {
	return append(append([]byte(nil), refPrefix...), ref.String()...)
}

// accountTxPrefix is transaction_account/<account_be8>/, the scan range of
// one account's transactions.
func accountTxPrefix(accountID entity.ID) []byte {
	k := appendID(append([]byte(nil), accPrefix...), accountID)
	return append(k, '/')
}

// accountTxKey is transaction_account/<account_be8>/<tx_be8>.
func accountTxKey(accountID, txID entity.ID) []byte {
	return appendID(accountTxPrefix(accountID), txID)
}

func idBytes(id entity.ID) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return b[:]
}

func idFromBytes(b []byte) entity.ID {
	if len(b) != 8 {
		return 0
	}
	return entity.ID(binary.BigEndian.Uint64(b))
}
