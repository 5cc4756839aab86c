package transaction

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/speps/go-hashids/v2"
)

const referencePrefix = "TXN"

var refHash *hashids.HashID

func init() {
	hd := hashids.NewData()
	hd.Salt = "roamsim-transaction-reference"
	hd.MinLength = 8
	var err error
	refHash, err = hashids.NewWithData(hd)
	if err != nil {
		panic(err)
	}
}

// NewReference produces the human-readable journal id, e.g.
// TXN-20250901-QX4R8KJZ. The date code keeps support lookups cheap and
// the hashid suffix carries the randomness.
func NewReference(at time.Time) string {
	suffix, err := refHash.EncodeInt64([]int64{rand.Int63n(1 << 40)})
	if err != nil {
		// EncodeInt64 only fails on negative input, which Int63n rules out.
		panic(err)
	}
	return fmt.Sprintf("%s-%s-%s", referencePrefix, at.Format("20060102"), suffix)
}
