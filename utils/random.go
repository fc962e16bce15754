package utils

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/manx98/helperkit/logger"
	"go.uber.org/zap"
)

// Reader is the entropy source shared by every generator. It must be safe
// for concurrent use.
var Reader io.Reader = rand.Reader

// untilSuccess calls fn until it returns nil. There is no limit and no
// backoff, so a source that never recovers blocks the caller forever.
func untilSuccess(fn func() error) {
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return
		}
		logger.Debug("entropy source failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
	}
}

func randomBytes(buf []byte) {
	untilSuccess(func() error {
		_, err := io.ReadFull(Reader, buf)
		return err
	})
}

// randomBelow returns a uniform value in [0, max).
func randomBelow(max *big.Int) (n *big.Int) {
	untilSuccess(func() (err error) {
		n, err = rand.Int(Reader, max)
		return
	})
	return
}

// randomInRange returns a uniform value in [lo, hi].
func randomInRange(lo, hi *big.Int) *big.Int {
	span := new(big.Int).Sub(hi, lo)
	span.Add(span, big.NewInt(1))
	n := randomBelow(span)
	return n.Add(n, lo)
}
