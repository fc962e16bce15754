// Package issuemgr hands out generated values that have never been issued before.
package issuemgr

import (
	"bytes"
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"syscall"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/manx98/helperkit/logger"
	"github.com/manx98/helperkit/store"
	"github.com/manx98/helperkit/utils"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Kind selects the generator behind an issued value.
type Kind string

const (
	KindUUID Kind = "uuid"
	KindCode Kind = "code"
	KindID   Kind = "id"
)

// MaxCollisions bounds how many already issued values Issue draws before giving up.
const MaxCollisions = 1000

var (
	// ErrUnknownKind is returned for kinds other than uuid, code and id.
	ErrUnknownKind = errors.New("unknown kind")
	ErrExhausted   = errors.New("no unissued value left")
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindUUID, KindCode, KindID:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) bucket() string {
	switch k {
	case KindCode:
		return store.CodeBucketName
	case KindID:
		return store.IDBucketName
	}
	return store.UUIDBucketName
}

// DefaultLength is the length used when the caller passes 0.
func (k Kind) DefaultLength() int {
	switch k {
	case KindCode:
		return utils.DefaultNumericCodeLength
	case KindID:
		return utils.DefaultNumericIDLength
	}
	return 0
}

func (k Kind) generate(length int) (string, error) {
	switch k {
	case KindUUID:
		return utils.NewUUIDv4(), nil
	case KindCode:
		code, err := utils.NumericCode(length)
		if err != nil {
			return "", err
		}
		return fmt.Sprint(code), nil
	case KindID:
		return utils.NumericID(length)
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
}

// Record is an issued value
type Record struct {
	Value       string `json:"value"`
	Kind        Kind   `json:"kind"`
	Seq         uint64 `json:"seq"`
	CreatorName string `json:"creator_name,omitempty"`
	Desc        string `json:"description,omitempty"`
	Ctime       int64  `json:"ctime"`
	Checksum    string `json:"checksum"`
}

// NewRecord initializes a Record object.
func NewRecord(kind Kind, value, user, desc string) *Record {
	record := new(Record)
	record.Kind = kind
	record.Value = value
	record.CreatorName = user
	record.Desc = desc
	record.Ctime = time.Now().Unix()
	return record
}

func computeChecksum(record *Record) string {
	hash := sha1.New()
	hash.Write([]byte(record.Kind))
	hash.Write([]byte(record.Value))
	hash.Write([]byte(record.CreatorName))
	hash.Write([]byte(record.Desc))
	tmpBuf := make([]byte, 16)
	binary.BigEndian.PutUint64(tmpBuf, record.Seq)
	binary.BigEndian.PutUint64(tmpBuf[8:], uint64(record.Ctime))
	hash.Write(tmpBuf)

	checkSum := hash.Sum(nil)
	return hex.EncodeToString(checkSum[:])
}

// Verify reports whether the checksum matches the record's fields.
func (record *Record) Verify() bool {
	return record.Checksum == computeChecksum(record)
}

// ToData converts record to JSON-encoded data and writes to w.
func (record *Record) ToData(w io.Writer) error {
	jsonstr, err := json.Marshal(record)
	if err != nil {
		return err
	}

	_, err = w.Write(jsonstr)
	return err
}

// FromData reads a JSON-encoded record from r.
func FromData(r io.Reader) (*Record, error) {
	record := new(Record)
	if err := json.NewDecoder(r).Decode(record); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return record, nil
}

func save(tx *bbolt.Tx, record *Record) error {
	seq, err := store.NextSeq(tx)
	if err != nil {
		return err
	}
	record.Seq = seq
	record.Checksum = computeChecksum(record)
	var buf bytes.Buffer
	if err = record.ToData(&buf); err != nil {
		return err
	}
	return store.Insert(tx, record.Kind.bucket(), record.Value, buf.Bytes())
}

// Issue generates a value of kind that is not yet in the ledger, records it
// and returns the stored record. A length of 0 picks the kind's default.
func Issue(kind Kind, length int, user, desc string) (record *Record, err error) {
	if length == 0 {
		length = kind.DefaultLength()
	}
	for collisions := 0; collisions < MaxCollisions; collisions++ {
		value, gErr := kind.generate(length)
		if gErr != nil {
			return nil, gErr
		}
		record = NewRecord(kind, value, user, desc)
		err = store.Update(func(tx *bbolt.Tx) error {
			return save(tx, record)
		})
		if err != nil {
			if errors.Is(err, syscall.EEXIST) {
				logger.Debug("value already issued, drawing again", zap.String("kind", string(kind)), zap.String("value", value))
				continue
			}
			return nil, fmt.Errorf("save %s record: %w", kind, err)
		}
		logger.Info("issued value", zap.String("kind", string(kind)), zap.Uint64("seq", record.Seq))
		return
	}
	return nil, fmt.Errorf("%s of length %d: %w", kind, length, ErrExhausted)
}

// Get loads the record for a previously issued value.
func Get(kind Kind, value string) (*Record, error) {
	data, err := store.Get(kind.bucket(), value)
	if err != nil {
		return nil, err
	}
	return FromData(bytes.NewReader(data))
}

// List returns every record of kind ordered by value.
func List(kind Kind) (records []*Record, err error) {
	err = store.ForEach(kind.bucket(), func(key, data []byte) error {
		record, dErr := FromData(bytes.NewReader(data))
		if dErr != nil {
			return fmt.Errorf("%s %s: %w", kind, key, dErr)
		}
		records = append(records, record)
		return nil
	})
	return
}
