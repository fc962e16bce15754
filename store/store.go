// Package store keeps issued values in a bbolt file so that they are never handed out twice.
package store

import (
	"encoding/binary"
	"fmt"
	"syscall"

	"go.etcd.io/bbolt"
)

var db *bbolt.DB

const (
	UUIDBucketName = "uuid"
	CodeBucketName = "code"
	IDBucketName   = "id"
	SeqBucketName  = "SEQ"
)

var buckets = []string{UUIDBucketName, CodeBucketName, IDBucketName}

func Init(dbFile string) (err error) {
	db, err = bbolt.Open(dbFile, 0o600, &bbolt.Options{
		NoSync: true,
	})
	if err != nil {
		return fmt.Errorf("create db: %w", err)
	}
	if _, err = LastSeq(); err != nil {
		return fmt.Errorf("get last sequence: %w", err)
	}
	err = db.Batch(func(tx *bbolt.Tx) error {
		for _, name := range buckets {
			if _, cErr := tx.CreateBucketIfNotExists([]byte(name)); cErr != nil {
				return fmt.Errorf("create %s bucket: %w", name, cErr)
			}
		}
		return nil
	})
	return
}

// Insert stores data under key and fails with EEXIST if key was issued before.
func Insert(tx *bbolt.Tx, bucketName, key string, data []byte) error {
	bucket := tx.Bucket([]byte(bucketName))
	if bucket == nil {
		return fmt.Errorf("%s bucket not exist: %w", bucketName, syscall.ENOENT)
	}
	if bucket.Get([]byte(key)) != nil {
		return syscall.EEXIST
	}
	return bucket.Put([]byte(key), data)
}

func Get(bucketName, key string) (data []byte, err error) {
	err = db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket == nil {
			return syscall.ENOENT
		}
		value := bucket.Get([]byte(key))
		if value == nil {
			return syscall.ENOENT
		}
		data = append([]byte(nil), value...)
		return nil
	})
	return
}

func Delete(bucketName, key string) error {
	return db.Batch(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(key))
	})
}

// ForEach walks bucketName in key order. The slices are only valid inside fn.
func ForEach(bucketName string, fn func(key, data []byte) error) error {
	return db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket == nil {
			return syscall.ENOENT
		}
		return bucket.ForEach(fn)
	})
}

func LastSeq() (seq uint64, err error) {
	err = db.Batch(func(tx *bbolt.Tx) error {
		bucket, cErr := tx.CreateBucketIfNotExists([]byte(SeqBucketName))
		if cErr != nil {
			return cErr
		}
		if data := bucket.Get([]byte(SeqBucketName)); data != nil {
			seq = binary.BigEndian.Uint64(data)
		}
		return nil
	})
	return
}

// NextSeq reserves the next sequence number inside tx.
func NextSeq(tx *bbolt.Tx) (uint64, error) {
	bucket := tx.Bucket([]byte(SeqBucketName))
	if bucket == nil {
		return 0, fmt.Errorf("%s bucket not exist: %w", SeqBucketName, syscall.EIO)
	}
	var seq uint64
	if data := bucket.Get([]byte(SeqBucketName)); data != nil {
		seq = binary.BigEndian.Uint64(data)
	}
	seq++
	return seq, bucket.Put([]byte(SeqBucketName), binary.BigEndian.AppendUint64([]byte{}, seq))
}

func Sync() error {
	return db.Sync()
}

func Close() {
	if db != nil {
		_ = db.Close()
		db = nil
	}
}

func Batch(fn func(*bbolt.Tx) error) error {
	return db.Batch(fn)
}


func Update(fn func(*bbolt.Tx) error) error {
	return db.Update(fn)
}
