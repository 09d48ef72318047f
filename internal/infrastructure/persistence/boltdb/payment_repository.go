// Package boltdb keeps payments in an embedded bolt file. Keys are the
// big-endian (createdAt, id) pair so bucket order equals keyset order and
// pages are read by walking a cursor backwards.
package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/boltdb/bolt"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/payment"
)

var paymentsBucket = []byte("payments")

type PaymentRepository struct {
	db *bolt.DB
}

func Open(path string) (*bolt.DB, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(paymentsBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func NewPaymentRepository(db *bolt.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// key flips the sign bit of the nanosecond timestamp so negative instants
// still sort before positive ones as unsigned bytes.
func key(createdAt time.Time, id int64) []byte {
	k := make([]byte, 16)
	binary.BigEndian.PutUint64(k[:8], uint64(createdAt.UnixNano())^(1<<63))
	binary.BigEndian.PutUint64(k[8:], uint64(id))
	return k
}

func (r *PaymentRepository) Save(_ context.Context, p *payment.Payment) (*payment.Payment, error) {
	saved := *p

	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(paymentsBucket)

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		saved.ID = int64(seq)

		data, err := json.Marshal(toRecord(&saved))
		if err != nil {
			return err
		}
		return b.Put(key(saved.CreatedAt, saved.ID), data)
	})
	if err != nil {
		return nil, fmt.Errorf("save payment: %w", err)
	}

	return &saved, nil
}

func (r *PaymentRepository) FindBy(_ context.Context, q payment.Query) (payment.Page, error) {
	var out []payment.Payment

	err := r.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(paymentsBucket).Cursor()

		var k, v []byte
		if q.HasCursor() {
			// Seek lands on the cursor key itself or the first key above
			// it; either way the previous entry is the first candidate.
			k, _ = c.Seek(key(*q.CursorCreatedAt, *q.CursorID))
			if k == nil {
				k, v = c.Last()
			} else {
				k, v = c.Prev()
			}
		} else {
			k, v = c.Last()
		}

		for ; k != nil && len(out) <= q.Limit; k, v = c.Prev() {
			p, err := decode(v)
			if err != nil {
				return err
			}
			if q.Matches(&p) && q.After(&p) {
				out = append(out, p)
			}
		}
		return nil
	})
	if err != nil {
		return payment.Page{}, fmt.Errorf("query payments: %w", err)
	}

	return payment.NewPage(out, q.Limit), nil
}

func (r *PaymentRepository) Summary(_ context.Context, f payment.Filter) (payment.Summary, error) {
	var s payment.Summary

	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(paymentsBucket).ForEach(func(_, v []byte) error {
			p, err := decode(v)
			if err != nil {
				return err
			}
			if f.Matches(&p) {
				s.Add(&p)
			}
			return nil
		})
	})
	if err != nil {
		return payment.Summary{}, fmt.Errorf("summarize payments: %w", err)
	}

	return s, nil
}
