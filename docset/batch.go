package docset

import (
	"context"
	"time"
)

type BatchOpKind int

const (
	batchPut BatchOpKind = iota
	batchDelete
)

type BatchOp[T any] struct {
	Kind BatchOpKind
	Key  string
	Doc  T        // for put
	Tags []string // for put
}

// Batch queues upserts and deletes that a Store applies in one transaction.
type Batch[T any] struct {
	ops []BatchOp[T]
}

func NewBatch[T any]() *Batch[T] {
	return &Batch[T]{ops: make([]BatchOp[T], 0)}
}

func (b *Batch[T]) Put(key string, doc T, tags ...string) error {
	if key == "" {
		return SchemaError("key cannot be empty")
	}
	b.ops = append(b.ops, BatchOp[T]{Kind: batchPut, Key: key, Doc: doc, Tags: tags})
	return nil
}

func (b *Batch[T]) Delete(key string) error {
	if key == "" {
		return SchemaError("key cannot be empty")
	}
	b.ops = append(b.ops, BatchOp[T]{Kind: batchDelete, Key: key})
	return nil
}

func (b *Batch[T]) Len() int {
	return len(b.ops)
}

func (b *Batch[T]) Empty() bool {
	return len(b.ops) == 0
}

// Execute is implemented on Store to keep storage access internal
func (b *Batch[T]) Execute(ctx context.Context, s *Store[T]) (int, error) {
	return s.Batch(ctx, b)
}

// Batch applies every queued operation in one transaction and returns how
// many rows changed. Unchanged puts and deletes of missing keys do not
// count. Nothing is applied if any operation fails.
func (s *Store[T]) Batch(ctx context.Context, b *Batch[T]) (count int, err error) {
	if b == nil || b.Empty() {
		return 0, nil
	}
	defer func(start time.Time) { s.metrics.observe("batch", start, err) }(time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, Wrap(ErrSQL, "begin transaction", err)
	}
	defer tx.Rollback()

	for _, op := range b.ops {
		switch op.Kind {
		case batchPut:
			action, err := s.put(ctx, tx, op.Key, op.Doc, op.Tags)
			if err != nil {
				return 0, err
			}
			if action != Unchanged {
				count++
			}
		case batchDelete:
			deleted, err := s.delete(ctx, tx, op.Key)
			if err != nil {
				return 0, err
			}
			if deleted {
				count++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, Wrap(ErrSQL, "commit transaction", err)
	}
	return count, nil
}
