package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"ragpipe/internal/domain"
)

var (
	bucketDocuments = []byte("documents")
	bucketMeta      = []byte("meta")
	keyCorpusMeta   = []byte("corpus_meta")
)

// BoltCorpusStore persists an embedded document sequence between runs, so
// indexing and querying can happen in separate invocations. Documents are
// keyed by their big-endian position, which preserves the ordering the
// index maps back into.
type BoltCorpusStore struct {
	db *bbolt.DB
}

// CorpusMeta records what produced the stored corpus; a model or dimension
// change means the corpus must be rebuilt rather than silently mixed.
type CorpusMeta struct {
	EmbeddingModel string `json:"embedding_model"`
	Dimension      int    `json:"dimension"`
	Count          int    `json:"count"`
}

// OpenBoltCorpusStore opens (or creates) the corpus database at path.
func OpenBoltCorpusStore(path string) (*BoltCorpusStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketDocuments, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltCorpusStore{db: db}, nil
}

// SaveCorpus replaces the stored corpus with docs in their given order.
func (s *BoltCorpusStore) SaveCorpus(docs []domain.Document, meta CorpusMeta) error {
	meta.Count = len(docs)

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketDocuments); err != nil {
			return err
		}
		b, err := tx.CreateBucket(bucketDocuments)
		if err != nil {
			return err
		}

		for i, doc := range docs {
			data, err := json.Marshal(doc)
			if err != nil {
				return fmt.Errorf("failed to marshal document %d: %w", i, err)
			}
			if err := b.Put(positionKey(i), data); err != nil {
				return err
			}
		}

		metaData, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keyCorpusMeta, metaData)
	})
}

// LoadCorpus returns the stored documents in their saved order.
func (s *BoltCorpusStore) LoadCorpus() ([]domain.Document, CorpusMeta, error) {
	var meta CorpusMeta
	var docs []domain.Document

	err := s.db.View(func(tx *bbolt.Tx) error {
		metaData := tx.Bucket(bucketMeta).Get(keyCorpusMeta)
		if metaData == nil {
			return fmt.Errorf("corpus db has no metadata; run index first")
		}
		if err := json.Unmarshal(metaData, &meta); err != nil {
			return fmt.Errorf("failed to parse corpus metadata: %w", err)
		}

		docs = make([]domain.Document, 0, meta.Count)
		// Bolt iterates keys in byte order, so positional keys come back
		// in their original sequence.
		return tx.Bucket(bucketDocuments).ForEach(func(k, v []byte) error {
			var doc domain.Document
			if err := json.Unmarshal(v, &doc); err != nil {
				return fmt.Errorf("failed to parse document at key %x: %w", k, err)
			}
			docs = append(docs, doc)
			return nil
		})
	})
	if err != nil {
		return nil, CorpusMeta{}, err
	}

	if len(docs) != meta.Count {
		return nil, CorpusMeta{}, fmt.Errorf("corpus db is inconsistent: metadata says %d documents, found %d", meta.Count, len(docs))
	}
	return docs, meta, nil
}

// Close closes the underlying database.
func (s *BoltCorpusStore) Close() error {
	return s.db.Close()
}

func positionKey(i int) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], uint64(i))
	return k[:]
}
