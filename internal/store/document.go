// internal/store/document.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	commonErrors "rental-wizard/internal/common/errors"
	"rental-wizard/internal/common/logger"
	"rental-wizard/internal/models"
)

const docCachePrefix = "docs:"

// DocumentStore owns the application_documents table. Uploads replace the
// slot's previous file; nothing else is touched. The per-applicant presence
// map is cached in Redis because every validation call needs it.
type DocumentStore struct {
	db       *sql.DB
	cache    *redis.Client
	cacheTTL time.Duration
	log      logger.Logger
}

func NewDocumentStore(db *sql.DB, cache *redis.Client, cacheTTL time.Duration, log logger.Logger) *DocumentStore {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &DocumentStore{db: db, cache: cache, cacheTTL: cacheTTL, log: log}
}

// Put stores a file in a logical slot, replacing any previous file there.
func (s *DocumentStore) Put(ctx context.Context, applicantID string, slot models.DocumentKey, content io.Reader, filename string) (models.StoredDocument, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return models.StoredDocument{}, commonErrors.NewDocumentStoreFailedError(string(slot), err)
	}

	doc := models.StoredDocument{
		ID:               uuid.New().String(),
		ApplicantID:      applicantID,
		Slot:             slot,
		OriginalFilename: filename,
		StoredAt:         time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO application_documents (id, applicant_id, slot, original_filename, content, stored_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (applicant_id, slot)
		 DO UPDATE SET id = EXCLUDED.id, original_filename = EXCLUDED.original_filename,
		               content = EXCLUDED.content, stored_at = EXCLUDED.stored_at`,
		doc.ID, applicantID, slot, filename, data, doc.StoredAt)
	if err != nil {
		return models.StoredDocument{}, commonErrors.NewDocumentStoreFailedError(string(slot), err)
	}

	s.invalidate(ctx, applicantID)
	s.log.Debug("document stored", map[string]interface{}{
		"applicantId": applicantID,
		"slot":        string(slot),
		"filename":    filename,
	})
	return doc, nil
}

// Delete removes the slot's file. Deleting an empty slot is not an error.
func (s *DocumentStore) Delete(ctx context.Context, applicantID string, slot models.DocumentKey) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM application_documents WHERE applicant_id = $1 AND slot = $2`,
		applicantID, slot)
	if err != nil {
		return commonErrors.NewDocumentStoreFailedError(string(slot), err)
	}
	s.invalidate(ctx, applicantID)
	return nil
}

// ExistingDocuments returns the applicant's document presence map, serving
// from Redis when warm. A cache failure degrades to the database, never to
// an error: validation must not go down with the cache.
func (s *DocumentStore) ExistingDocuments(ctx context.Context, applicantID string) (models.DocumentSet, error) {
	cacheKey := docCachePrefix + applicantID

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var slots []models.DocumentKey
			if jsonErr := json.Unmarshal([]byte(cached), &slots); jsonErr == nil {
				s.log.Debug("document cache hit", map[string]interface{}{"applicantId": applicantID})
				set := models.DocumentSet{}
				for _, slot := range slots {
					set[slot] = true
				}
				return set, nil
			}
		} else if err != redis.Nil {
			s.log.Warn("document cache read failed", map[string]interface{}{
				"applicantId": applicantID,
				"error":       err.Error(),
			})
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT slot FROM application_documents WHERE applicant_id = $1`, applicantID)
	if err != nil {
		return nil, commonErrors.NewQueryExecutionFailedError("document list", err)
	}
	defer rows.Close()

	set := models.DocumentSet{}
	var slots []models.DocumentKey
	for rows.Next() {
		var slot models.DocumentKey
		if err := rows.Scan(&slot); err != nil {
			return nil, commonErrors.NewQueryExecutionFailedError("document scan", err)
		}
		set[slot] = true
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, commonErrors.NewQueryExecutionFailedError("document list", err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(slots); err == nil {
			if setErr := s.cache.Set(ctx, cacheKey, raw, s.cacheTTL).Err(); setErr != nil {
				s.log.Warn("document cache write failed", map[string]interface{}{
					"applicantId": applicantID,
					"error":       setErr.Error(),
				})
			}
		}
	}
	return set, nil
}

// Get loads one stored document including its content.
func (s *DocumentStore) Get(ctx context.Context, applicantID string, slot models.DocumentKey) (models.StoredDocument, []byte, error) {
	var doc models.StoredDocument
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT id, applicant_id, slot, original_filename, content, stored_at
		 FROM application_documents WHERE applicant_id = $1 AND slot = $2`,
		applicantID, slot).
		Scan(&doc.ID, &doc.ApplicantID, &doc.Slot, &doc.OriginalFilename, &data, &doc.StoredAt)
	if err == sql.ErrNoRows {
		return doc, nil, commonErrors.NewDocumentNotFoundError(string(slot))
	}
	if err != nil {
		return doc, nil, commonErrors.NewQueryExecutionFailedError("document get", err)
	}
	return doc, data, nil
}

func (s *DocumentStore) invalidate(ctx context.Context, applicantID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, fmt.Sprintf("%s%s", docCachePrefix, applicantID)).Err(); err != nil {
		s.log.Warn("document cache invalidation failed", map[string]interface{}{
			"applicantId": applicantID,
			"error":       err.Error(),
		})
	}
}
