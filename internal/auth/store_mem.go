package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/thienng-it/note-hub-sub010/internal/models"
)

// MemoryStore is a mutex-guarded in-memory TokenStore with the same rotation
// semantics as GormStore. Used by tests and storeless development runs;
// records do not survive a restart.
type MemoryStore struct {
	mu   sync.Mutex
	recs map[string]*models.RefreshToken
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[string]*models.RefreshToken)}
}

func (s *MemoryStore) Put(rec *models.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.recs[rec.TokenIDHash] = &cp
	return nil
}

func (s *MemoryStore) FindByTokenIDHash(hash string) (*models.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[hash]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *MemoryStore) Rotate(predecessorHash string, successor *models.RefreshToken, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pred, ok := s.recs[predecessorHash]
	if !ok || pred.Revoked {
		return ErrRotationConflict
	}
	pred.Revoked = true
	pred.RevokedAt = &now
	pred.LastUsedAt = &now
	cp := *successor
	s.recs[successor.TokenIDHash] = &cp
	return nil
}

func (s *MemoryStore) Revoke(hash string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.recs[hash]; ok && !rec.Revoked {
		rec.Revoked = true
		rec.RevokedAt = &now
	}
	return nil
}

func (s *MemoryStore) RevokeAllForOwner(ownerID uuid.UUID, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.recs {
		if rec.UserID == ownerID && !rec.Revoked {
			rec.Revoked = true
			rec.RevokedAt = &now
		}
	}
	return nil
}

func (s *MemoryStore) ListActive(ownerID uuid.UUID) ([]models.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	var out []models.RefreshToken
	for _, rec := range s.recs {
		if rec.UserID == ownerID && !rec.Revoked && rec.ExpiresAt.After(now) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (s *MemoryStore) PurgeExpired(now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var purged int64
	for hash, rec := range s.recs {
		if rec.ExpiresAt.Before(now) {
			delete(s.recs, hash)
			purged++
		}
	}
	return purged, nil
}
