package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sharedpages/diary-server/internal/models"
)

// MemoryRepository is a mutex-guarded in-memory Repository. It backs the
// direct-store transport in environments without a database and serves as
// the injected test double. The mutex stands in for the per-row atomicity
// the real store provides.
type MemoryRepository struct {
	mu      sync.RWMutex
	diaries map[string]*models.Diary
	entries map[string]memEntry
	nextSeq int
}

// memEntry carries an insertion sequence so ordering stays deterministic
// even when two entries share a creation timestamp.
type memEntry struct {
	models.Entry
	seq int
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		diaries: make(map[string]*models.Diary),
		entries: make(map[string]memEntry),
	}
}

func copyDiary(d *models.Diary) *models.Diary {
	cp := *d
	cp.Members = make([]models.DiaryMember, len(d.Members))
	copy(cp.Members, d.Members)
	return &cp
}

func (r *MemoryRepository) CreateDiary(ctx context.Context, diary *models.Diary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.diaries[diary.DiaryID]; exists {
		return ErrDuplicate
	}

	now := time.Now().UTC()
	diary.CreatedAt = now
	for i := range diary.Members {
		diary.Members[i].DiaryID = diary.DiaryID
		diary.Members[i].Position = i
		diary.Members[i].CreatedAt = now
	}

	r.diaries[diary.DiaryID] = copyDiary(diary)
	return nil
}

func (r *MemoryRepository) GetDiary(ctx context.Context, diaryID string) (*models.Diary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	diary, exists := r.diaries[diaryID]
	if !exists {
		return nil, nil
	}

	return copyDiary(diary), nil
}

func (r *MemoryRepository) AddMember(ctx context.Context, member *models.DiaryMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	diary, exists := r.diaries[member.DiaryID]
	if !exists {
		return ErrNotFound
	}

	for _, m := range diary.Members {
		if m.UserName == member.UserName {
			return ErrDuplicate
		}
	}

	member.Position = len(diary.Members)
	if member.CreatedAt.IsZero() {
		member.CreatedAt = time.Now().UTC()
	}

	diary.Members = append(diary.Members, *member)
	return nil
}

func (r *MemoryRepository) DeleteDiary(ctx context.Context, diaryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.diaries, diaryID)
	for id, e := range r.entries {
		if e.DiaryID == diaryID {
			delete(r.entries, id)
		}
	}

	return nil
}

func (r *MemoryRepository) CreateEntry(ctx context.Context, entry *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.DiaryID == entry.DiaryID && e.UserName == entry.UserName && e.Date == entry.Date {
			return ErrDuplicate
		}
	}

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	r.entries[entry.ID] = memEntry{Entry: *entry, seq: r.nextSeq}
	r.nextSeq++
	return nil
}

func (r *MemoryRepository) GetEntriesByDate(ctx context.Context, diaryID, date string) ([]models.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []memEntry
	for _, e := range r.entries {
		if e.DiaryID == diaryID && e.Date == date {
			matched = append(matched, e)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].seq < matched[j].seq
	})

	entries := make([]models.Entry, len(matched))
	for i, e := range matched {
		entries[i] = e.Entry
	}
	return entries, nil
}

func (r *MemoryRepository) GetUnlockedEntries(ctx context.Context, diaryID string) ([]models.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []memEntry
	for _, e := range r.entries {
		if e.DiaryID == diaryID && e.PasswordHash == nil {
			matched = append(matched, e)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Date != matched[j].Date {
			return matched[i].Date > matched[j].Date
		}
		return matched[i].seq < matched[j].seq
	})

	entries := make([]models.Entry, len(matched))
	for i, e := range matched {
		entries[i] = e.Entry
	}
	return entries, nil
}

func (r *MemoryRepository) GetEntryDates(ctx context.Context, diaryID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var dates []string
	for _, e := range r.entries {
		if e.DiaryID == diaryID && !seen[e.Date] {
			seen[e.Date] = true
			dates = append(dates, e.Date)
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

func (r *MemoryRepository) ClearEntryDigest(ctx context.Context, entryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.entries[entryID]
	if !exists {
		return nil
	}

	entry.PasswordHash = nil
	r.entries[entryID] = entry
	return nil
}
