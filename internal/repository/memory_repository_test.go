package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sharedpages/diary-server/internal/models"
)

func seedDiary(t *testing.T, repo *MemoryRepository) {
	t.Helper()
	err := repo.CreateDiary(context.Background(), &models.Diary{
		DiaryID:   "abc",
		Type:      models.DiaryTypePair,
		CreatedBy: "Alice",
		Members:   []models.DiaryMember{{UserName: "Alice", SecretHash: "h"}},
	})
	assert.NoError(t, err)
}

func TestMemoryCreateDiary_Duplicate(t *testing.T) {
	repo := NewMemoryRepository()
	seedDiary(t, repo)

	err := repo.CreateDiary(context.Background(), &models.Diary{DiaryID: "abc"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMemoryGetDiary_ReturnsCopy(t *testing.T) {
	repo := NewMemoryRepository()
	seedDiary(t, repo)

	diary, err := repo.GetDiary(context.Background(), "abc")
	assert.NoError(t, err)

	// Mutating the returned value must not leak into the store.
	diary.Members[0].UserName = "Mallory"

	again, err := repo.GetDiary(context.Background(), "abc")
	assert.NoError(t, err)
	assert.Equal(t, "Alice", again.Members[0].UserName)
}

func TestMemoryGetDiary_Missing(t *testing.T) {
	repo := NewMemoryRepository()

	diary, err := repo.GetDiary(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, diary)
}

func TestMemoryAddMember_AppendsInOrder(t *testing.T) {
	repo := NewMemoryRepository()
	seedDiary(t, repo)

	err := repo.AddMember(context.Background(), &models.DiaryMember{DiaryID: "abc", UserName: "Bob"})
	assert.NoError(t, err)

	diary, _ := repo.GetDiary(context.Background(), "abc")
	assert.Equal(t, []string{"Alice", "Bob"}, diary.MemberNames())
	assert.Equal(t, 1, diary.Members[1].Position)
}

func TestMemoryAddMember_Duplicate(t *testing.T) {
	repo := NewMemoryRepository()
	seedDiary(t, repo)

	err := repo.AddMember(context.Background(), &models.DiaryMember{DiaryID: "abc", UserName: "Alice"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMemoryAddMember_MissingDiary(t *testing.T) {
	repo := NewMemoryRepository()

	err := repo.AddMember(context.Background(), &models.DiaryMember{DiaryID: "nope", UserName: "Bob"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryEntryLifecycle(t *testing.T) {
	repo := NewMemoryRepository()
	seedDiary(t, repo)
	ctx := context.Background()

	hash := "digest"
	entry := &models.Entry{DiaryID: "abc", UserName: "Alice", Date: "2024-01-01", Content: "hi", PasswordHash: &hash}
	assert.NoError(t, repo.CreateEntry(ctx, entry))
	assert.NotEmpty(t, entry.ID)

	// One entry per (diary, user, date).
	err := repo.CreateEntry(ctx, &models.Entry{DiaryID: "abc", UserName: "Alice", Date: "2024-01-01"})
	assert.ErrorIs(t, err, ErrDuplicate)

	entries, err := repo.GetEntriesByDate(ctx, "abc", "2024-01-01")
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.True(t, entries[0].Locked())

	unlocked, err := repo.GetUnlockedEntries(ctx, "abc")
	assert.NoError(t, err)
	assert.Empty(t, unlocked)

	assert.NoError(t, repo.ClearEntryDigest(ctx, entry.ID))

	unlocked, err = repo.GetUnlockedEntries(ctx, "abc")
	assert.NoError(t, err)
	assert.Len(t, unlocked, 1)
	assert.Nil(t, unlocked[0].PasswordHash)

	// Clearing twice is a no-op.
	assert.NoError(t, repo.ClearEntryDigest(ctx, entry.ID))

	dates, err := repo.GetEntryDates(ctx, "abc")
	assert.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01"}, dates)
}

func TestMemoryDeleteDiary_RemovesEntries(t *testing.T) {
	repo := NewMemoryRepository()
	seedDiary(t, repo)
	ctx := context.Background()

	hash := "digest"
	assert.NoError(t, repo.CreateEntry(ctx, &models.Entry{
		DiaryID: "abc", UserName: "Alice", Date: "2024-01-01", PasswordHash: &hash,
	}))

	assert.NoError(t, repo.DeleteDiary(ctx, "abc"))

	diary, err := repo.GetDiary(ctx, "abc")
	assert.NoError(t, err)
	assert.Nil(t, diary)

	entries, err := repo.GetEntriesByDate(ctx, "abc", "2024-01-01")
	assert.NoError(t, err)
	assert.Empty(t, entries)
}
