package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharedpages/diary-server/internal/logger"
	"github.com/sharedpages/diary-server/internal/models"
	"github.com/sharedpages/diary-server/internal/repository"
	"github.com/sharedpages/diary-server/internal/service"
)

const joinSecret = "our-shared-secret"

func newTestService() (service.Service, *repository.MemoryRepository) {
	repo := repository.NewMemoryRepository()
	return service.NewDefaultService(repo, logger.Nop()), repo
}

func createPairDiary(t *testing.T, svc service.Service) {
	t.Helper()
	ctx := context.Background()

	_, err := svc.CreateDiary(ctx, models.CreateDiaryRequest{
		DiaryID: "abc", UserName: "Alice", Type: models.DiaryTypePair, Secret: joinSecret,
	})
	require.NoError(t, err)

	_, err = svc.JoinDiary(ctx, models.JoinDiaryRequest{
		DiaryID: "abc", UserName: "Bob", Secret: joinSecret,
	})
	require.NoError(t, err)
}

func TestCreateDiary_CreatorIsSoleMember(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	resp, err := svc.CreateDiary(ctx, models.CreateDiaryRequest{
		DiaryID: "abc", UserName: "Alice", Type: models.DiaryTypePair, Secret: joinSecret,
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, []string{"Alice"}, resp.Diary.MemberNames())
	assert.Equal(t, "Alice", resp.Diary.CreatedBy)
}

func TestCreateDiary_Conflict(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	createPairDiary(t, svc)

	_, err := svc.CreateDiary(ctx, models.CreateDiaryRequest{
		DiaryID: "abc", UserName: "Mallory", Type: models.DiaryTypeGroup, Secret: "other",
	})
	assert.Equal(t, service.KindConflict, service.KindOf(err))

	// The existing diary is untouched.
	info, err := svc.GetDiaryInfo(ctx, models.DiaryInfoRequest{DiaryID: "abc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, info.Diary.MemberNames())
	assert.Equal(t, models.DiaryTypePair, info.Diary.Type)
}

func TestJoinDiary_Idempotent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	createPairDiary(t, svc)

	for i := 0; i < 2; i++ {
		resp, err := svc.JoinDiary(ctx, models.JoinDiaryRequest{
			DiaryID: "abc", UserName: "Bob", Secret: joinSecret,
		})
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.True(t, resp.AlreadyMember)
		assert.Equal(t, []string{"Alice", "Bob"}, resp.Diary.MemberNames())
	}
}

func TestJoinDiary_WrongSecret(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	createPairDiary(t, svc)

	_, err := svc.JoinDiary(ctx, models.JoinDiaryRequest{
		DiaryID: "abc", UserName: "Carol", Secret: "guess",
	})
	assert.Equal(t, service.KindUnauthorized, service.KindOf(err))

	info, err := svc.GetDiaryInfo(ctx, models.DiaryInfoRequest{DiaryID: "abc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, info.Diary.MemberNames())
}

func TestJoinDiary_NotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.JoinDiary(context.Background(), models.JoinDiaryRequest{
		DiaryID: "nope", UserName: "Bob", Secret: joinSecret,
	})
	assert.Equal(t, service.KindNotFound, service.KindOf(err))
}

func TestJoinDiary_AppendsLast(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	createPairDiary(t, svc)

	resp, err := svc.JoinDiary(ctx, models.JoinDiaryRequest{
		DiaryID: "abc", UserName: "Carol", Secret: joinSecret,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, resp.Diary.MemberNames())
}

func TestCreateEntry_NonMemberRejected(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	createPairDiary(t, svc)

	_, err := svc.CreateEntry(ctx, models.CreateEntryRequest{
		DiaryID: "abc", UserName: "Mallory", Date: "2024-01-01", Content: "hi", Password: "x",
	})
	assert.Equal(t, service.KindUnauthorized, service.KindOf(err))
}

func TestCreateEntry_OnePerUserPerDate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	createPairDiary(t, svc)

	req := models.CreateEntryRequest{
		DiaryID: "abc", UserName: "Alice", Date: "2024-01-01", Content: "first", Password: "alice1",
	}
	resp, err := svc.CreateEntry(ctx, req)
	require.NoError(t, err)
	assert.True(t, resp.Entry.Locked())

	req.Content = "second attempt"
	_, err = svc.CreateEntry(ctx, req)
	assert.Equal(t, service.KindConflict, service.KindOf(err))
}

func TestDeleteDiary_CreatorOnly(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	createPairDiary(t, svc)

	_, err := svc.DeleteDiary(ctx, models.DeleteDiaryRequest{DiaryID: "abc", UserName: "Bob"})
	assert.Equal(t, service.KindUnauthorized, service.KindOf(err))

	_, err = svc.DeleteDiary(ctx, models.DeleteDiaryRequest{DiaryID: "abc", UserName: "Alice"})
	require.NoError(t, err)

	_, err = svc.GetDiaryInfo(ctx, models.DiaryInfoRequest{DiaryID: "abc"})
	assert.Equal(t, service.KindNotFound, service.KindOf(err))
}
