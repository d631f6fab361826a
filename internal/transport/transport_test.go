package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharedpages/diary-server/internal/api"
	"github.com/sharedpages/diary-server/internal/logger"
	"github.com/sharedpages/diary-server/internal/models"
	"github.com/sharedpages/diary-server/internal/repository"
	"github.com/sharedpages/diary-server/internal/service"
	"github.com/sharedpages/diary-server/internal/transport"
)

// newBackend starts an HTTP backend over its own in-memory repository and
// returns the test server plus the service for out-of-band inspection.
func newBackend(t *testing.T) (*httptest.Server, service.Service) {
	t.Helper()

	log := logger.Nop()
	svc := service.NewDefaultService(repository.NewMemoryRepository(), log)
	handler := api.NewHandler(svc, log)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler.SetupRoutes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, svc
}

func newStoreTransport() (*transport.StoreTransport, service.Service) {
	svc := service.NewDefaultService(repository.NewMemoryRepository(), logger.Nop())
	return transport.NewStoreTransport(svc), svc
}

func createReq(diaryID string) models.CreateDiaryRequest {
	return models.CreateDiaryRequest{
		DiaryID:  diaryID,
		UserName: "Alice",
		Type:     models.DiaryTypePair,
		Secret:   "our-shared-secret",
	}
}

func TestFunctionTransport_Success(t *testing.T) {
	srv, _ := newBackend(t)
	fn := transport.NewFunctionTransport(transport.FunctionConfig{BaseURL: srv.URL})

	resp, err := fn.CreateDiary(context.Background(), createReq("abc"))
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "abc", resp.Diary.DiaryID)
}

func TestFunctionTransport_MapsTaxonomyErrors(t *testing.T) {
	srv, _ := newBackend(t)
	fn := transport.NewFunctionTransport(transport.FunctionConfig{BaseURL: srv.URL})
	ctx := context.Background()

	_, err := fn.GetDiaryInfo(ctx, models.DiaryInfoRequest{DiaryID: "missing"})
	assert.Equal(t, service.KindNotFound, service.KindOf(err))

	_, err = fn.CreateDiary(ctx, createReq("abc"))
	require.NoError(t, err)
	_, err = fn.CreateDiary(ctx, createReq("abc"))
	assert.Equal(t, service.KindConflict, service.KindOf(err))
	assert.NotErrorIs(t, err, transport.ErrUnavailable)
}

func TestFunctionTransport_NetworkFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on
	fn := transport.NewFunctionTransport(transport.FunctionConfig{BaseURL: srv.URL})

	_, err := fn.CreateDiary(context.Background(), createReq("abc"))
	assert.ErrorIs(t, err, transport.ErrUnavailable)
}

func TestFunctionTransport_BackendErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	fn := transport.NewFunctionTransport(transport.FunctionConfig{BaseURL: srv.URL})

	_, err := fn.CreateDiary(context.Background(), createReq("abc"))
	assert.ErrorIs(t, err, transport.ErrUnavailable)
}

func TestDispatcher_FallsThroughToStore(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	fn := transport.NewFunctionTransport(transport.FunctionConfig{BaseURL: srv.URL})
	st, svc := newStoreTransport()

	d := transport.NewDispatcher(logger.Nop(), fn, st)
	ctx := context.Background()

	resp, err := d.CreateDiary(ctx, createReq("abc"))
	require.NoError(t, err)
	assert.True(t, resp.Success)

	// The fallback path really wrote to the store.
	info, err := svc.GetDiaryInfo(ctx, models.DiaryInfoRequest{DiaryID: "abc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, info.Diary.MemberNames())
}

func TestDispatcher_TerminalErrorsDoNotFallThrough(t *testing.T) {
	srv, _ := newBackend(t)
	fn := transport.NewFunctionTransport(transport.FunctionConfig{BaseURL: srv.URL})
	st, svc := newStoreTransport()

	d := transport.NewDispatcher(logger.Nop(), fn, st)
	ctx := context.Background()

	_, err := d.CreateDiary(ctx, createReq("abc"))
	require.NoError(t, err)

	// The id now collides on the primary path. A conflict must surface
	// immediately; retrying it against the fallback store would create a
	// shadow diary there.
	_, err = d.CreateDiary(ctx, createReq("abc"))
	assert.Equal(t, service.KindConflict, service.KindOf(err))

	_, err = svc.GetDiaryInfo(ctx, models.DiaryInfoRequest{DiaryID: "abc"})
	assert.Equal(t, service.KindNotFound, service.KindOf(err))
}

func TestDispatcher_AllTransportsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	fn := transport.NewFunctionTransport(transport.FunctionConfig{BaseURL: srv.URL})

	d := transport.NewDispatcher(logger.Nop(), fn)

	_, err := d.CreateDiary(context.Background(), createReq("abc"))
	assert.ErrorIs(t, err, transport.ErrUnavailable)
}

func TestDispatcher_FullScenarioOverStore(t *testing.T) {
	st, _ := newStoreTransport()
	d := transport.NewDispatcher(logger.Nop(), st)
	ctx := context.Background()

	_, err := d.CreateDiary(ctx, createReq("abc"))
	require.NoError(t, err)
	_, err = d.JoinDiary(ctx, models.JoinDiaryRequest{DiaryID: "abc", UserName: "Bob", Secret: "our-shared-secret"})
	require.NoError(t, err)

	_, err = d.CreateEntry(ctx, models.CreateEntryRequest{
		DiaryID: "abc", UserName: "Alice", Date: "2024-01-01", Content: "hi", Password: "alice1",
	})
	require.NoError(t, err)
	_, err = d.CreateEntry(ctx, models.CreateEntryRequest{
		DiaryID: "abc", UserName: "Bob", Date: "2024-01-01", Content: "hello", Password: "bob12345",
	})
	require.NoError(t, err)

	status, err := d.CheckEntryStatus(ctx, models.EntryStatusRequest{DiaryID: "abc", Date: "2024-01-01"})
	require.NoError(t, err)
	assert.True(t, status.AllSubmitted)

	unlock, err := d.UnlockEntries(ctx, models.UnlockEntriesRequest{
		DiaryID: "abc", Date: "2024-01-01", Passwords: []string{"alice1", "bob12345"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, unlock.UnlockedCount)

	entries, err := d.ListUnlockedEntries(ctx, models.UnlockedEntriesRequest{DiaryID: "abc"})
	require.NoError(t, err)
	assert.Len(t, entries.Entries, 2)
}
