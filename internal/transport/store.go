package transport

import (
	"context"

	"github.com/sharedpages/diary-server/internal/models"
	"github.com/sharedpages/diary-server/internal/service"
)

// StoreTransport talks to the backing store directly through the service
// layer, bypassing HTTP. It is the fallback path when the function endpoint
// is unreachable, and the primary path in embedded or offline setups.
type StoreTransport struct {
	svc service.Service
}

// NewStoreTransport creates a StoreTransport over the given service.
func NewStoreTransport(svc service.Service) *StoreTransport {
	return &StoreTransport{svc: svc}
}

func (t *StoreTransport) Name() string {
	return "store"
}

func (t *StoreTransport) CreateDiary(ctx context.Context, req models.CreateDiaryRequest) (*models.DiaryResponse, error) {
	return t.svc.CreateDiary(ctx, req)
}

func (t *StoreTransport) JoinDiary(ctx context.Context, req models.JoinDiaryRequest) (*models.JoinDiaryResponse, error) {
	return t.svc.JoinDiary(ctx, req)
}

func (t *StoreTransport) GetDiaryInfo(ctx context.Context, req models.DiaryInfoRequest) (*models.DiaryResponse, error) {
	return t.svc.GetDiaryInfo(ctx, req)
}

func (t *StoreTransport) DeleteDiary(ctx context.Context, req models.DeleteDiaryRequest) (*models.DeleteDiaryResponse, error) {
	return t.svc.DeleteDiary(ctx, req)
}

func (t *StoreTransport) CreateEntry(ctx context.Context, req models.CreateEntryRequest) (*models.EntryResponse, error) {
	return t.svc.CreateEntry(ctx, req)
}

func (t *StoreTransport) ListUnlockedEntries(ctx context.Context, req models.UnlockedEntriesRequest) (*models.EntriesResponse, error) {
	return t.svc.ListUnlockedEntries(ctx, req)
}

func (t *StoreTransport) ListEntryDates(ctx context.Context, req models.EntryDatesRequest) (*models.EntryDatesResponse, error) {
	return t.svc.ListEntryDates(ctx, req)
}

func (t *StoreTransport) VerifyPasswords(ctx context.Context, req models.VerifyPasswordsRequest) (*models.VerifyResponse, error) {
	return t.svc.VerifyPasswords(ctx, req)
}

func (t *StoreTransport) UnlockEntries(ctx context.Context, req models.UnlockEntriesRequest) (*models.UnlockResponse, error) {
	return t.svc.UnlockEntries(ctx, req)
}

func (t *StoreTransport) CheckEntryStatus(ctx context.Context, req models.EntryStatusRequest) (*models.EntryStatusResponse, error) {
	return t.svc.CheckEntryStatus(ctx, req)
}
