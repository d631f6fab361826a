// Package transport implements the dual-path request dispatch used by
// clients of the diary backend: an ordered list of transports is attempted
// in turn, and only transport-level failures (network errors, backend 5xx)
// fall through to the next attempt. Domain failures such as Conflict or
// Unauthorized are terminal on the first transport that reports them; a
// diary id collision must never be retried against a second path.
package transport

import (
	"context"
	"errors"
	"fmt"

	"github.com/sharedpages/diary-server/internal/logger"
	"github.com/sharedpages/diary-server/internal/models"
)

// ErrUnavailable marks a transport-level failure. It is the only failure
// class the Dispatcher falls through on.
var ErrUnavailable = errors.New("transport unavailable")

// Transport is one way of reaching the diary backend. Implementations
// return service taxonomy errors for domain failures and wrap
// ErrUnavailable for transport failures.
type Transport interface {
	Name() string

	CreateDiary(ctx context.Context, req models.CreateDiaryRequest) (*models.DiaryResponse, error)
	JoinDiary(ctx context.Context, req models.JoinDiaryRequest) (*models.JoinDiaryResponse, error)
	GetDiaryInfo(ctx context.Context, req models.DiaryInfoRequest) (*models.DiaryResponse, error)
	DeleteDiary(ctx context.Context, req models.DeleteDiaryRequest) (*models.DeleteDiaryResponse, error)

	CreateEntry(ctx context.Context, req models.CreateEntryRequest) (*models.EntryResponse, error)
	ListUnlockedEntries(ctx context.Context, req models.UnlockedEntriesRequest) (*models.EntriesResponse, error)
	ListEntryDates(ctx context.Context, req models.EntryDatesRequest) (*models.EntryDatesResponse, error)

	VerifyPasswords(ctx context.Context, req models.VerifyPasswordsRequest) (*models.VerifyResponse, error)
	UnlockEntries(ctx context.Context, req models.UnlockEntriesRequest) (*models.UnlockResponse, error)
	CheckEntryStatus(ctx context.Context, req models.EntryStatusRequest) (*models.EntryStatusResponse, error)
}

// Dispatcher tries each configured transport in order.
type Dispatcher struct {
	transports []Transport
	log        *logger.Logger
}

// NewDispatcher creates a Dispatcher over the given transports, attempted
// in argument order.
func NewDispatcher(log *logger.Logger, transports ...Transport) *Dispatcher {
	return &Dispatcher{transports: transports, log: log}
}

func attempt[T any](d *Dispatcher, op string, call func(Transport) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for _, t := range d.transports {
		res, err := call(t)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, ErrUnavailable) {
			return zero, err
		}

		d.log.Warn().Str("op", op).Str("transport", t.Name()).Err(err).
			Msg("transport unavailable, falling through")
		lastErr = err
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: no transports configured", ErrUnavailable)
	}
	return zero, fmt.Errorf("%s: all transports failed: %w", op, lastErr)
}

func (d *Dispatcher) CreateDiary(ctx context.Context, req models.CreateDiaryRequest) (*models.DiaryResponse, error) {
	return attempt(d, "createDiary", func(t Transport) (*models.DiaryResponse, error) {
		return t.CreateDiary(ctx, req)
	})
}

func (d *Dispatcher) JoinDiary(ctx context.Context, req models.JoinDiaryRequest) (*models.JoinDiaryResponse, error) {
	return attempt(d, "joinDiary", func(t Transport) (*models.JoinDiaryResponse, error) {
		return t.JoinDiary(ctx, req)
	})
}

func (d *Dispatcher) GetDiaryInfo(ctx context.Context, req models.DiaryInfoRequest) (*models.DiaryResponse, error) {
	return attempt(d, "getDiaryInfo", func(t Transport) (*models.DiaryResponse, error) {
		return t.GetDiaryInfo(ctx, req)
	})
}

func (d *Dispatcher) DeleteDiary(ctx context.Context, req models.DeleteDiaryRequest) (*models.DeleteDiaryResponse, error) {
	return attempt(d, "deleteDiary", func(t Transport) (*models.DeleteDiaryResponse, error) {
		return t.DeleteDiary(ctx, req)
	})
}

func (d *Dispatcher) CreateEntry(ctx context.Context, req models.CreateEntryRequest) (*models.EntryResponse, error) {
	return attempt(d, "createEntry", func(t Transport) (*models.EntryResponse, error) {
		return t.CreateEntry(ctx, req)
	})
}

func (d *Dispatcher) ListUnlockedEntries(ctx context.Context, req models.UnlockedEntriesRequest) (*models.EntriesResponse, error) {
	return attempt(d, "getUnlockedEntries", func(t Transport) (*models.EntriesResponse, error) {
		return t.ListUnlockedEntries(ctx, req)
	})
}

func (d *Dispatcher) ListEntryDates(ctx context.Context, req models.EntryDatesRequest) (*models.EntryDatesResponse, error) {
	return attempt(d, "getEntryDates", func(t Transport) (*models.EntryDatesResponse, error) {
		return t.ListEntryDates(ctx, req)
	})
}

func (d *Dispatcher) VerifyPasswords(ctx context.Context, req models.VerifyPasswordsRequest) (*models.VerifyResponse, error) {
	return attempt(d, "verifyPasswords", func(t Transport) (*models.VerifyResponse, error) {
		return t.VerifyPasswords(ctx, req)
	})
}

func (d *Dispatcher) UnlockEntries(ctx context.Context, req models.UnlockEntriesRequest) (*models.UnlockResponse, error) {
	return attempt(d, "unlockEntries", func(t Transport) (*models.UnlockResponse, error) {
		return t.UnlockEntries(ctx, req)
	})
}

func (d *Dispatcher) CheckEntryStatus(ctx context.Context, req models.EntryStatusRequest) (*models.EntryStatusResponse, error) {
	return attempt(d, "checkEntryStatus", func(t Transport) (*models.EntryStatusResponse, error) {
		return t.CheckEntryStatus(ctx, req)
	})
}
