package transport

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/sharedpages/diary-server/internal/models"
	"github.com/sharedpages/diary-server/internal/service"
)

// FunctionTransport reaches the backend through the action-dispatched HTTP
// endpoint. Error responses are mapped back onto the service taxonomy so
// callers see the same error kinds regardless of the path taken; network
// failures and backend 5xx become ErrUnavailable.
type FunctionTransport struct {
	client *resty.Client
}

// FunctionConfig configures the HTTP function transport.
type FunctionConfig struct {
	BaseURL string
	Timeout time.Duration
}

// NewFunctionTransport creates a FunctionTransport for the given base URL.
func NewFunctionTransport(cfg FunctionConfig) *FunctionTransport {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &FunctionTransport{client: cli}
}

func (t *FunctionTransport) Name() string {
	return "function"
}

// post sends one action request and decodes the response into out.
func (t *FunctionTransport) post(ctx context.Context, body, out any) error {
	var errResp models.ErrorResponse

	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(out).
		SetError(&errResp).
		Post("/api/diary")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.IsError() {
		if resp.StatusCode() >= 500 {
			return fmt.Errorf("%w: backend returned %d", ErrUnavailable, resp.StatusCode())
		}

		kind := service.Kind(errResp.Code)
		if kind == "" {
			kind = service.KindValidation
		}
		return &service.Error{
			Kind:     kind,
			Message:  errResp.Message,
			User:     errResp.User,
			Expected: errResp.Expected,
			Provided: errResp.Provided,
			Results:  errResp.Results,
		}
	}

	return nil
}

func (t *FunctionTransport) CreateDiary(ctx context.Context, req models.CreateDiaryRequest) (*models.DiaryResponse, error) {
	body := struct {
		Action string `json:"action"`
		models.CreateDiaryRequest
	}{"createDiary", req}

	var out models.DiaryResponse
	if err := t.post(ctx, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *FunctionTransport) JoinDiary(ctx context.Context, req models.JoinDiaryRequest) (*models.JoinDiaryResponse, error) {
	body := struct {
		Action string `json:"action"`
		models.JoinDiaryRequest
	}{"joinDiary", req}

	var out models.JoinDiaryResponse
	if err := t.post(ctx, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *FunctionTransport) GetDiaryInfo(ctx context.Context, req models.DiaryInfoRequest) (*models.DiaryResponse, error) {
	body := struct {
		Action string `json:"action"`
		models.DiaryInfoRequest
	}{"getDiaryInfo", req}

	var out models.DiaryResponse
	if err := t.post(ctx, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *FunctionTransport) DeleteDiary(ctx context.Context, req models.DeleteDiaryRequest) (*models.DeleteDiaryResponse, error) {
	body := struct {
		Action string `json:"action"`
		models.DeleteDiaryRequest
	}{"deleteDiary", req}

	var out models.DeleteDiaryResponse
	if err := t.post(ctx, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *FunctionTransport) CreateEntry(ctx context.Context, req models.CreateEntryRequest) (*models.EntryResponse, error) {
	body := struct {
		Action string `json:"action"`
		models.CreateEntryRequest
	}{"createEntry", req}

	var out models.EntryResponse
	if err := t.post(ctx, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *FunctionTransport) ListUnlockedEntries(ctx context.Context, req models.UnlockedEntriesRequest) (*models.EntriesResponse, error) {
	body := struct {
		Action string `json:"action"`
		models.UnlockedEntriesRequest
	}{"getUnlockedEntries", req}

	var out models.EntriesResponse
	if err := t.post(ctx, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *FunctionTransport) ListEntryDates(ctx context.Context, req models.EntryDatesRequest) (*models.EntryDatesResponse, error) {
	body := struct {
		Action string `json:"action"`
		models.EntryDatesRequest
	}{"getEntryDates", req}

	var out models.EntryDatesResponse
	if err := t.post(ctx, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *FunctionTransport) VerifyPasswords(ctx context.Context, req models.VerifyPasswordsRequest) (*models.VerifyResponse, error) {
	body := struct {
		Action string `json:"action"`
		models.VerifyPasswordsRequest
	}{"verifyPasswords", req}

	var out models.VerifyResponse
	if err := t.post(ctx, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *FunctionTransport) UnlockEntries(ctx context.Context, req models.UnlockEntriesRequest) (*models.UnlockResponse, error) {
	body := struct {
		Action string `json:"action"`
		models.UnlockEntriesRequest
	}{"unlockEntries", req}

	var out models.UnlockResponse
	if err := t.post(ctx, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *FunctionTransport) CheckEntryStatus(ctx context.Context, req models.EntryStatusRequest) (*models.EntryStatusResponse, error) {
	body := struct {
		Action string `json:"action"`
		models.EntryStatusRequest
	}{"checkEntryStatus", req}

	var out models.EntryStatusResponse
	if err := t.post(ctx, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
