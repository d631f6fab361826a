package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/sharedpages/diary-server/internal/digest"
	"github.com/sharedpages/diary-server/internal/logger"
	"github.com/sharedpages/diary-server/internal/models"
	"github.com/sharedpages/diary-server/internal/repository"
)

// Service defines all the business logic operations.
type Service interface {
	// Diary lifecycle and membership
	CreateDiary(ctx context.Context, req models.CreateDiaryRequest) (*models.DiaryResponse, error)
	JoinDiary(ctx context.Context, req models.JoinDiaryRequest) (*models.JoinDiaryResponse, error)
	GetDiaryInfo(ctx context.Context, req models.DiaryInfoRequest) (*models.DiaryResponse, error)
	DeleteDiary(ctx context.Context, req models.DeleteDiaryRequest) (*models.DeleteDiaryResponse, error)

	// Entries
	CreateEntry(ctx context.Context, req models.CreateEntryRequest) (*models.EntryResponse, error)
	ListUnlockedEntries(ctx context.Context, req models.UnlockedEntriesRequest) (*models.EntriesResponse, error)
	ListEntryDates(ctx context.Context, req models.EntryDatesRequest) (*models.EntryDatesResponse, error)

	// Entry gate
	VerifyPasswords(ctx context.Context, req models.VerifyPasswordsRequest) (*models.VerifyResponse, error)
	UnlockEntries(ctx context.Context, req models.UnlockEntriesRequest) (*models.UnlockResponse, error)
	CheckEntryStatus(ctx context.Context, req models.EntryStatusRequest) (*models.EntryStatusResponse, error)
}

// DefaultService implements the Service interface.
type DefaultService struct {
	repo repository.Repository
	log  *logger.Logger
}

// NewDefaultService creates a new DefaultService.
func NewDefaultService(repo repository.Repository, log *logger.Logger) Service {
	return &DefaultService{
		repo: repo,
		log:  log,
	}
}

// getDiary fetches a diary, translating absence and store failures into the
// error taxonomy. Every operation starts here: state is always fetched
// fresh, never cached across calls.
func (s *DefaultService) getDiary(ctx context.Context, diaryID string) (*models.Diary, error) {
	diary, err := s.repo.GetDiary(ctx, diaryID)
	if err != nil {
		return nil, storeError("get diary", err)
	}
	if diary == nil {
		return nil, newError(KindNotFound, "diary %q not found", diaryID)
	}
	return diary, nil
}

// CreateDiary persists a new diary whose sole member is the creator. The
// creator's join secret is stored as a bcrypt hash; later joins must present
// a secret matching some member's recorded one.
func (s *DefaultService) CreateDiary(ctx context.Context, req models.CreateDiaryRequest) (*models.DiaryResponse, error) {
	secretHash, err := bcrypt.GenerateFromPassword([]byte(req.Secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Message: "unusable join secret", Err: err}
	}

	diary := &models.Diary{
		DiaryID:   req.DiaryID,
		Type:      req.Type,
		CreatedBy: req.UserName,
		Members: []models.DiaryMember{
			{UserName: req.UserName, SecretHash: string(secretHash)},
		},
	}

	if err := s.repo.CreateDiary(ctx, diary); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(KindConflict, "diary %q already exists", req.DiaryID)
		}
		return nil, storeError("create diary", err)
	}

	s.log.Info().Str("diary", diary.DiaryID).Str("type", diary.Type).Msg("diary created")

	return &models.DiaryResponse{Success: true, Diary: diary}, nil
}

// JoinDiary adds a member to an existing diary. Joining twice with the same
// name is an idempotent success; membership only ever grows.
func (s *DefaultService) JoinDiary(ctx context.Context, req models.JoinDiaryRequest) (*models.JoinDiaryResponse, error) {
	diary, err := s.getDiary(ctx, req.DiaryID)
	if err != nil {
		return nil, err
	}

	if diary.MemberIndex(req.UserName) >= 0 {
		return &models.JoinDiaryResponse{
			Success:       true,
			Diary:         diary,
			AlreadyMember: true,
			Message:       "Already a member",
		}, nil
	}

	if !s.secretMatchesAnyMember(diary, req.Secret) {
		return nil, newError(KindUnauthorized, "join secret does not match diary %q", req.DiaryID)
	}

	secretHash, err := bcrypt.GenerateFromPassword([]byte(req.Secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Message: "unusable join secret", Err: err}
	}

	member := &models.DiaryMember{
		DiaryID:    req.DiaryID,
		UserName:   req.UserName,
		SecretHash: string(secretHash),
	}

	alreadyMember := false
	if err := s.repo.AddMember(ctx, member); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			// Lost a race against an identical join; fall through to the
			// idempotent success path.
			alreadyMember = true
		case errors.Is(err, repository.ErrNotFound):
			return nil, newError(KindNotFound, "diary %q not found", req.DiaryID)
		default:
			return nil, storeError("add member", err)
		}
	}

	updated, err := s.getDiary(ctx, req.DiaryID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("diary", req.DiaryID).Str("user", req.UserName).
		Bool("alreadyMember", alreadyMember).Msg("diary joined")

	return &models.JoinDiaryResponse{
		Success:       true,
		Diary:         updated,
		AlreadyMember: alreadyMember,
	}, nil
}

// secretMatchesAnyMember checks the shared-knowledge join secret against
// every member's recorded hash. One match is enough: the secret is common
// to the diary, not per user.
func (s *DefaultService) secretMatchesAnyMember(diary *models.Diary, secret string) bool {
	for _, m := range diary.Members {
		if bcrypt.CompareHashAndPassword([]byte(m.SecretHash), []byte(secret)) == nil {
			return true
		}
	}
	return false
}

// GetDiaryInfo returns the diary record.
func (s *DefaultService) GetDiaryInfo(ctx context.Context, req models.DiaryInfoRequest) (*models.DiaryResponse, error) {
	diary, err := s.getDiary(ctx, req.DiaryID)
	if err != nil {
		return nil, err
	}

	return &models.DiaryResponse{Success: true, Diary: diary}, nil
}

// DeleteDiary tears down a whole diary with all entries. Only the creator
// may do this.
func (s *DefaultService) DeleteDiary(ctx context.Context, req models.DeleteDiaryRequest) (*models.DeleteDiaryResponse, error) {
	diary, err := s.getDiary(ctx, req.DiaryID)
	if err != nil {
		return nil, err
	}

	if diary.CreatedBy != req.UserName {
		return nil, newError(KindUnauthorized, "only %q may delete diary %q", diary.CreatedBy, diary.DiaryID)
	}

	if err := s.repo.DeleteDiary(ctx, req.DiaryID); err != nil {
		return nil, storeError("delete diary", err)
	}

	s.log.Info().Str("diary", req.DiaryID).Msg("diary deleted")

	return &models.DeleteDiaryResponse{Success: true, Message: "Diary deleted"}, nil
}

// CreateEntry persists a dated, password-protected entry. The author must
// be a current member, and each member writes at most one entry per date.
func (s *DefaultService) CreateEntry(ctx context.Context, req models.CreateEntryRequest) (*models.EntryResponse, error) {
	diary, err := s.getDiary(ctx, req.DiaryID)
	if err != nil {
		return nil, err
	}

	if diary.MemberIndex(req.UserName) < 0 {
		return nil, &Error{
			Kind:    KindUnauthorized,
			Message: "user is not a member of this diary",
			User:    req.UserName,
		}
	}

	hash := digest.Sum(req.Password)
	entry := &models.Entry{
		DiaryID:      req.DiaryID,
		UserName:     req.UserName,
		Date:         req.Date,
		Content:      req.Content,
		PasswordHash: &hash,
	}

	if err := s.repo.CreateEntry(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(KindConflict, "entry for %s on %s already exists", req.UserName, req.Date)
		}
		return nil, storeError("create entry", err)
	}

	return &models.EntryResponse{Success: true, Entry: entry}, nil
}

// ListUnlockedEntries returns every permanently visible entry of a diary.
func (s *DefaultService) ListUnlockedEntries(ctx context.Context, req models.UnlockedEntriesRequest) (*models.EntriesResponse, error) {
	if _, err := s.getDiary(ctx, req.DiaryID); err != nil {
		return nil, err
	}

	entries, err := s.repo.GetUnlockedEntries(ctx, req.DiaryID)
	if err != nil {
		return nil, storeError("list unlocked entries", err)
	}

	return &models.EntriesResponse{Success: true, Entries: entries}, nil
}

// ListEntryDates returns the distinct dates a diary has entries for.
func (s *DefaultService) ListEntryDates(ctx context.Context, req models.EntryDatesRequest) (*models.EntryDatesResponse, error) {
	if _, err := s.getDiary(ctx, req.DiaryID); err != nil {
		return nil, err
	}

	dates, err := s.repo.GetEntryDates(ctx, req.DiaryID)
	if err != nil {
		return nil, storeError("list entry dates", err)
	}

	return &models.EntryDatesResponse{Success: true, Dates: dates}, nil
}
