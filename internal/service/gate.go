package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sharedpages/diary-server/internal/digest"
	"github.com/sharedpages/diary-server/internal/models"
)

// The entry gate. Entries for a date stay hidden until every one of them is
// authenticated with its author's password in a single request; the unlock
// then clears the digests, which is the permanent visibility signal.
//
// Passwords are aligned to the diary membership by position: passwords[i]
// belongs to diary.Members[i]. Verification does not require the full
// membership to have submitted; it authenticates whatever entries exist for
// the date. Completeness is CheckEntryStatus's concern.

// VerifyPasswords checks the supplied passwords against every entry stored
// for the date. It fails fast on the first mismatch, reporting the partial
// results gathered so far. On success the returned entries still carry
// their digests; clearing them is UnlockEntries' job.
func (s *DefaultService) VerifyPasswords(ctx context.Context, req models.VerifyPasswordsRequest) (*models.VerifyResponse, error) {
	diary, err := s.getDiary(ctx, req.DiaryID)
	if err != nil {
		return nil, err
	}

	if len(req.Passwords) != len(diary.Members) {
		return nil, &Error{
			Kind:     KindCountMismatch,
			Message:  "need one password per diary member",
			Expected: len(diary.Members),
			Provided: len(req.Passwords),
		}
	}

	entries, err := s.repo.GetEntriesByDate(ctx, req.DiaryID, req.Date)
	if err != nil {
		return nil, storeError("get entries", err)
	}

	// Zero entries verify trivially: unlocking an empty date is a no-op.
	results := make([]models.VerificationResult, 0, len(entries))
	for _, entry := range entries {
		idx := diary.MemberIndex(entry.UserName)
		if idx < 0 {
			// The author was removed from membership after writing; stale
			// data is surfaced, never skipped.
			return nil, &Error{
				Kind:    KindUnknownUser,
				Message: "entry author is not a diary member",
				User:    entry.UserName,
			}
		}
		if idx >= len(req.Passwords) {
			return nil, &Error{
				Kind:    KindValidation,
				Message: "member position exceeds password list",
				User:    entry.UserName,
			}
		}

		// Already-unlocked entries need no password; they stay verified
		// forever, which is what makes a repeated unlock idempotent.
		valid := !entry.Locked() || digest.Sum(req.Passwords[idx]) == *entry.PasswordHash
		results = append(results, models.VerificationResult{User: entry.UserName, Valid: valid})

		if !valid {
			return nil, &Error{
				Kind:    KindUnauthorized,
				Message: "invalid password for " + entry.UserName,
				User:    entry.UserName,
				Results: results,
			}
		}
	}

	return &models.VerifyResponse{
		Success: true,
		Message: "All passwords verified successfully",
		Results: results,
		Entries: entries,
	}, nil
}

// UnlockEntries verifies the passwords and, on full success, clears every
// remaining digest for the date. The clears are independent per-row writes
// dispatched concurrently; there is no cross-row transaction. A failure
// part-way leaves some entries unlocked, which is accepted: re-running the
// same unlock re-verifies and re-clears without harm.
func (s *DefaultService) UnlockEntries(ctx context.Context, req models.UnlockEntriesRequest) (*models.UnlockResponse, error) {
	verified, err := s.VerifyPasswords(ctx, models.VerifyPasswordsRequest(req))
	if err != nil {
		return nil, err
	}

	var locked []models.Entry
	for _, entry := range verified.Entries {
		if entry.Locked() {
			locked = append(locked, entry)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, entry := range locked {
		g.Go(func() error {
			return s.repo.ClearEntryDigest(ctx, entry.ID)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, storeError("clear entry digests", err)
	}

	s.log.Info().Str("diary", req.DiaryID).Str("date", req.Date).
		Int("unlocked", len(locked)).Msg("entries unlocked")

	return &models.UnlockResponse{
		Success:       true,
		Message:       "Entries unlocked successfully",
		UnlockedCount: len(locked),
	}, nil
}

// CheckEntryStatus reports which members have and have not submitted for a
// date. Pure read; locked entries are redacted.
func (s *DefaultService) CheckEntryStatus(ctx context.Context, req models.EntryStatusRequest) (*models.EntryStatusResponse, error) {
	diary, err := s.getDiary(ctx, req.DiaryID)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.GetEntriesByDate(ctx, req.DiaryID, req.Date)
	if err != nil {
		return nil, storeError("get entries", err)
	}

	submitted := make([]string, 0, len(entries))
	submittedSet := make(map[string]bool, len(entries))
	redacted := make([]models.Entry, 0, len(entries))
	for _, entry := range entries {
		submitted = append(submitted, entry.UserName)
		submittedSet[entry.UserName] = true
		redacted = append(redacted, entry.Redacted())
	}

	// Missing users keep membership order.
	missing := make([]string, 0)
	for _, name := range diary.MemberNames() {
		if !submittedSet[name] {
			missing = append(missing, name)
		}
	}

	return &models.EntryStatusResponse{
		Success:        true,
		AllSubmitted:   len(entries) >= len(diary.Members),
		Expected:       len(diary.Members),
		Actual:         len(entries),
		SubmittedUsers: submitted,
		MissingUsers:   missing,
		Entries:        redacted,
	}, nil
}
