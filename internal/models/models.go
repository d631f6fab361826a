package models

import (
	"time"
)

// Diary types. The type only affects presentation, never gating logic.
const (
	DiaryTypePair  = "pair"
	DiaryTypeGroup = "group"
)

// Diary represents a shared diary and its ordered membership.
type Diary struct {
	DiaryID   string    `db:"diary_id" json:"diaryId"`
	Type      string    `db:"type" json:"type"`
	CreatedBy string    `db:"created_by" json:"createdBy"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	// Members is loaded ordered by position. Insertion order defines the
	// positional alignment with password arrays during verification.
	Members []DiaryMember `json:"members"`
}

// MemberNames returns the member display names in membership order.
func (d *Diary) MemberNames() []string {
	names := make([]string, len(d.Members))
	for i, m := range d.Members {
		names[i] = m.UserName
	}
	return names
}

// MemberIndex returns the positional index of the named member, or -1 when
// the name is not part of the current membership.
func (d *Diary) MemberIndex(name string) int {
	for i, m := range d.Members {
		if m.UserName == name {
			return i
		}
	}
	return -1
}

// DiaryMember represents one member row of a diary. The join secret hash
// never leaves the server.
type DiaryMember struct {
	DiaryID    string    `db:"diary_id" json:"-"`
	UserName   string    `db:"user_name" json:"userName"`
	Position   int       `db:"position" json:"position"`
	SecretHash string    `db:"secret_hash" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Entry represents one member's dated, password-protected contribution.
// A nil PasswordHash is the permanent unlocked state.
type Entry struct {
	ID           string    `db:"id" json:"id"`
	DiaryID      string    `db:"diary_id" json:"diaryId"`
	UserName     string    `db:"user_name" json:"userName"`
	Date         string    `db:"date" json:"date"`
	Content      string    `db:"content" json:"content"`
	PasswordHash *string   `db:"password_hash" json:"passwordHash,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Locked reports whether the entry still carries its password digest.
func (e *Entry) Locked() bool {
	return e.PasswordHash != nil
}

// Redacted returns a copy safe to expose before the entry is unlocked:
// content is withheld while the digest is present.
func (e Entry) Redacted() Entry {
	if e.Locked() {
		e.Content = ""
	}
	return e
}
