package models

// Request models. Each API action binds exactly one of these.

type CreateDiaryRequest struct {
	DiaryID  string `json:"diaryId" binding:"required"`
	UserName string `json:"userName" binding:"required"`
	Type     string `json:"type" binding:"required,oneof=pair group"`
	Secret   string `json:"secret" binding:"required"`
}

type JoinDiaryRequest struct {
	DiaryID  string `json:"diaryId" binding:"required"`
	UserName string `json:"userName" binding:"required"`
	Secret   string `json:"secret" binding:"required"`
}

type CreateEntryRequest struct {
	DiaryID  string `json:"diaryId" binding:"required"`
	UserName string `json:"userName" binding:"required"`
	Date     string `json:"date" binding:"required,datetime=2006-01-02"`
	Content  string `json:"content" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type VerifyPasswordsRequest struct {
	DiaryID   string   `json:"diaryId" binding:"required"`
	Date      string   `json:"date" binding:"required,datetime=2006-01-02"`
	Passwords []string `json:"passwords" binding:"required"`
}

type UnlockEntriesRequest struct {
	DiaryID   string   `json:"diaryId" binding:"required"`
	Date      string   `json:"date" binding:"required,datetime=2006-01-02"`
	Passwords []string `json:"passwords" binding:"required"`
}

type DiaryInfoRequest struct {
	DiaryID string `json:"diaryId" binding:"required"`
}

type EntryStatusRequest struct {
	DiaryID string `json:"diaryId" binding:"required"`
	Date    string `json:"date" binding:"required,datetime=2006-01-02"`
}

type UnlockedEntriesRequest struct {
	DiaryID string `json:"diaryId" binding:"required"`
}

type EntryDatesRequest struct {
	DiaryID string `json:"diaryId" binding:"required"`
}

type DeleteDiaryRequest struct {
	DiaryID  string `json:"diaryId" binding:"required"`
	UserName string `json:"userName" binding:"required"`
}

// Response models. Every response carries a success indicator.

type DiaryResponse struct {
	Success bool   `json:"success"`
	Diary   *Diary `json:"diary"`
}

type JoinDiaryResponse struct {
	Success       bool   `json:"success"`
	Diary         *Diary `json:"diary"`
	AlreadyMember bool   `json:"alreadyMember"`
	Message       string `json:"message,omitempty"`
}

type EntryResponse struct {
	Success bool   `json:"success"`
	Entry   *Entry `json:"entry"`
}

// VerificationResult records the outcome of one entry's password check.
type VerificationResult struct {
	User  string `json:"user"`
	Valid bool   `json:"valid"`
}

type VerifyResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Results []VerificationResult `json:"results"`
	Entries []Entry              `json:"entries"`
}

type UnlockResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message,omitempty"`
	UnlockedCount int    `json:"unlockedCount"`
}

type EntryStatusResponse struct {
	Success        bool     `json:"success"`
	AllSubmitted   bool     `json:"allSubmitted"`
	Expected       int      `json:"expected"`
	Actual         int      `json:"actual"`
	SubmittedUsers []string `json:"submittedUsers"`
	MissingUsers   []string `json:"missingUsers"`
	Entries        []Entry  `json:"entries"`
}

type EntriesResponse struct {
	Success bool    `json:"success"`
	Entries []Entry `json:"entries"`
}

type EntryDatesResponse struct {
	Success bool     `json:"success"`
	Dates   []string `json:"dates"`
}

type DeleteDiaryResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type PingResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type ErrorResponse struct {
	Success  bool                 `json:"success"`
	Code     string               `json:"code"`
	Message  string               `json:"message"`
	User     string               `json:"user,omitempty"`
	Expected int                  `json:"expected,omitempty"`
	Provided int                  `json:"provided,omitempty"`
	Results  []VerificationResult `json:"results,omitempty"`
}
