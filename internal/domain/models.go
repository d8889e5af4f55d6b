package domain

import "time"

// Unanswered marks a question the participant never selected an option for.
// It can never match a correct index, so it always scores as incorrect.
const Unanswered = -1

// OptionsPerQuestion is the fixed option count every question carries.
const OptionsPerQuestion = 4

// Question is a single multiple-choice item tied to a reading passage.
type Question struct {
	Text        string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Explanation string   `json:"explanation"`
}

// Category bundles one reading passage with its ordered questions.
// Key is a URL-safe slug derived from Name.
type Category struct {
	Key         string     `json:"key"`
	Name        string     `json:"name"`
	ReadingText string     `json:"readingText"`
	Questions   []Question `json:"questions"`
}

// Clone returns a deep copy so an in-progress quiz session is isolated
// from later admin edits.
func (c Category) Clone() Category {
	out := c
	out.Questions = make([]Question, len(c.Questions))
	for i, q := range c.Questions {
		out.Questions[i] = q
		out.Questions[i].Options = append([]string(nil), q.Options...)
	}
	return out
}

// RoomCode is a short-lived join token bound to one category.
type RoomCode struct {
	Code        string    `json:"code"`
	CategoryKey string    `json:"category_key"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the code is past its TTL at the given instant.
func (rc RoomCode) Expired(now time.Time) bool {
	return !now.Before(rc.ExpiresAt)
}

// Score summarizes one participant's results.
type Score struct {
	Correct    int `json:"correct"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Role identifies what an authenticated actor may do.
type Role int

const (
	RoleStudent Role = iota
	RoleAdmin
)

func (r Role) String() string {
	if r == RoleAdmin {
		return "admin"
	}
	return "student"
}
