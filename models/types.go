package models

// User is the resolved identity for the current session. Never mutated by
// the engines.
type User struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Member is a roster record. CodeHash is the bcrypt hash of the member's
// access code and is stripped before roster data is sent to a client.
type Member struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Number   int    `json:"number"`
	CodeHash string `json:"codeHash,omitempty"`
}

// Match is a scheduled fixture shown on the team page.
type Match struct {
	Opponent  string `json:"opponentName"`
	MatchTime string `json:"matchTime"`
	Location  string `json:"matchLocation"`
	Kind      string `json:"matchType"`
}

type Post struct {
	ID         string    `json:"id"`
	Author     string    `json:"author"`
	AuthorCode string    `json:"authorCode"`
	Text       string    `json:"text"`
	Timestamp  string    `json:"timestamp"`
	Likes      int       `json:"likes"`
	LikedBy    []string  `json:"likedBy"`
	Comments   []Comment `json:"comments"`
}

// Comment has no identity of its own; it is ordered by its position in the
// parent post's comment list.
type Comment struct {
	Author    string `json:"author"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// ChatMessage is a shared-channel message. Type is always "general".
type ChatMessage struct {
	Author     string `json:"author"`
	AuthorCode string `json:"authorCode"`
	Text       string `json:"text"`
	Timestamp  string `json:"timestamp"`
	Type       string `json:"type"`
}

// PrivateMessage is a pair-channel message. ChannelID is derived from the
// two participant codes, never user-supplied.
type PrivateMessage struct {
	Sender     string `json:"sender"`
	SenderCode string `json:"senderCode"`
	Receiver   string `json:"receiver"`
	Text       string `json:"text"`
	Timestamp  string `json:"timestamp"`
	ChannelID  string `json:"chatId"`
}
