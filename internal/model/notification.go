package model

// Notification kinds delivered on the personal topic
const (
	NotificationChallenge = "CHALLENGE"
	NotificationDeclined  = "DECLINED"
)

// Notification is a personal-channel event, independent of any match the
// player is currently viewing
type Notification struct {
	Type    string  `json:"type"`
	Message string  `json:"message"`
	MatchID MatchID `json:"gameId"`
	Sender  string  `json:"sender"`
}
