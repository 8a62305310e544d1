package model

// Location is a GeoJSON point.
type Location struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// PotentialMatch is a candidate profile offered for swiping.
type PotentialMatch struct {
	ID             string    `json:"_id"`
	Name           string    `json:"name,omitempty"`
	Age            int       `json:"age,omitempty"`
	Gender         string    `json:"gender,omitempty"`
	Location       *Location `json:"location,omitempty"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	Interests      []string  `json:"interests"`
}

// Match is a mutual like.
type Match struct {
	MatchID   string      `json:"matchId"`
	User      Participant `json:"user"`
	CreatedAt string      `json:"createdAt"`
}

// MatchAction values.
const (
	ActionLike = "like"
	ActionPass = "pass"
)

// UserAction is the body of POST /match/action.
type UserAction struct {
	TargetUserID string `json:"targetUserId" validate:"required"`
	Action       string `json:"action" validate:"required,oneof=like pass"`
}

// MatchActionResult reports whether a like produced a match.
type MatchActionResult struct {
	Message string `json:"message"`
	IsMatch bool   `json:"isMatch"`
}
