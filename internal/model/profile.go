package model

// Gender values accepted by the profile API.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// AgeRange bounds the ages a user wants to see.
type AgeRange struct {
	Min int `json:"min" validate:"gte=18,lte=100"`
	Max int `json:"max" validate:"gte=18,lte=100,gtefield=Min"`
}

// Preferences drive match discovery.
type Preferences struct {
	AgeRange    AgeRange `json:"ageRange"`
	Gender      []string `json:"gender" validate:"dive,oneof=male female other"`
	MaxDistance int      `json:"maxDistance" validate:"gte=0"`
}

// Profile is the editable part of a user's profile.
type Profile struct {
	Name           string      `json:"name" validate:"required"`
	Age            int         `json:"age" validate:"required,gte=18,lte=100"`
	Gender         string      `json:"gender" validate:"required,oneof=male female other"`
	Bio            string      `json:"bio" validate:"required"`
	Interests      []string    `json:"interests"`
	Location       *Location   `json:"location,omitempty"`
	Preferences    Preferences `json:"preferences"`
	ProfilePicture string      `json:"profilePicture,omitempty"`
}

// ProfileUpdate is a partial profile; nil fields are left unchanged.
type ProfileUpdate struct {
	Name        *string      `json:"name,omitempty" validate:"omitempty,min=1"`
	Age         *int         `json:"age,omitempty" validate:"omitempty,gte=18,lte=100"`
	Gender      *string      `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Bio         *string      `json:"bio,omitempty"`
	Interests   []string     `json:"interests,omitempty"`
	Location    *Location    `json:"location,omitempty"`
	Preferences *Preferences `json:"preferences,omitempty"`
}

// ProfileResponse is a stored profile as returned by the API.
type ProfileResponse struct {
	Profile
	ID              string `json:"_id"`
	Email           string `json:"email"`
	IsEmailVerified bool   `json:"isEmailVerified"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}
