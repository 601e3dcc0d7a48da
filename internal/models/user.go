package models

type Subscription string

const (
	SubscriptionStarter  Subscription = "starter"
	SubscriptionPro      Subscription = "pro"
	SubscriptionBusiness Subscription = "business"
)

type User struct {
	BaseModel
	Email        string       `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string       `gorm:"not null" json:"-"`
	Subscription Subscription `gorm:"type:varchar(20);default:'starter'" json:"subscription"`

	// Verified flips to true exactly once; VerificationToken is cleared
	// in the same update and is never reissued afterwards.
	Verified          bool   `gorm:"default:false" json:"verified"`
	VerificationToken string `json:"-"`

	// Token holds the most recently issued session JWT. The auth
	// middleware accepts only this token, so logout and re-login both
	// invalidate everything issued earlier.
	Token string `json:"-"`

	AvatarURL string `json:"avatar_url"`
}
