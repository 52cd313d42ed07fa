package profile

import "time"

type Profile struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	FullName  *string   `json:"full_name"`
	Phone     *string   `json:"phone"`
	AvatarURL *string   `json:"avatar_url"`
	CityID    *int64    `json:"city_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateProfileInput carries a partial update: nil fields keep their value.
type UpdateProfileInput struct {
	FullName  *string `json:"full_name"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
	CityID    *int64  `json:"city_id"`
}
