package profiles

// Role values stored on a profile. Anything else is rejected at the API edge.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Profile struct {
	ID        string  `gorm:"primaryKey" json:"id"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	AvatarURL *string `json:"avatar_url"`
	Role      string  `gorm:"default:'user';not null" json:"role"`
	Plan      string  `gorm:"default:'free';not null" json:"plan"`
}

func (Profile) TableName() string { return "app_auth.profiles" }
