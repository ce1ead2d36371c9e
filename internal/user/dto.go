// AngelaMos | 2026
// dto.go

package user

// UpdateUserRequest is a partial update: nil fields are left untouched.
type UpdateUserRequest struct {
	Username         *string `json:"username,omitempty"           validate:"omitempty,min=1,max=100"`
	Mail             *string `json:"mail,omitempty"               validate:"omitempty,min=1,max=255"`
	Password         *string `json:"password,omitempty"           validate:"omitempty,min=1,max=128"`
	ProfileImagePath *string `json:"profile_image_path,omitempty" validate:"omitempty,max=500"`
	Pro              *bool   `json:"pro,omitempty"`
}

type UserResponse struct {
	ID               int64   `json:"id"`
	Mail             string  `json:"mail"`
	Username         string  `json:"username"`
	ProfileImagePath *string `json:"profile_image_path"`
	Pro              bool    `json:"pro"`
	HavensCount      int     `json:"havens_count"`
}

type UpdateUserResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Mail:             u.Mail,
		Username:         u.Username,
		ProfileImagePath: u.ProfileImagePath,
		Pro:              u.Pro,
		HavensCount:      u.HavensCount,
	}
}
