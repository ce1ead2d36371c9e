// AngelaMos | 2026
// dto.go

package auth

type LoginRequest struct {
	Username string `json:"username" validate:"required_without=Mail,max=100"`
	Mail     string `json:"mail"     validate:"max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type RegisterRequest struct {
	Username         string  `json:"username"                     validate:"required,max=100"`
	Mail             string  `json:"mail"                         validate:"required,max=255"`
	Password         string  `json:"password"                     validate:"required,max=128"`
	ProfileImagePath *string `json:"profile_image_path,omitempty" validate:"omitempty,max=500"`
}

type UserResponse struct {
	ID               int64   `json:"id"`
	Mail             string  `json:"mail"`
	Username         string  `json:"username"`
	ProfileImagePath *string `json:"profile_image_path"`
	Pro              bool    `json:"pro"`
	HavensCount      int     `json:"havens_count"`
}

type AuthResponse struct {
	Message     string       `json:"message"`
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}
