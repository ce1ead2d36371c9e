// AngelaMos | 2026
// entity.go

package user

type User struct {
	ID               int64   `db:"id"`
	Mail             string  `db:"mail"`
	Username         string  `db:"username"`
	ProfileImagePath *string `db:"profile_image_path"`
	PasswordHash     string  `db:"password_hash"`
	Pro              bool    `db:"pro"`
	HavensCount      int     `db:"havens_count"`
}

func (u *User) HasProfileImage() bool {
	return u.ProfileImagePath != nil && *u.ProfileImagePath != ""
}
