package domain

const MaskedPassword = "********"

type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"nombre"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Enabled      bool   `json:"habilitado"`
}

// UserView is the public representation of a user; the credential is always masked.
type UserView struct {
	ID       int64  `json:"id"`
	Name     string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Enabled  bool   `json:"habilitado"`
}

func (u *User) View() UserView {
	return UserView{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Password: MaskedPassword,
		Enabled:  u.Enabled,
	}
}
