package user

// User は利用者エンティティを表す
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	IsAdmin      bool
}

// NewUser は新しい一般利用者を作成する
func NewUser(firstName, lastName, email, passwordHash string) *User {
	return &User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
		IsAdmin:      false,
	}
}
