package domain

// UserRef — пользователь, аутентифицированный внешним провайдером
type UserRef struct {
	UID   string
	Email string
	Name  string
}
