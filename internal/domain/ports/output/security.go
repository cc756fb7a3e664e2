package ports

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type TokenGenerator interface {
	Generate() (string, error)
	Hash(token string) string
}
