package utils

import "golang.org/x/crypto/bcrypt"

// bcrypt work factor. Signup runs matching synchronously, so hashing stays
// at the default cost rather than something slower.
const hashCost = bcrypt.DefaultCost

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	return string(b), err
}

func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
