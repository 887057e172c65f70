package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt молча обрезает пароль после 72 байт.
const maxPasswordBytes = 72

func HashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", fmt.Errorf("пароль длиннее %d байт", maxPasswordBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("не удалось хешировать пароль: %w", err)
	}
	return string(hash), nil
}

// ComparePasswords возвращает bcrypt.ErrMismatchedHashAndPassword при неверном пароле.
func ComparePasswords(hashedPassword, plainPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
}
