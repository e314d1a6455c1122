// +build ignore

// generate_hash.go — утилита для генерации Argon2id хеша пароля админ-панели.
//
// Запуск: go run scripts/generate_hash.go ваш_пароль
// Без аргумента пароль читается со stdin (не остаётся в истории шелла).
//
// Строку результата вставьте в .env.
package main

import (
	"bufio"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Параметры Argon2id. Должны совпадать с проверкой в internal/features/admin.
const (
	memory      uint32 = 65536 // 64 MB
	iterations  uint32 = 3
	parallelism uint8  = 2
	keyLength   uint32 = 32
	saltLength         = 16
)

func main() {
	password, err := readPassword()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка чтения пароля: %v\n", err)
		os.Exit(1)
	}
	if password == "" {
		fmt.Fprintln(os.Stderr, "Пустой пароль не годится")
		os.Exit(1)
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка генерации соли: %v\n", err)
		os.Exit(1)
	}

	hash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, keyLength)

	encoded := fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory, iterations, parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash))

	fmt.Println("Добавьте строку в .env:")
	fmt.Printf("ADMIN_PASSWORD_HASH=%s\n", encoded)
}

func readPassword() (string, error) {
	if len(os.Args) >= 2 {
		return os.Args[1], nil
	}
	fmt.Fprint(os.Stderr, "Пароль: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
