package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// IdentityPattern определяет допустимый формат identity
// Латинские буквы, цифры, нижнее подчеркивание, точка и дефис
var IdentityPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

const (
	// MinIdentityLen минимальная длина identity
	MinIdentityLen = 3
	// MaxIdentityLen максимальная длина identity
	MaxIdentityLen = 64
	// MinPassphraseLen минимальная длина пароля шифрования
	MinPassphraseLen = 12
)

// ValidateIdentity проверяет имя, под которым реплики синхронизируются.
// Identity используется в токене, в пути к логу версий на сервере и в соли ключа.
func ValidateIdentity(identity string) error {
	if identity == "" {
		return fmt.Errorf("identity cannot be empty")
	}

	if len(identity) < MinIdentityLen {
		return fmt.Errorf("identity must be at least %d characters long", MinIdentityLen)
	}

	if len(identity) > MaxIdentityLen {
		return fmt.Errorf("identity must not exceed %d characters", MaxIdentityLen)
	}

	if !IdentityPattern.MatchString(identity) {
		return fmt.Errorf("identity can only contain letters (a-z, A-Z), numbers (0-9), '_', '.' and '-'")
	}

	// "." и ".." зарезервированы
	if strings.Trim(identity, ".") == "" {
		return fmt.Errorf("identity cannot consist of dots only")
	}

	return nil
}

// ValidatePassphrase проверяет минимальные требования к паролю шифрования
func ValidatePassphrase(passphrase string) error {
	if passphrase == "" {
		return fmt.Errorf("passphrase cannot be empty")
	}

	if len(passphrase) < MinPassphraseLen {
		return fmt.Errorf("passphrase must be at least %d characters long", MinPassphraseLen)
	}

	return nil
}
