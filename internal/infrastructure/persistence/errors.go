package persistence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stockroom/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps a backend failure to the domain error taxonomy while
// keeping the original cause reachable through errors.Is/As.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if isDuplicateKey(err) {
		return fmt.Errorf("%s: %w: %w", op, shared.ErrConflict, err)
	}
	return fmt.Errorf("%s: %w: %w", op, shared.ErrPersistence, err)
}

// isDuplicateKey recognises unique violations. Dialectors translate them to
// gorm.ErrDuplicatedKey when TranslateError is on; the message checks cover
// connections opened without it.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "SQLSTATE 23505")
}
