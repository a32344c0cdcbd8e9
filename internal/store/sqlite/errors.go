package sqlite

import (
	"strings"

	domainerrors "github.com/cupnotes/cupnotes-server/internal/errors"
)

// constraintCodes maps SQLite constraint messages to error codes.
var constraintCodes = []struct {
	fragment string
	code     domainerrors.Code
}{
	{"UNIQUE constraint failed", domainerrors.CodeDuplicateEntry},
	{"PRIMARY KEY constraint failed", domainerrors.CodeDuplicateEntry},
	{"FOREIGN KEY constraint failed", domainerrors.CodeInvalidReference},
	{"NOT NULL constraint failed", domainerrors.CodeMissingData},
	{"CHECK constraint failed", domainerrors.CodeValidation},
}

// classify turns a driver error into a coded domain error when it is a
// constraint violation. Other errors come back unchanged.
func classify(err error, op string) error {
	if err == nil {
		return nil
	}
	if domainerrors.CodeOf(err) != domainerrors.CodeInternal {
		return err
	}
	msg := err.Error()
	for _, c := range constraintCodes {
		if strings.Contains(msg, c.fragment) {
			return domainerrors.Wrap(err, c.code, op)
		}
	}
	return err
}
