package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrTransactionExisted    = errors.New("TRANSACTION_EXISTED")
	ErrTransactionNotFound   = errors.New("TRANSACTION_NOT_FOUND")
	ErrAccountNotFound       = errors.New("ACCOUNT_NOT_FOUND")
	ErrJustificationNotFound = errors.New("JUSTIFICATION_NOT_FOUND")
	ErrInvalidTransition     = errors.New("INVALID_STATUS_TRANSITION")
	ErrJustificationChanged  = errors.New("JUSTIFICATION_CHANGED")
)

const mysqlDuplicateEntry = 1062

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return true
	}

	// sqlite backs the repository tests
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
