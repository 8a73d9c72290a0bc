package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// isUniqueViolation reconhece violação de constraint UNIQUE. Checa o código
// SQLSTATE quando o erro vem do pgx; cai para a mensagem quando vem embrulhado
// por um mock ou driver intermediário.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, uniqueViolationCode) || strings.Contains(msg, "duplicate key")
}
