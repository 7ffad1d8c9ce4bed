package sqlstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql" // also registers the "mysql" driver

	"github.com/geocoder89/workoutseed/internal/store"
)

// mapError maps constraint violations to store sentinels. MySQL errors are
// matched by number; SQLite only exposes them through the message text.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1062:
			return fmt.Errorf("%w: %w", store.ErrDuplicate, err)
		case 1451, 1452:
			return fmt.Errorf("%w: %w", store.ErrForeignKey, err)
		}
		return err
	}

	le := strings.ToLower(err.Error())
	switch {
	case strings.Contains(le, "unique constraint") || strings.Contains(le, "duplicate"):
		return fmt.Errorf("%w: %w", store.ErrDuplicate, err)
	case strings.Contains(le, "foreign key constraint"):
		return fmt.Errorf("%w: %w", store.ErrForeignKey, err)
	}
	return err
}
