package services

import (
	"fmt"

	"betafeedback/pkg/utils"
)

// storeError wraps a repository failure so handlers answer 500 while the
// original error stays reachable for logging.
func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, utils.ErrDatabaseError, err)
}
