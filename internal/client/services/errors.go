package services

import (
	"errors"
	"fmt"

	"github.com/FRANCK359/smart-search-ai/internal/common"
)

var (
	// ErrStale is returned by a dispatch that was superseded before it settled.
	ErrStale = errors.New("superseded by a newer request")

	ErrAdminRequired = errors.New("Unauthorized - Admin access required")

	// ErrPending rejects a write on a key whose previous write has not settled.
	ErrPending = errors.New("previous change still pending")

	ErrMessageNotListed = fmt.Errorf("message %w", common.ErrNotFound)
)
