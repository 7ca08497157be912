package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/retail-admin-backend/pkg/pagination"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Conn returns the raw connection, used to rebind a repository to a transaction.
func (b Base) Conn() *gorm.DB {
	return b.db
}

// Page applies limit/offset to a query. Callers clamp to the configured
// ceiling; a missing limit falls back to the package default.
func Page(q *gorm.DB, p pagination.Params) *gorm.DB {
	if p.Limit <= 0 {
		p.Limit = pagination.DefaultLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return q.Limit(p.Limit).Offset(p.Offset)
}
