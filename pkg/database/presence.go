package database

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/catalog/pkg/metrics"
	"github.com/shashiranjanraj/catalog/pkg/validate"
)

var identRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Presence answers the exists/unique validation rules with one COUNT query
// per rule. Table and column names come from struct tags and are checked
// to be plain identifiers.
type Presence struct {
	db *gorm.DB
}

// NewPresence returns a verifier over db.
func NewPresence(db *gorm.DB) *Presence {
	return &Presence{db: db}
}

var _ validate.PresenceVerifier = (*Presence)(nil)

func (p *Presence) Count(ctx context.Context, table string, conds ...validate.Condition) (int64, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	if !identRE.MatchString(table) {
		return 0, fmt.Errorf("database: presence: invalid table %q", table)
	}

	q := p.db.WithContext(ctx).Table(table)
	for _, c := range conds {
		if !identRE.MatchString(c.Column) {
			return 0, fmt.Errorf("database: presence: invalid column %q", c.Column)
		}
		col := clause.Column{Name: c.Column}

		if c.Lookup != nil {
			if !identRE.MatchString(c.Lookup.Column) {
				return 0, fmt.Errorf("database: presence: invalid column %q", c.Lookup.Column)
			}
			sub := p.db.Table(table).
				Select(c.Lookup.Column).
				Where(clause.Eq{Column: clause.Column{Name: "id"}, Value: c.Lookup.ID})
			op := "? = (?)"
			if c.Not {
				op = "? <> (?)"
			}
			q = q.Where(op, col, sub)
			continue
		}

		if c.Not {
			q = q.Where(clause.Neq{Column: col, Value: c.Value})
		} else {
			q = q.Where(clause.Eq{Column: col, Value: c.Value})
		}
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("database: presence %s: %w", table, err)
	}
	return n, nil
}
