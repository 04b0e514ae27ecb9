package validate

import (
	"context"
	"fmt"
	"strings"
)

// Condition is one constraint of a presence query.
//
// With Lookup set, the column is compared against the Lookup.Column value of
// the row whose id is Lookup.ID in the same table, resolved inside the query.
type Condition struct {
	Column string
	Value  any
	Not    bool
	Lookup *RowLookup
}

// RowLookup references a column of another row by id.
type RowLookup struct {
	Column string
	ID     any
}

// PresenceVerifier counts rows of table matching every condition in a single
// query. Implementations must not cache results across calls.
type PresenceVerifier interface {
	Count(ctx context.Context, table string, conds ...Condition) (int64, error)
}

func (val *Validator) databaseRule(ctx context.Context, key, param string, f field) (string, error) {
	args := strings.Split(param, ",")
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}

	switch key {
	case "exists":
		if len(args) < 2 {
			return "", fmt.Errorf("validate: exists needs table,column (got %q)", param)
		}
		n, err := val.presence.Count(ctx, args[0], Condition{Column: args[1], Value: f.typed()})
		if err != nil {
			return "", fmt.Errorf("validate: exists %s.%s: %w", args[0], args[1], err)
		}
		if n == 0 {
			return fmt.Sprintf("The selected %s is invalid.", f.name), nil
		}

	case "unique":
		if len(args) < 2 {
			return "", fmt.Errorf("validate: unique needs table,column[,ignore] (got %q)", param)
		}
		conds := []Condition{{Column: args[1], Value: f.typed()}}
		if len(args) > 2 {
			if id, ok := siblingValue(f.parent, args[2]); ok {
				conds = append(conds, Condition{Column: "id", Value: id, Not: true})
			}
		}
		n, err := val.presence.Count(ctx, args[0], conds...)
		if err != nil {
			return "", fmt.Errorf("validate: unique %s.%s: %w", args[0], args[1], err)
		}
		if n > 0 {
			return fmt.Sprintf("The %s has already been taken.", f.name), nil
		}

	case "unique_scoped":
		if len(args) < 3 {
			return "", fmt.Errorf("validate: unique_scoped needs table,column,scope[,ignore] (got %q)", param)
		}
		n, err := val.presence.Count(ctx, args[0], scopedConditions(args, f)...)
		if err != nil {
			return "", fmt.Errorf("validate: unique_scoped %s.%s: %w", args[0], args[1], err)
		}
		if n > 0 {
			return fmt.Sprintf("The %s has already been taken for the selected %s.",
				f.name, strings.TrimSuffix(args[2], "_id")), nil
		}

	case "unique_rescoped":
		if len(args) < 4 {
			return "", fmt.Errorf("validate: unique_rescoped needs table,column,field,ignore (got %q)", param)
		}
		if _, submitted := siblingValue(f.parent, args[2]); submitted {
			return "", nil
		}
		ignoreID, ok := siblingValue(f.parent, args[3])
		if !ok {
			return "", nil
		}
		n, err := val.presence.Count(ctx, args[0],
			Condition{Column: args[1], Lookup: &RowLookup{Column: args[1], ID: ignoreID}},
			Condition{Column: f.name, Value: f.typed()},
			Condition{Column: "id", Value: ignoreID, Not: true},
		)
		if err != nil {
			return "", fmt.Errorf("validate: unique_rescoped %s.%s: %w", args[0], args[1], err)
		}
		if n > 0 {
			return fmt.Sprintf("The %s has already been taken for the selected %s.",
				args[2], strings.TrimSuffix(f.name, "_id")), nil
		}
	}

	return "", nil
}

// scopedConditions builds: column = value AND scope = scopeValue [AND id <> ignore].
// When the scope field is absent but an ignored id is given, the scope is the
// ignored row's own scope value.
func scopedConditions(args []string, f field) []Condition {
	column, scope := args[1], args[2]

	conds := []Condition{{Column: column, Value: f.typed()}}

	var ignoreID any
	var hasIgnore bool
	if len(args) > 3 {
		ignoreID, hasIgnore = siblingValue(f.parent, args[3])
	}

	if scopeValue, ok := siblingValue(f.parent, scope); ok {
		conds = append(conds, Condition{Column: scope, Value: scopeValue})
	} else if hasIgnore {
		conds = append(conds, Condition{Column: scope, Lookup: &RowLookup{Column: scope, ID: ignoreID}})
	} else {
		conds = append(conds, Condition{Column: scope, Value: nil})
	}

	if hasIgnore {
		conds = append(conds, Condition{Column: "id", Value: ignoreID, Not: true})
	}
	return conds
}
