// File: internal/plugin/hooks.go
package plugin

import "context"

// Hooks defines lifecycle callbacks around row operations. entity is the
// record being written; id is the primary-key value targeted. A Before error
// aborts the operation for that row. After callbacks run only once the
// statement succeeded.
type Hooks interface {
	BeforeCreate(ctx context.Context, table string, entity interface{}) error
	AfterCreate(ctx context.Context, table string, entity interface{}) error
	BeforeUpdate(ctx context.Context, table string, entity interface{}, id interface{}) error
	AfterUpdate(ctx context.Context, table string, entity interface{}, id interface{}) error
	BeforeDelete(ctx context.Context, table string, id interface{}) error
	AfterDelete(ctx context.Context, table string, id interface{}) error
}

// Nop implements Hooks with no-ops; embed it to override a subset.
type Nop struct{}

func (Nop) BeforeCreate(context.Context, string, interface{}) error              { return nil }
func (Nop) AfterCreate(context.Context, string, interface{}) error               { return nil }
func (Nop) BeforeUpdate(context.Context, string, interface{}, interface{}) error { return nil }
func (Nop) AfterUpdate(context.Context, string, interface{}, interface{}) error  { return nil }
func (Nop) BeforeDelete(context.Context, string, interface{}) error              { return nil }
func (Nop) AfterDelete(context.Context, string, interface{}) error               { return nil }
