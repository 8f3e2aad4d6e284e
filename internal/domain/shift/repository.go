package shift

import "context"

type TemplateRepository interface {
	Create(ctx context.Context, tpl Template) (Template, error)
	GetByID(ctx context.Context, id string) (Template, error)
	GetByName(ctx context.Context, name string) (Template, error)
	List(ctx context.Context, activeOnly bool) ([]Template, error)
	Update(ctx context.Context, tpl Template) error
	// CountActiveAssignments reports how many active schedule assignments
	// reference the template; retirement is blocked while it is non-zero.
	CountActiveAssignments(ctx context.Context, templateID string) (int64, error)
	// Retire soft-deletes the template so history keeps resolving.
	Retire(ctx context.Context, id string) error
}
