package shift

import "context"

type TemplateService interface {
	Create(ctx context.Context, req CreateTemplateRequest) (TemplateResponse, error)
	Get(ctx context.Context, id string) (TemplateResponse, error)
	List(ctx context.Context, activeOnly bool) ([]TemplateResponse, error)
	Update(ctx context.Context, req UpdateTemplateRequest) (TemplateResponse, error)
	Retire(ctx context.Context, id string) error
}
