package domain

import "context"

// ServicePort defines the service contract for routine management
type ServicePort interface {
	Create(ctx context.Context, in CreateRoutineInput) (Routine, error)
	Get(ctx context.Context, in RoutineRef) (RoutineDetail, error)
	List(ctx context.Context, in ListRoutinesInput) ([]Routine, error)
	Update(ctx context.Context, in UpdateRoutineInput) (Routine, error)
	Delete(ctx context.Context, in RoutineRef) error

	Publish(ctx context.Context, in RoutineRef) (Routine, error)
	Unpublish(ctx context.Context, in RoutineRef) (Routine, error)

	AddProduct(ctx context.Context, in AddProductInput) (Product, error)
	UpdateProduct(ctx context.Context, in UpdateProductInput) (Product, error)
	DeleteProduct(ctx context.Context, in ProductRef) error
}
