package services

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers translate these to HTTP statuses; every service error
// below wraps exactly one of them.
var (
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrBusinessRule = errors.New("business rule violation")
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
	ErrUsernameExists     = fmt.Errorf("%w: username already exists", ErrConflict)
	ErrUserNotFound       = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrAdminDeletion      = fmt.Errorf("%w: admin accounts cannot be deleted", ErrBusinessRule)

	ErrCategoryNotFound   = fmt.Errorf("%w: category not found", ErrNotFound)
	ErrCategoryNameExists = fmt.Errorf("%w: category name already exists", ErrConflict)
	ErrCategoryInUse      = fmt.Errorf("%w: category still has products", ErrBusinessRule)

	ErrProductNotFound = fmt.Errorf("%w: product not found", ErrNotFound)
	ErrProductInUse    = fmt.Errorf("%w: product is referenced by orders", ErrBusinessRule)
	ErrUnknownCategory = fmt.Errorf("%w: category does not exist", ErrBadRequest)

	ErrTableNotFound     = fmt.Errorf("%w: table not found", ErrNotFound)
	ErrTableNumberExists = fmt.Errorf("%w: table number already exists", ErrConflict)
	ErrTableInUse        = fmt.Errorf("%w: table still has orders", ErrBusinessRule)

	ErrOrderNotFound      = fmt.Errorf("%w: order not found", ErrNotFound)
	ErrOrderItemNotFound  = fmt.Errorf("%w: order item not found", ErrNotFound)
	ErrUnknownTable       = fmt.Errorf("%w: table does not exist", ErrBadRequest)
	ErrProductUnavailable = fmt.Errorf("%w: product is not available", ErrBadRequest)
)
