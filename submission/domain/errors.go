package domain

import "errors"

// Mensagens devolvidas ao cliente literalmente.
var (
	ErrContentTypeMissing     = errors.New("No Content-Type provided!")
	ErrInvalidJSON            = errors.New("Invalid JSON data")
	ErrInvalidFormData        = errors.New("Invalid Form data")
	ErrUnsupportedContentType = errors.New("Content-Type not supported!")
	ErrUnsupportedDataType    = errors.New("Unsupported data type")
	ErrOriginRejected         = errors.New("Invalid request source")
)

// StorageError embrulha falhas do backend de persistência. A mensagem é a do
// backend, sem prefixo, porque é devolvida ao cliente.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }
