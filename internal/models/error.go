package models

import "errors"

// ErrorCode representa el código de error
type ErrorCode string

const (
	ErrorCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrorCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrorCodeStoreError       ErrorCode = "STORE_ERROR"
	ErrorCodeCorruptData      ErrorCode = "CORRUPT_DATA"
	ErrorCodeInvalidTransport ErrorCode = "INVALID_TRANSPORT"
	ErrorCodeInternal         ErrorCode = "INTERNAL"
)

// Errores del mapper sobre datos persistidos
var (
	// ErrCorruptLines indica que la columna de líneas no contiene un arreglo JSON válido
	ErrCorruptLines = errors.New("corrupt invoice lines")
	// ErrInvalidTransport indica que el transporte almacenado no es numérico
	ErrInvalidTransport = errors.New("invalid transport value")
	// ErrInvoiceNotFound indica que no existe una factura con el id solicitado
	ErrInvoiceNotFound = errors.New("invoice not found")
)

// StoreError representa cualquier fallo del almacenamiento (conexión,
// violación de constraint, SQL malformado)
type StoreError struct {
	Op  string
	Err error
}

// Error implementa la interfaz error
func (e *StoreError) Error() string {
	return "store " + e.Op + ": " + e.Err.Error()
}

// Unwrap expone el error subyacente
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError crea un StoreError para una operación
func NewStoreError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// ErrorDetail representa un detalle específico del error
type ErrorDetail struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// ErrorResponse representa la respuesta de error estandarizada.
// Nunca se reenvía el error interno del driver al cliente.
type ErrorResponse struct {
	Error ErrorInfo `json:"error"`
}

// ErrorInfo representa la información del error
type ErrorInfo struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// NewErrorResponse crea una nueva respuesta de error
func NewErrorResponse(code ErrorCode, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorInfo{
			Code:    string(code),
			Message: message,
		},
	}
}

// NewValidationError crea un error de validación con detalles
func NewValidationError(message string, details []ErrorDetail) ErrorResponse {
	return ErrorResponse{
		Error: ErrorInfo{
			Code:    string(ErrorCodeInvalidRequest),
			Message: message,
			Details: details,
		},
	}
}

// NewNotFoundError crea un error de recurso no encontrado
func NewNotFoundError(message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorInfo{
			Code:    string(ErrorCodeNotFound),
			Message: message,
		},
	}
}

// NewInternalError crea un error interno del servidor
func NewInternalError(message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorInfo{
			Code:    string(ErrorCodeInternal),
			Message: message,
		},
	}
}
