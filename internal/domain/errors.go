package domain

import "errors"

// Kind clasificación estable de un error para que el llamador distinga
// entrada inválida, recurso inexistente, conflicto de estado y falla del sistema.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindAuth       Kind = "auth"
	KindSystem     Kind = "system"
)

// Error error de dominio con código estable y clasificación.
type Error struct {
	Code    string
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(code string, kind Kind, msg string) *Error {
	return &Error{Code: code, Kind: kind, Message: msg}
}

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidQuantity = newError("INVALID_QUANTITY", KindValidation, "la cantidad debe ser un entero positivo")
	ErrInvalidRequest  = newError("INVALID_REQUEST", KindValidation, "faltan campos requeridos o son inválidos")
	ErrInvalidInput    = newError("VALIDATION", KindValidation, "entrada inválida")

	ErrSlotNotFound            = newError("SLOT_NOT_FOUND", KindNotFound, "slot no encontrado")
	ErrSourceNotFound          = newError("SOURCE_NOT_FOUND", KindNotFound, "el ítem no está ubicado en el slot de origen")
	ErrDestinationSlotNotFound = newError("DESTINATION_SLOT_NOT_FOUND", KindNotFound, "slot de destino no encontrado")
	ErrPlacementNotFound       = newError("PLACEMENT_NOT_FOUND", KindNotFound, "ubicación de ítem no encontrada")
	ErrMovementNotFound        = newError("MOVEMENT_NOT_FOUND", KindNotFound, "movimiento no encontrado")

	ErrInsufficientCapacity            = newError("INSUFFICIENT_CAPACITY", KindConflict, "capacidad insuficiente en el slot")
	ErrInsufficientDestinationCapacity = newError("INSUFFICIENT_DESTINATION_CAPACITY", KindConflict, "capacidad insuficiente en el slot de destino")
	ErrInsufficientSourceQuantity      = newError("INSUFFICIENT_SOURCE_QUANTITY", KindConflict, "cantidad insuficiente en el slot de origen")
	ErrSlotNotEmpty                    = newError("SLOT_NOT_EMPTY", KindConflict, "el slot tiene ítems ubicados")
	ErrDuplicate                       = newError("DUPLICATE", KindConflict, "recurso duplicado")

	ErrUnauthorized = newError("UNAUTHORIZED", KindAuth, "no autorizado")
	ErrForbidden    = newError("FORBIDDEN", KindAuth, "acceso denegado")

	ErrStorageFailure = newError("STORAGE_FAILURE", KindSystem, "no se pudo completar la transacción")
)

// StorageError envuelve una falla de almacenamiento preservando la causa.
// errors.Is responde true tanto para ErrStorageFailure como para la causa original.
type StorageError struct {
	Cause error
}

func (e *StorageError) Error() string {
	if e.Cause == nil {
		return ErrStorageFailure.Message
	}
	return ErrStorageFailure.Message + ": " + e.Cause.Error()
}

func (e *StorageError) Unwrap() []error { return []error{ErrStorageFailure, e.Cause} }

// AsStorageFailure deja pasar los errores de dominio y convierte cualquier otro en StorageError.
func AsStorageFailure(err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &StorageError{Cause: err}
}

// KindOf devuelve la clasificación del error; los errores desconocidos son KindSystem.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindSystem
}

// CodeOf devuelve el código estable del error ("INTERNAL" si no es de dominio).
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "INTERNAL"
}
