package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidTransition = errors.New("transición no permitida para el estado actual")
	ErrValidation        = errors.New("entrada inválida")
	ErrConflict          = errors.New("conflicto de versión: reintente la operación")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInconsistentAsset = errors.New("estado y tenedor del activo son inconsistentes")
)
