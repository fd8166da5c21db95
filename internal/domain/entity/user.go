package entity

import "time"

// Roles de usuario para el control de acceso por ruta.
const (
	RoleAdmin      = "admin"
	RoleLogistic   = "logistic"
	RoleCEO        = "ceo"
	RoleTechnician = "technician"
)

// User usuario interno: solicitante, aprobador o técnico de campo.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Division     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
