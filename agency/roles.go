// Package agency models the travel agency's own concurrent actors: the
// roles that group related transitions, the workers that repeatedly try
// to fire their assigned transitions through the monitor, and the
// agency that runs a full simulation to completion.
package agency

// Role names one of the agency's job functions and the net transitions
// a worker holding that role is responsible for trying to fire, in the
// order it tries them each cycle.
type Role struct {
	Name        string
	Transitions []int
}

// DefaultRoles returns the six roles the modeled agency divides its
// workflow into, one worker per role.
func DefaultRoles() []Role {
	return []Role{
		{Name: "Entrar", Transitions: []int{0, 1}},
		{Name: "GestionarReservaSenior", Transitions: []int{2, 5}},
		{Name: "GestionarReservaJunior", Transitions: []int{3, 4}},
		{Name: "ConfirmarPago", Transitions: []int{6, 9, 10}},
		{Name: "CancelarPago", Transitions: []int{7, 8}},
		{Name: "Salir", Transitions: []int{11}},
	}
}
