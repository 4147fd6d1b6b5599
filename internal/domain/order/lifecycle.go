// Package order define los estados del pedido, sus transiciones y qué acciones puede
// ejecutar cada parte (proveedor o cliente) según el estado.
package order

import "github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"

// Estados del pedido.
const (
	StatusDraft     = "draft"
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusAllocated = "allocated"
	StatusShipped   = "shipped"
	StatusReceived  = "received"
	StatusCancelled = "cancelled"
)

// Role papel de la entidad del usuario dentro de un pedido.
type Role string

// Roles respecto al pedido.
const (
	RoleVendor   Role = "vendor"
	RoleCustomer Role = "customer"
	RoleNone     Role = ""
)

// Action acción disponible sobre un pedido.
type Action string

// Acciones.
const (
	ActionEdit     Action = "edit"
	ActionSubmit   Action = "submit"
	ActionConfirm  Action = "confirm"
	ActionAllocate Action = "allocate"
	ActionShip     Action = "ship"
	ActionReceive  Action = "receive"
	ActionCancel   Action = "cancel"
)

// Transitions grafo de transiciones legales.
var Transitions = map[string][]string{
	StatusDraft:     {StatusPending, StatusCancelled},
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusAllocated, StatusCancelled},
	StatusAllocated: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusReceived, StatusCancelled},
	StatusReceived:  {},
	StatusCancelled: {},
}

// actionTarget estado al que lleva cada acción (edit no cambia estado).
var actionTarget = map[Action]string{
	ActionSubmit:   StatusPending,
	ActionConfirm:  StatusConfirmed,
	ActionAllocate: StatusAllocated,
	ActionShip:     StatusShipped,
	ActionReceive:  StatusReceived,
	ActionCancel:   StatusCancelled,
}

// Quién puede ejecutar cada acción en cada estado. En draft solo actúa la parte que
// creó el pedido (ver ActionsOn).
var permissions = map[string]map[Role][]Action{
	StatusDraft: {
		RoleVendor:   {ActionEdit, ActionSubmit, ActionCancel},
		RoleCustomer: {ActionEdit, ActionSubmit, ActionCancel},
	},
	StatusPending: {
		RoleVendor:   {ActionConfirm, ActionCancel},
		RoleCustomer: {ActionCancel},
	},
	StatusConfirmed: {
		RoleVendor: {ActionAllocate, ActionCancel},
	},
	StatusAllocated: {
		RoleVendor: {ActionAllocate, ActionShip, ActionCancel},
	},
	StatusShipped: {
		RoleVendor:   {ActionCancel},
		RoleCustomer: {ActionReceive},
	},
}

// IsValidStatus indica si el estado es conocido.
func IsValidStatus(s string) bool {
	_, ok := Transitions[s]
	return ok
}

// IsTerminal true para received y cancelled.
func IsTerminal(s string) bool {
	next, ok := Transitions[s]
	return ok && len(next) == 0
}

// CanTransition indica si from → to es legal.
func CanTransition(from, to string) bool {
	for _, s := range Transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ActionsFor acciones que role puede ejecutar en status. Estados terminales no tienen acciones.
func ActionsFor(status string, role Role) []Action {
	byRole, ok := permissions[status]
	if !ok {
		return []Action{}
	}
	actions := byRole[role]
	out := make([]Action, len(actions))
	copy(out, actions)
	return out
}

// Allowed indica si role puede ejecutar action en status.
func Allowed(status string, role Role, action Action) bool {
	for _, a := range ActionsFor(status, role) {
		if a == action {
			return true
		}
	}
	return false
}

// Target estado destino de la acción; ok=false para acciones sin cambio de estado.
// Reasignar un pedido ya asignado deja el estado en allocated.
func Target(action Action) (string, bool) {
	s, ok := actionTarget[action]
	return s, ok
}

// RoleOf papel de entityID dentro del pedido.
func RoleOf(o *entity.Order, entityID string) Role {
	switch entityID {
	case o.VendorID:
		return RoleVendor
	case o.CustomerID:
		return RoleCustomer
	}
	return RoleNone
}

// CreatorRole parte que crea el pedido: el cliente en solicitudes, el proveedor en
// distribuciones y devoluciones.
func CreatorRole(orderType string) Role {
	if orderType == entity.OrderTypeRequest {
		return RoleCustomer
	}
	return RoleVendor
}

// Visible indica si entityID puede ver el pedido. Un borrador es trabajo sin enviar de
// quien lo crea: la contraparte no lo ve hasta el submit.
func Visible(o *entity.Order, entityID string) bool {
	role := RoleOf(o, entityID)
	if role == RoleNone {
		return false
	}
	return o.Status != StatusDraft || role == CreatorRole(o.Type)
}

// ActionsOn acciones de entityID sobre el pedido; vacío si no lo puede ver.
func ActionsOn(o *entity.Order, entityID string) []Action {
	if !Visible(o, entityID) {
		return []Action{}
	}
	return ActionsFor(o.Status, RoleOf(o, entityID))
}
