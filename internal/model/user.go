package model

// Role names carried in the JWT "role" claim.  They correspond to the
// "usertype" field of the remote account service, upper-cased.
const (
	RoleGuest = "GUEST"
	RoleStaff = "STAFF"
)

// Actor identifies which side of the restaurant triggered a lifecycle
// operation.  It decides who gets notified on cancellation.
type Actor string

const (
	ActorGuest Actor = "guest"
	ActorStaff Actor = "staff"
)

// ActorForRole maps a JWT role to the lifecycle actor.  Unknown roles
// are treated as guests so they never trigger staff-side effects.
func ActorForRole(role string) Actor {
	if role == RoleStaff {
		return ActorStaff
	}
	return ActorGuest
}
