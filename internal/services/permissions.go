package services

import "github.com/NWU-Kano/library-service/internal/models"

// Actions recognized by CanPerform. List and retrieve are open to everyone,
// including anonymous requests.
const (
	ActionList     = "list"
	ActionRetrieve = "retrieve"
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionApprove  = "approve"
)

// CanPerform decides whether a user may run an action on a capability-gated
// resource. Reads are always allowed. Staff and superusers may do anything.
// Create is additionally granted to holders of the named capability, whether
// held directly or through any group. Everything else is denied.
func CanPerform(user *models.User, action, capability string) bool {
	if action == ActionList || action == ActionRetrieve {
		return true
	}
	if user == nil {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	if action == ActionCreate && capability != "" {
		return user.HasPerm(capability)
	}
	return false
}
