package services

import "society-portal-api/utils"

// Authorize decides whether actorRole may move an item of the given kind from
// its current status to toStatusID. It is a pure decision function with no
// side effects; every dashboard and the engine itself share this one rule.
//
// Checks run in order: terminality, reachability, then role ownership. Admin
// bypasses the ownership check only; it still cannot revive a terminal item
// or skip a stage.
func Authorize(kind string, currentStatusID int, actorRole string, toStatusID int) error {
	current, err := GetWorkflowStatus(kind, currentStatusID)
	if err != nil {
		return err
	}

	if current.Terminal() {
		return ErrAlreadyFinal
	}

	allowed := AllowedNextStatuses(kind, currentStatusID)
	allowedIDs := make([]int, 0, len(allowed))
	reachable := false
	for _, status := range allowed {
		allowedIDs = append(allowedIDs, status.StatusID)
		if status.StatusID == toStatusID {
			reachable = true
		}
	}
	if !reachable {
		return invalidTransitionError(toStatusID, allowedIDs)
	}

	if actorRole == utils.RoleAdmin {
		return nil
	}
	if current.OwningRole == nil || *current.OwningRole != actorRole {
		return ErrForbidden
	}
	return nil
}

// IsOverride reports whether a transition by actorRole out of the given
// status counts as an admin override for ledger tagging.
func IsOverride(kind string, currentStatusID int, actorRole string) bool {
	if actorRole != utils.RoleAdmin {
		return false
	}
	current, err := GetWorkflowStatus(kind, currentStatusID)
	if err != nil {
		return false
	}
	return current.OwningRole == nil || *current.OwningRole != utils.RoleAdmin
}
