package team

import "errors"

// Domain errors for the team module.
var (
	// Role errors
	ErrRoleNotFound = errors.New("no role assigned for user on project")
	ErrInvalidRole  = errors.New("invalid role")

	// Member errors
	ErrMemberNotFound  = errors.New("member not found")
	ErrDuplicateMember = errors.New("user is already a current member of the project")
	ErrMemberNotLinked = errors.New("member has no linked user account")

	// Access errors
	ErrAccessDenied = errors.New("access to project team denied")

	// Backend errors
	ErrPolicyRecursion = errors.New("permission policy recursion detected")
	ErrGatewayFailure  = errors.New("backend call failed")
)
