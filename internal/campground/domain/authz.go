package domain

// Action is what the principal wants to do with a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionMutate Action = "mutate"
)

// Decision is the outcome of an authorization check.
type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

// AuthorizeCampground decides whether a principal may perform an action on
// a campground. Reads are public; mutations are reserved for the author.
// Pure function of its inputs, no I/O.
func AuthorizeCampground(principalID string, c *Campground, action Action) Decision {
	if action == ActionRead {
		return Allow
	}
	if c == nil || principalID == "" {
		return Deny
	}
	if c.AuthorID == principalID {
		return Allow
	}
	return Deny
}

// AuthorizeReview is the equivalent check against a review's author.
func AuthorizeReview(principalID string, r *Review, action Action) Decision {
	if action == ActionRead {
		return Allow
	}
	if r == nil || principalID == "" {
		return Deny
	}
	if r.AuthorID == principalID {
		return Allow
	}
	return Deny
}
