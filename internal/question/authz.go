package question

// Caller roles issued by the identity service.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Caller identifies the authenticated principal behind a request.
type Caller struct {
	ID   string
	Role string
}

// CanMutate reports whether the caller may update or delete q. Admins may
// mutate anything; everyone else only their own submissions. Anonymous
// questions have no owner, so only admins can touch them.
func (c Caller) CanMutate(q Question) bool {
	if c.Role == RoleAdmin {
		return true
	}
	return q.SubmittedBy != "" && q.SubmittedBy == c.ID
}
