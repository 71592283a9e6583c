package token

// Identity is the authenticated principal: either Admin or Founder.
type Identity interface {
	Role() Role
	UserID() string
	EmailAddress() string
	isIdentity()
}

type Admin struct {
	ID    string
	Email string
}

func (a Admin) Role() Role           { return RoleAdmin }
func (a Admin) UserID() string       { return a.ID }
func (a Admin) EmailAddress() string { return a.Email }
func (Admin) isIdentity()            {}

type Founder struct {
	ID    string
	Email string
}

func (f Founder) Role() Role           { return RoleFounder }
func (f Founder) UserID() string       { return f.ID }
func (f Founder) EmailAddress() string { return f.Email }
func (Founder) isIdentity()            {}
