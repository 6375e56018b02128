// Package users holds the user record type and the in-memory registry that
// owns every record served by the API.
package users

// User is a single user record. ID is the lookup key and never changes once
// the record is stored; Name and Country are optional and nil when unset.
type User struct {
	ID      string
	Name    *string
	Country *string
}

// View is the wire representation of a User.
type View struct {
	UserID   string  `json:"user_id"`
	UserName *string `json:"user_name"`
	Country  *string `json:"country"`
}

// New builds a User from its id and optional fields. Empty optional values
// are kept as present-but-empty; pass nil to leave a field unset.
func New(id string, name, country *string) User {
	return User{ID: id, Name: cloneString(name), Country: cloneString(country)}
}

// View converts u into the JSON shape written to clients.
func (u User) View() View {
	return View{
		UserID:   u.ID,
		UserName: cloneString(u.Name),
		Country:  cloneString(u.Country),
	}
}

// Views converts a slice of users, always returning a non-nil slice so the
// JSON encoding is [] rather than null.
func Views(list []User) []View {
	out := make([]View, 0, len(list))
	for _, u := range list {
		out = append(out, u.View())
	}
	return out
}

// NameIs reports whether u has a name exactly equal to name.
func (u User) NameIs(name string) bool {
	return u.Name != nil && *u.Name == name
}

func (u User) clone() User {
	return New(u.ID, u.Name, u.Country)
}

// StringPtr returns a pointer to a copy of s.
func StringPtr(s string) *string {
	return &s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
