package users

// DefaultSeed returns the records loaded at startup when seeding is enabled.
func DefaultSeed() []User {
	us := StringPtr("US")
	return []User{
		New("1", StringPtr("Trump"), us),
		New("2", StringPtr("Obama"), us),
		New("3", StringPtr("Biden"), us),
		New("4", StringPtr("Jefferson"), us),
		New("5", StringPtr("Kennedy"), us),
	}
}
