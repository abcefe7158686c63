package ports

// PasswordHasher abstracts the one-way credential hashing primitive.
type PasswordHasher interface {
	// Hash produces a salted, self-describing encoding of the password.
	// Two calls with the same input yield different encodings.
	Hash(password string) (string, error)

	// Verify reports whether password matches the stored encoding. It
	// returns false on malformed input and never panics.
	Verify(password, encoded string) bool
}
