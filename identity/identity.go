// Package identity holds the resolved user for the session and derives
// pair-channel ids. Session bootstrap (how the user was resolved) lives in
// the handlers, not here.
package identity

import "teamsync/models"

// Context carries the current user's identity, constant for the session.
type Context struct {
	user models.User
}

func NewContext(user models.User) *Context {
	return &Context{user: user}
}

func (c *Context) Current() models.User {
	return c.user
}

// ChannelID derives the canonical id of the private channel between two
// member codes: the codes sorted lexicographically, joined by "_". Symmetric
// and deterministic, so both participants locate the same channel without any
// persisted registry. Codes must not contain the separator; that is enforced
// where codes are issued.
func ChannelID(codeA, codeB string) string {
	if codeB < codeA {
		codeA, codeB = codeB, codeA
	}
	return codeA + "_" + codeB
}
