package cart

import (
	"context"
	"encoding/gob"

	"github.com/alexedwards/scs/v2"
)

const sessionKey = "cart"

func init() {
	gob.Register(Cart{})
}

// FromSession returns the caller's cart, or an empty one if the session has
// none yet.
func FromSession(ctx context.Context, session *scs.SessionManager) Cart {
	c, ok := session.Get(ctx, sessionKey).(Cart)
	if !ok {
		return Cart{}
	}
	return c
}

func SaveSession(ctx context.Context, session *scs.SessionManager, c Cart) {
	session.Put(ctx, sessionKey, c)
}

// ClearSession drops the cart from the session, typically after a
// successful checkout.
func ClearSession(ctx context.Context, session *scs.SessionManager) {
	session.Remove(ctx, sessionKey)
}
