package typed

import "github.com/rotisserie/eris"

// ErrComponentIDExhausted is returned by IDRange.Next once every identifier
// in its configured window has been handed out.
var ErrComponentIDExhausted = eris.New("typed: component id range exhausted")
