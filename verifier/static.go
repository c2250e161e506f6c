package verifier

import "github.com/keyward/keyward/core"

// Func adapts a function to core.Verifier.
type Func func(claim core.Claim, proof []byte) bool

// Verify implements core.Verifier.
func (f Func) Verify(claim core.Claim, proof []byte) bool {
	return f(claim, proof)
}

// Static returns a verifier that always answers result.
func Static(result bool) core.Verifier {
	return Func(func(core.Claim, []byte) bool { return result })
}
