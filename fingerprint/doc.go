// Package fingerprint computes stable identities for "this exact
// transformation applied to this exact input". A cache-entry fingerprint
// is a keyed BLAKE3 digest over the input payload, the artifact name, a
// code fingerprint derived from the transform's caller-assigned version
// token, and a captured-state fingerprint derived from the transform's
// serialized parameter bundle.
//
// Go offers no bytecode introspection, so the version token is the
// contract: bump it whenever the transformation's logic changes, and
// route every value the function closes over through WithParams. The
// engine cannot detect an unbumped token.
package fingerprint
