package types

// ArrayPolicy selects how non-character numeric array fields map to proto
// types. The two policies are not wire-compatible; "repeated" is the
// default contract.
type ArrayPolicy string

const (
	// ArrayPolicyRepeated maps numeric arrays to "repeated <scalar>".
	ArrayPolicyRepeated ArrayPolicy = "repeated"
	// ArrayPolicyBytes collapses numeric arrays to opaque bytes.
	ArrayPolicyBytes ArrayPolicy = "bytes"
)

// Valid reports whether the policy is one of the supported values.
func (p ArrayPolicy) Valid() bool {
	return p == ArrayPolicyRepeated || p == ArrayPolicyBytes
}
