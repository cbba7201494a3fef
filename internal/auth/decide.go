package auth

import "slices"

// CapabilitySet is the set of capabilities explicitly granted to an account.
// The zero value is an empty set.
type CapabilitySet map[Capability]struct{}

// NewCapabilitySet builds a set from the given capabilities.
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	s := make(CapabilitySet, len(caps))
	for _, c := range caps {
		s[c] = struct{}{}
	}

	return s
}

// CapabilitySetFromStrings builds a set from stored grant strings.
// Values outside the catalog are kept; they can never match a catalog requirement.
func CapabilitySetFromStrings(values []string) CapabilitySet {
	s := make(CapabilitySet, len(values))
	for _, v := range values {
		s[Capability(v)] = struct{}{}
	}

	return s
}

// Has reports whether c is in the set.
func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// Slice returns the members in catalog order, followed by unknown values sorted.
func (s CapabilitySet) Slice() []Capability {
	out := make([]Capability, 0, len(s))

	for _, c := range catalog {
		if s.Has(c) {
			out = append(out, c)
		}
	}

	var unknown []Capability

	for c := range s {
		if !c.Valid() {
			unknown = append(unknown, c)
		}
	}

	slices.Sort(unknown)

	return append(out, unknown...)
}

// IsPrivileged reports whether the role bypasses capability checks.
// This is the only place the Admin bypass is defined.
func IsPrivileged(r Role) bool {
	return r == RoleAdmin
}

// SatisfiesOne reports whether a caller with the role and grants holds the required capability.
func SatisfiesOne(r Role, granted CapabilitySet, required Capability) bool {
	if IsPrivileged(r) {
		return true
	}

	return granted.Has(required)
}

// SatisfiesAny reports whether a caller holds at least one of the required capabilities.
// An empty requirement list is never satisfied by a non-privileged role.
func SatisfiesAny(r Role, granted CapabilitySet, required []Capability) bool {
	if IsPrivileged(r) {
		return true
	}

	for _, c := range required {
		if granted.Has(c) {
			return true
		}
	}

	return false
}

// SatisfiesAll reports whether a caller holds every required capability.
func SatisfiesAll(r Role, granted CapabilitySet, required []Capability) bool {
	if IsPrivileged(r) {
		return true
	}

	for _, c := range required {
		if !granted.Has(c) {
			return false
		}
	}

	return true
}

// EffectiveCapabilities lists what the caller may do: the full catalog for a privileged role,
// otherwise the granted catalog capabilities.
func EffectiveCapabilities(r Role, granted CapabilitySet) []Capability {
	if IsPrivileged(r) {
		return AllCapabilities()
	}

	out := make([]Capability, 0, len(granted))

	for _, c := range catalog {
		if granted.Has(c) {
			out = append(out, c)
		}
	}

	return out
}
