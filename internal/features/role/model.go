package role

import (
	"fmt"
	"sort"
)

// Role is the closed set of reviewer roles known to the workflow.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleEditor        Role = "editor"
	RoleAuthor        Role = "author"
	RoleContributor   Role = "contributor"
)

// Capability names a single permitted workflow operation.
type Capability string

const (
	CapabilityApprove   Capability = "approve"
	CapabilityReject    Capability = "reject"
	CapabilityBulkOps   Capability = "bulk_operations"
	CapabilityViewQueue Capability = "view_queue"
	CapabilityManage    Capability = "manage_users"
)

var knownRoles = map[Role]bool{
	RoleAdministrator: true,
	RoleEditor:        true,
	RoleAuthor:        true,
	RoleContributor:   true,
}

var knownCapabilities = map[Capability]bool{
	CapabilityApprove:   true,
	CapabilityReject:    true,
	CapabilityBulkOps:   true,
	CapabilityViewQueue: true,
	CapabilityManage:    true,
}

// Valid reports whether r names a known role.
func (r Role) Valid() bool { return knownRoles[r] }

// Matrix is an immutable role → capability table. It is validated once at
// construction so a typoed role or capability fails startup instead of
// silently denying (or granting) access at request time.
type Matrix struct {
	grants map[Role]map[Capability]bool
}

// NewMatrix validates every key of the given table against the known enums.
func NewMatrix(table map[Role][]Capability) (*Matrix, error) {
	grants := make(map[Role]map[Capability]bool, len(table))
	for r, caps := range table {
		if !knownRoles[r] {
			return nil, fmt.Errorf("unknown role %q in capability table", r)
		}
		set := make(map[Capability]bool, len(caps))
		for _, c := range caps {
			if !knownCapabilities[c] {
				return nil, fmt.Errorf("unknown capability %q for role %q", c, r)
			}
			set[c] = true
		}
		grants[r] = set
	}
	return &Matrix{grants: grants}, nil
}

// DefaultMatrix returns the static capability table of the review pipeline.
func DefaultMatrix() *Matrix {
	m, err := NewMatrix(map[Role][]Capability{
		RoleAdministrator: {CapabilityApprove, CapabilityReject, CapabilityBulkOps, CapabilityViewQueue, CapabilityManage},
		RoleEditor:        {CapabilityApprove, CapabilityReject, CapabilityBulkOps, CapabilityViewQueue},
		RoleAuthor:        {CapabilityViewQueue},
		RoleContributor:   {},
	})
	if err != nil {
		// The static table above only uses enum constants.
		panic(err)
	}
	return m
}

// Allows reports whether the role carries the capability.
func (m *Matrix) Allows(r Role, c Capability) bool {
	caps, ok := m.grants[r]
	return ok && caps[c]
}

// Capabilities lists the capabilities of a role in stable order.
func (m *Matrix) Capabilities(r Role) []Capability {
	caps := make([]Capability, 0, len(m.grants[r]))
	for c := range m.grants[r] {
		caps = append(caps, c)
	}
	sort.Slice(caps, func(i, j int) bool { return caps[i] < caps[j] })
	return caps
}
