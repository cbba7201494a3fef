package auth

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Capability names one allowed action on one resource kind in resource:action format.
type Capability string

// Capability constants define the closed catalog of capabilities known to the system.
// Admin accounts satisfy every capability without storing any of them.
const (
	// CapBeltView allows viewing belts.
	CapBeltView Capability = "belt:view"
	// CapBeltCreate allows creating belts.
	CapBeltCreate Capability = "belt:create"
	// CapBeltUpdate allows editing belts.
	CapBeltUpdate Capability = "belt:update"
	// CapBeltDelete allows deleting belts.
	CapBeltDelete Capability = "belt:delete"

	// CapUserView allows listing and viewing accounts.
	CapUserView Capability = "user:view"
	// CapUserCreate allows creating accounts.
	CapUserCreate Capability = "user:create"
	// CapUserUpdate allows editing accounts.
	CapUserUpdate Capability = "user:update"
	// CapUserDelete allows deleting accounts other than one's own.
	CapUserDelete Capability = "user:delete"
	// CapUserManagePermissions allows changing the capabilities granted to an account.
	CapUserManagePermissions Capability = "user:manage_permissions"

	// CapDashboardView allows viewing the dashboard.
	CapDashboardView Capability = "dashboard:view"
	// CapDashboardReverseTracking allows tracing a product back to its raw materials.
	CapDashboardReverseTracking Capability = "dashboard:reverse_tracking"

	// CapReportsView allows viewing reports.
	CapReportsView Capability = "reports:view"
	// CapReportsExport allows exporting reports.
	CapReportsExport Capability = "reports:export"

	CapCompoundTypeView   Capability = "compound_type:view"
	CapCompoundTypeCreate Capability = "compound_type:create"
	CapCompoundTypeUpdate Capability = "compound_type:update"
	CapCompoundTypeDelete Capability = "compound_type:delete"

	CapCompoundMasterView   Capability = "compound_master:view"
	CapCompoundMasterCreate Capability = "compound_master:create"
	CapCompoundMasterUpdate Capability = "compound_master:update"
	CapCompoundMasterDelete Capability = "compound_master:delete"

	CapCompoundBatchView   Capability = "compound_batch:view"
	CapCompoundBatchCreate Capability = "compound_batch:create"
	CapCompoundBatchUpdate Capability = "compound_batch:update"
	CapCompoundBatchDelete Capability = "compound_batch:delete"

	CapRatingView   Capability = "rating:view"
	CapRatingCreate Capability = "rating:create"
	CapRatingUpdate Capability = "rating:update"
	CapRatingDelete Capability = "rating:delete"

	// CapFabricTypeView allows listing fabric types.
	CapFabricTypeView Capability = "fabric_type:view"
	// CapFabricTypeCreate allows creating fabric types.
	CapFabricTypeCreate Capability = "fabric_type:create"
	// CapFabricTypeUpdate allows renaming fabric types.
	CapFabricTypeUpdate Capability = "fabric_type:update"
	// CapFabricTypeDelete allows deleting unused fabric types.
	CapFabricTypeDelete Capability = "fabric_type:delete"

	// CapFabricStrengthView allows listing fabric strengths.
	CapFabricStrengthView Capability = "fabric_strength:view"
	// CapFabricStrengthCreate allows creating fabric strengths.
	CapFabricStrengthCreate Capability = "fabric_strength:create"
	// CapFabricStrengthUpdate allows renaming fabric strengths.
	CapFabricStrengthUpdate Capability = "fabric_strength:update"
	// CapFabricStrengthDelete allows deleting unused fabric strengths.
	CapFabricStrengthDelete Capability = "fabric_strength:delete"

	// CapFabricWidthView allows listing fabric widths.
	CapFabricWidthView Capability = "fabric_width:view"
	// CapFabricWidthCreate allows creating fabric widths.
	CapFabricWidthCreate Capability = "fabric_width:create"
	// CapFabricWidthUpdate allows changing fabric width values.
	CapFabricWidthUpdate Capability = "fabric_width:update"
	// CapFabricWidthDelete allows deleting unused fabric widths.
	CapFabricWidthDelete Capability = "fabric_width:delete"

	// CapFabricView allows listing the fabric inventory.
	CapFabricView Capability = "fabric:view"
	// CapFabricCreate allows recording new fabric rolls.
	CapFabricCreate Capability = "fabric:create"
	// CapFabricUpdate allows editing fabric records.
	CapFabricUpdate Capability = "fabric:update"
	// CapFabricDelete allows deleting fabric records.
	CapFabricDelete Capability = "fabric:delete"
)

// GroupName names a capability group.
type GroupName string

// Capability groups bundle the capabilities of one resource for bulk grants.
const (
	GroupBelt           GroupName = "BELT"
	GroupUser           GroupName = "USER"
	GroupDashboard      GroupName = "DASHBOARD"
	GroupReports        GroupName = "REPORTS"
	GroupCompoundType   GroupName = "COMPOUND_TYPE"
	GroupCompoundMaster GroupName = "COMPOUND_MASTER"
	GroupCompoundBatch  GroupName = "COMPOUND_BATCH"
	GroupRating         GroupName = "RATING"
	GroupFabricType     GroupName = "FABRIC_TYPE"
	GroupFabricStrength GroupName = "FABRIC_STRENGTH"
	GroupFabricWidth    GroupName = "FABRIC_WIDTH"
	GroupFabric         GroupName = "FABRIC"
)

// ErrUnknownCapability is returned when a string is not part of the capability catalog.
var ErrUnknownCapability = errors.New("unknown capability")

// groupOrder fixes the listing order of the catalog.
var groupOrder = []GroupName{
	GroupBelt,
	GroupUser,
	GroupDashboard,
	GroupReports,
	GroupCompoundType,
	GroupCompoundMaster,
	GroupCompoundBatch,
	GroupRating,
	GroupFabricType,
	GroupFabricStrength,
	GroupFabricWidth,
	GroupFabric,
}

var groups = map[GroupName][]Capability{
	GroupBelt:           {CapBeltView, CapBeltCreate, CapBeltUpdate, CapBeltDelete},
	GroupUser:           {CapUserView, CapUserCreate, CapUserUpdate, CapUserDelete, CapUserManagePermissions},
	GroupDashboard:      {CapDashboardView, CapDashboardReverseTracking},
	GroupReports:        {CapReportsView, CapReportsExport},
	GroupCompoundType:   {CapCompoundTypeView, CapCompoundTypeCreate, CapCompoundTypeUpdate, CapCompoundTypeDelete},
	GroupCompoundMaster: {CapCompoundMasterView, CapCompoundMasterCreate, CapCompoundMasterUpdate, CapCompoundMasterDelete},
	GroupCompoundBatch:  {CapCompoundBatchView, CapCompoundBatchCreate, CapCompoundBatchUpdate, CapCompoundBatchDelete},
	GroupRating:         {CapRatingView, CapRatingCreate, CapRatingUpdate, CapRatingDelete},
	GroupFabricType:     {CapFabricTypeView, CapFabricTypeCreate, CapFabricTypeUpdate, CapFabricTypeDelete},
	GroupFabricStrength: {CapFabricStrengthView, CapFabricStrengthCreate, CapFabricStrengthUpdate, CapFabricStrengthDelete},
	GroupFabricWidth:    {CapFabricWidthView, CapFabricWidthCreate, CapFabricWidthUpdate, CapFabricWidthDelete},
	GroupFabric:         {CapFabricView, CapFabricCreate, CapFabricUpdate, CapFabricDelete},
}

// catalog is the flattened, ordered catalog built from the groups at init.
var (
	catalog      []Capability
	catalogIndex map[Capability]GroupName
)

func init() { //nolint:gochecknoinits
	catalogIndex = make(map[Capability]GroupName)

	for _, name := range groupOrder {
		for _, c := range groups[name] {
			if !strings.HasPrefix(string(c), c.Resource()+":") || c.Action() == "" {
				panic("capability " + string(c) + " is not in resource:action format")
			}

			if prev, dup := catalogIndex[c]; dup {
				panic("capability " + string(c) + " listed in groups " + string(prev) + " and " + string(name))
			}

			catalogIndex[c] = name
			catalog = append(catalog, c)
		}
	}

	if len(groups) != len(groupOrder) {
		panic("capability groups and group order are out of sync")
	}

	validateRoleDefaults()
}

// Resource returns the resource part of the capability.
func (c Capability) Resource() string {
	resource, _, _ := strings.Cut(string(c), ":")
	return resource
}

// Action returns the action part of the capability.
func (c Capability) Action() string {
	_, action, _ := strings.Cut(string(c), ":")
	return action
}

// Valid reports whether the capability belongs to the catalog.
func (c Capability) Valid() bool {
	_, ok := catalogIndex[c]
	return ok
}

// Group returns the group the capability belongs to.
func (c Capability) Group() GroupName {
	return catalogIndex[c]
}

// ParseCapability converts a string into a catalog capability.
func ParseCapability(s string) (Capability, error) {
	c := Capability(strings.TrimSpace(s))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCapability, s)
	}

	return c, nil
}

// ParseCapabilities converts strings into catalog capabilities, failing on the first unknown value.
func ParseCapabilities(values []string) ([]Capability, error) {
	out := make([]Capability, 0, len(values))

	for _, v := range values {
		c, err := ParseCapability(v)
		if err != nil {
			return nil, err
		}

		out = append(out, c)
	}

	return out, nil
}

// AllCapabilities returns a copy of the full catalog in listing order.
func AllCapabilities() []Capability {
	return slices.Clone(catalog)
}

// Groups returns the group names in listing order.
func Groups() []GroupName {
	return slices.Clone(groupOrder)
}

// Group returns a copy of the capabilities of the named group.
// Unknown groups yield nil.
func Group(name GroupName) []Capability {
	return slices.Clone(groups[name])
}

// Expand flattens groups into their member capabilities, dropping duplicates.
func Expand(names ...GroupName) []Capability {
	var (
		out  []Capability
		seen = make(map[Capability]struct{})
	)

	for _, name := range names {
		for _, c := range groups[name] {
			if _, ok := seen[c]; ok {
				continue
			}

			seen[c] = struct{}{}
			out = append(out, c)
		}
	}

	return out
}

// Strings converts capabilities to their string form.
func Strings(caps []Capability) []string {
	out := make([]string, len(caps))
	for i, c := range caps {
		out[i] = string(c)
	}

	return out
}
