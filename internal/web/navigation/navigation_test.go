package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fabricstock/fabricstock/internal/auth"
)

func titles(sections []Section) []string {
	var out []string

	for _, s := range sections {
		for _, i := range s.Items {
			out = append(out, i.Title)
		}
	}

	return out
}

func TestFor_Admin(t *testing.T) {
	admin := &auth.Caller{ID: 1, Role: auth.RoleAdmin, Active: true}

	sections := For(admin)

	assert.Len(t, sections, len(Menu))
	assert.Contains(t, titles(sections), "QR Code Settings")
}

func TestFor_Worker(t *testing.T) {
	worker := &auth.Caller{
		ID:      2,
		Role:    auth.RoleWorker,
		Granted: auth.NewCapabilitySet(auth.CapFabricView, auth.CapBeltView),
		Active:  true,
	}

	sections := For(worker)

	assert.Equal(t, []string{"Belts", "Fabrics"}, titles(sections))
	assert.Equal(t, "Production", sections[0].Title)
	assert.Equal(t, "Fabric", sections[1].Title)
}

func TestFor_AnyOf(t *testing.T) {
	exporter := &auth.Caller{Role: auth.RoleSupervisor, Granted: auth.NewCapabilitySet(auth.CapReportsExport)}
	granter := &auth.Caller{Role: auth.RoleManager, Granted: auth.NewCapabilitySet(auth.CapUserManagePermissions)}

	assert.Equal(t, []string{"Reports"}, titles(For(exporter)))
	assert.Equal(t, []string{"Users"}, titles(For(granter)))
}

func TestFor_NoGrants(t *testing.T) {
	nobody := &auth.Caller{Role: auth.RoleWorker, Granted: auth.NewCapabilitySet()}

	assert.Empty(t, For(nobody))
}

func TestMenuUsesCatalogCapabilities(t *testing.T) {
	for _, s := range Menu {
		for _, i := range s.Items {
			for _, c := range i.Permissions {
				assert.True(t, c.Valid(), "%s: %s", i.Title, c)
			}
		}
	}
}
