// Package navigation holds the sidebar menu and filters it per caller.
package navigation

import (
	"github.com/fabricstock/fabricstock/internal/auth"
)

// Item is a single menu link. A caller sees it when holding any of Permissions.
// An item without permissions is shown to privileged roles only.
type Item struct {
	Title       string            `json:"title"`
	URL         string            `json:"url"`
	Permissions []auth.Capability `json:"-"`
}

// Section groups menu items under a heading.
type Section struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Menu is the full sidebar in display order.
var Menu = []Section{
	{
		Title: "Overview",
		Items: []Item{
			{Title: "Dashboard", URL: "/dashboard", Permissions: []auth.Capability{auth.CapDashboardView}},
			{Title: "Reverse Tracking", URL: "/dashboard/reverse-tracking",
				Permissions: []auth.Capability{auth.CapDashboardReverseTracking}},
			{Title: "Reports", URL: "/reports", Permissions: []auth.Capability{auth.CapReportsView, auth.CapReportsExport}},
		},
	},
	{
		Title: "Production",
		Items: []Item{
			{Title: "Belts", URL: "/belts", Permissions: []auth.Capability{auth.CapBeltView}},
			{Title: "Compound Batches", URL: "/compound-batches", Permissions: []auth.Capability{auth.CapCompoundBatchView}},
			{Title: "Ratings", URL: "/ratings", Permissions: []auth.Capability{auth.CapRatingView}},
		},
	},
	{
		Title: "Fabric",
		Items: []Item{
			{Title: "Fabrics", URL: "/fabrics", Permissions: []auth.Capability{auth.CapFabricView}},
			{Title: "Fabric Types", URL: "/fabric-types", Permissions: []auth.Capability{auth.CapFabricTypeView}},
			{Title: "Fabric Strengths", URL: "/fabric-strengths", Permissions: []auth.Capability{auth.CapFabricStrengthView}},
			{Title: "Fabric Widths", URL: "/fabric-widths", Permissions: []auth.Capability{auth.CapFabricWidthView}},
		},
	},
	{
		Title: "Master Data",
		Items: []Item{
			{Title: "Compound Types", URL: "/compound-types", Permissions: []auth.Capability{auth.CapCompoundTypeView}},
			{Title: "Compound Masters", URL: "/compound-masters", Permissions: []auth.Capability{auth.CapCompoundMasterView}},
		},
	},
	{
		Title: "Administration",
		Items: []Item{
			{Title: "Users", URL: "/users", Permissions: []auth.Capability{auth.CapUserView, auth.CapUserManagePermissions}},
			{Title: "QR Code Settings", URL: "/settings/qrcode"},
		},
	},
}

// For returns the sections and items the caller may see. Empty sections are dropped.
func For(caller *auth.Caller) []Section {
	out := make([]Section, 0, len(Menu))

	for _, section := range Menu {
		var items []Item

		for _, item := range section.Items {
			if caller.CanAny(item.Permissions...) {
				items = append(items, item)
			}
		}

		if len(items) > 0 {
			out = append(out, Section{Title: section.Title, Items: items})
		}
	}

	return out
}
