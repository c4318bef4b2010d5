package dashboard

import (
	"github.com/carehub/portal/internal/domain/identity"
)

type NavLink struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

var (
	navCommon = []NavLink{
		{Label: "Dashboard", Path: "/dashboard"},
		{Label: "Profile", Path: "/profile"},
	}
	navByRole = map[identity.Role][]NavLink{
		identity.RolePatient: {
			{Label: "Appointments", Path: "/appointments"},
			{Label: "Medications", Path: "/medications"},
			{Label: "Medical Records", Path: "/medical-records"},
		},
		identity.RoleDoctor: {
			{Label: "Appointments", Path: "/appointments"},
			{Label: "Schedule", Path: "/schedule"},
			{Label: "Patients", Path: "/patients"},
			{Label: "Medical Records", Path: "/medical-records"},
		},
		identity.RoleAdmin: {
			{Label: "Users", Path: "/users"},
			{Label: "Inventory", Path: "/inventory"},
			{Label: "Analytics", Path: "/analytics"},
			{Label: "Settings", Path: "/settings"},
		},
	}
)

// NavLinks returns the sidebar for role. Unknown roles get no links.
func NavLinks(role identity.Role) []NavLink {
	extra, ok := navByRole[role]
	if !ok {
		return []NavLink{}
	}
	out := make([]NavLink, 0, len(navCommon)+len(extra))
	out = append(out, navCommon[0])
	out = append(out, extra...)
	return append(out, navCommon[1])
}
