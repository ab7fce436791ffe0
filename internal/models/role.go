package models

// Role is one of the four fixed workspace roles. The set is closed: new
// roles require a code change, which keeps the permissions table exhaustive.
type Role string

const (
	RoleHost     Role = "host"
	RoleEditor   Role = "editor"
	RoleMarketer Role = "marketer"
	RoleVA       Role = "va"
)

// Permissions is the capability record a role maps to. These checks are the
// actual enforcement point for workflow actions; UI filtering is cosmetic.
type Permissions struct {
	CanCreateEpisodes  bool `json:"can_create_episodes"`
	CanDeleteEpisodes  bool `json:"can_delete_episodes"`
	CanInviteMembers   bool `json:"can_invite_members"`
	CanManageTeam      bool `json:"can_manage_team"`
	CanPublish         bool `json:"can_publish"`
	CanApprove         bool `json:"can_approve"`
	CanEditAll         bool `json:"can_edit_all"`
	CanViewAnalytics   bool `json:"can_view_analytics"`
	CanManageWorkspace bool `json:"can_manage_workspace"`
}

var rolePermissions = map[Role]Permissions{
	RoleHost: {
		CanCreateEpisodes:  true,
		CanDeleteEpisodes:  true,
		CanInviteMembers:   true,
		CanManageTeam:      true,
		CanPublish:         true,
		CanApprove:         true,
		CanEditAll:         true,
		CanViewAnalytics:   true,
		CanManageWorkspace: true,
	},
	RoleEditor: {
		CanCreateEpisodes: true,
		CanApprove:        true,
		CanEditAll:        true,
	},
	RoleMarketer: {
		CanPublish:       true,
		CanViewAnalytics: true,
	},
	RoleVA: {
		CanCreateEpisodes: true,
	},
}

// Permissions returns the capability record for the role. Unknown roles get
// the zero record, so a bad value in the database fails closed.
func (r Role) Permissions() Permissions {
	return rolePermissions[r]
}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}
