package store

import "slices"

// Document is the single persisted configuration object of a guild. JSON
// field names match the on-disk format, including the historical "sys+" key.
type Document struct {
	SysPlus      []string `json:"sys+"`
	Sys          []string `json:"sys"`
	Owner        []string `json:"owner"`
	WL           []string `json:"wl"`
	BlackRoles   []string `json:"blackRoles"`
	LogChannelID string   `json:"logChannelId"`
	BLRKeepRoles []string `json:"blrKeepRoles"`
	BLRAddRoles  []string `json:"blrAddRoles"`
	BLRUsers     []string `json:"blrUsers"`
}

// DefaultDocument returns the normalized empty shape.
func DefaultDocument() *Document {
	d := &Document{}
	d.Normalize()
	return d
}

// Normalize fills every nil list with an empty slice. It runs after every
// load so downstream code never checks for missing fields.
func (d *Document) Normalize() {
	for _, list := range []*[]string{
		&d.SysPlus, &d.Sys, &d.Owner, &d.WL,
		&d.BlackRoles, &d.BLRKeepRoles, &d.BLRAddRoles, &d.BLRUsers,
	} {
		if *list == nil {
			*list = []string{}
		}
	}
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	cp := *d
	cp.SysPlus = slices.Clone(d.SysPlus)
	cp.Sys = slices.Clone(d.Sys)
	cp.Owner = slices.Clone(d.Owner)
	cp.WL = slices.Clone(d.WL)
	cp.BlackRoles = slices.Clone(d.BlackRoles)
	cp.BLRKeepRoles = slices.Clone(d.BLRKeepRoles)
	cp.BLRAddRoles = slices.Clone(d.BLRAddRoles)
	cp.BLRUsers = slices.Clone(d.BLRUsers)
	return &cp
}

// IsBlackRole reports whether the role is denylisted.
func (d *Document) IsBlackRole(roleID string) bool {
	return slices.Contains(d.BlackRoles, roleID)
}

// IsBLR reports whether the user is on the restricted-rank roster.
func (d *Document) IsBLR(userID string) bool {
	return slices.Contains(d.BLRUsers, userID)
}

// Toggle flips membership of id in *list and reports whether it was added.
func Toggle(list *[]string, id string) (added bool) {
	if i := slices.Index(*list, id); i >= 0 {
		*list = slices.Delete(*list, i, i+1)
		return false
	}
	*list = append(*list, id)
	return true
}
