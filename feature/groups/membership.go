package groups

import (
	"slices"
	"strings"

	"studyhub/core/models"
	"studyhub/core/sharecode"
)

// Patch lists metadata changes; nil fields are left alone.
type Patch struct {
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	School       *string `json:"school,omitempty"`
	ClassName    *string `json:"className,omitempty"`
	TeacherEmail *string `json:"teacherEmail,omitempty"`
}

// JoinByCode adds userID to the group whose current share code matches code.
// Codes are case-insensitive. The groups slice is not modified; the updated
// group is returned.
func JoinByCode(code, userID string, groups []models.Group) (models.Group, error) {
	code = sharecode.Normalize(code)
	i := slices.IndexFunc(groups, func(g models.Group) bool { return g.ShareCode == code })
	if code == "" || i < 0 {
		return models.Group{}, ErrCodeNotFound
	}

	g := groups[i].Clone()
	if userID == g.OwnerID {
		return models.Group{}, ErrSelfJoin
	}
	if g.HasMember(userID) {
		return models.Group{}, ErrAlreadyMember
	}
	g.MemberIDs = append(g.MemberIDs, userID)
	return g, nil
}

// Leave removes userID from the group. A group left with no members persists.
func Leave(groupID, userID string, groups []models.Group) (models.Group, error) {
	i := indexOf(groups, groupID)
	if i < 0 {
		return models.Group{}, ErrGroupNotFound
	}

	g := groups[i].Clone()
	if userID == g.OwnerID {
		return models.Group{}, ErrOwnerCannotLeave
	}
	j := slices.Index(g.MemberIDs, userID)
	if j < 0 {
		return models.Group{}, ErrNotAMember
	}
	g.MemberIDs = slices.Delete(g.MemberIDs, j, j+1)
	return g, nil
}

// UpdateMetadata applies patch to the group on behalf of requesterID, who
// must be the owner. Identity, membership and the share code never change here.
func UpdateMetadata(groupID string, patch Patch, requesterID string, groups []models.Group) (models.Group, error) {
	i := indexOf(groups, groupID)
	if i < 0 {
		return models.Group{}, ErrGroupNotFound
	}

	g := groups[i].Clone()
	if requesterID != g.OwnerID {
		return models.Group{}, ErrPermissionDenied
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return models.Group{}, ErrInvalidName
		}
		g.Name = name
	}
	if patch.Description != nil {
		g.Description = *patch.Description
	}
	if patch.School != nil {
		g.School = *patch.School
	}
	if patch.ClassName != nil {
		g.ClassName = *patch.ClassName
	}
	if patch.TeacherEmail != nil {
		g.TeacherEmail = strings.TrimSpace(*patch.TeacherEmail)
	}
	return g, nil
}

func indexOf(groups []models.Group, id string) int {
	return slices.IndexFunc(groups, func(g models.Group) bool { return g.ID == id })
}

// replace swaps the group with the same id in place.
func replace(groups []models.Group, g models.Group) {
	if i := indexOf(groups, g.ID); i >= 0 {
		groups[i] = g
	}
}
