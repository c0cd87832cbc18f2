package models

import "time"

// Team is an aggregate root: membership and role mutations are applied to
// the in-memory record and the whole row is saved in one statement.
// Invariants: AdminIDs is a subset of MemberIDs; CaptainID and
// ViceCaptainID, when set, refer to current members.
type Team struct {
	ID            int       `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	LogoURL       *string   `json:"logoUrl,omitempty" db:"logo_url"`
	AdminIDs      []int     `json:"adminIds" db:"admin_ids"`
	MemberIDs     []int     `json:"members" db:"member_ids"`
	CaptainID     *int      `json:"captainId,omitempty" db:"captain_id"`
	ViceCaptainID *int      `json:"viceCaptainId,omitempty" db:"vice_captain_id"`
	InviteCode    string    `json:"inviteCode" db:"invite_code"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

func (t *Team) IsAdmin(userID int) bool {
	return containsID(t.AdminIDs, userID)
}

func (t *Team) IsMember(userID int) bool {
	return containsID(t.MemberIDs, userID)
}

func (t *Team) AddMember(userID int) {
	if !t.IsMember(userID) {
		t.MemberIDs = append(t.MemberIDs, userID)
	}
}

// RemoveMember strips userID from the member list and from every role
// field referencing it, in one pass over the aggregate.
func (t *Team) RemoveMember(userID int) {
	t.MemberIDs = removeID(t.MemberIDs, userID)
	t.AdminIDs = removeID(t.AdminIDs, userID)
	if t.CaptainID != nil && *t.CaptainID == userID {
		t.CaptainID = nil
	}
	if t.ViceCaptainID != nil && *t.ViceCaptainID == userID {
		t.ViceCaptainID = nil
	}
}

// ToggleAdmin grants admin rights to userID, or revokes them if already
// granted. Returns true when the user ends up an admin.
func (t *Team) ToggleAdmin(userID int) bool {
	if t.IsAdmin(userID) {
		t.AdminIDs = removeID(t.AdminIDs, userID)
		return false
	}
	t.AdminIDs = append(t.AdminIDs, userID)
	return true
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []int, id int) []int {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
