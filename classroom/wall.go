package classroom

// WallConfig governs message visibility and posting eligibility. It is
// replicated verbatim to every peer on change: the sender merges partial
// edits locally but the UPDATE_WALL control always carries (and receivers
// always apply) the whole object, last write wins.
type WallConfig struct {
	IsPublic          bool     `json:"isPublic"`
	ShowNames         bool     `json:"showNames"`
	IsLocked          bool     `json:"isLocked"`
	AllowedStudentIDs []string `json:"allowedStudentIds,omitempty"`
}

// DefaultWallConfig matches a freshly opened room: public wall, names shown,
// posting open to everyone.
func DefaultWallConfig() WallConfig {
	return WallConfig{IsPublic: true, ShowNames: true}
}

// WallUpdate is a partial edit a teacher applies to the wall. Nil fields
// keep the current value.
type WallUpdate struct {
	IsPublic          *bool
	ShowNames         *bool
	IsLocked          *bool
	AllowedStudentIDs []string
}

// Merge applies the partial edit and returns the full replacement config.
func (w WallConfig) Merge(u WallUpdate) WallConfig {
	if u.IsPublic != nil {
		w.IsPublic = *u.IsPublic
	}
	if u.ShowNames != nil {
		w.ShowNames = *u.ShowNames
	}
	if u.IsLocked != nil {
		w.IsLocked = *u.IsLocked
	}
	if u.AllowedStudentIDs != nil {
		w.AllowedStudentIDs = append([]string(nil), u.AllowedStudentIDs...)
	}
	return w
}

func (w WallConfig) allows(id string) bool {
	for _, allowed := range w.AllowedStudentIDs {
		if allowed == id {
			return true
		}
	}
	return false
}

// CanView reports whether the viewer may see the message. Teacher posts are
// visible unconditionally and the teacher moderates the whole wall, so they
// see everything; otherwise the wall must be public or the viewer must be
// the author.
func (w WallConfig) CanView(m ChatMessage, viewerRole Role, viewerID string) bool {
	if viewerRole == RoleTeacher || m.Role == RoleTeacher {
		return true
	}
	if w.IsPublic {
		return true
	}
	return m.SenderID == viewerID
}

// ShowSenderName reports whether the author's real name is disclosed to the
// viewer; when false the UI renders an anonymized placeholder.
func (w WallConfig) ShowSenderName(m ChatMessage, viewerID string) bool {
	return m.SenderID == viewerID || m.Role == RoleTeacher || w.ShowNames
}

// CanPost reports posting eligibility. Teachers post unconditionally;
// a student needs the wall unlocked or an explicit allowance. Enforcement is
// client-side only — the relay does not inspect posts.
func (w WallConfig) CanPost(role Role, id string) bool {
	if role == RoleTeacher {
		return true
	}
	return !w.IsLocked || w.allows(id)
}

// VisibleMessages filters the log down to what the viewer may see, in the
// original order.
func VisibleMessages(messages []ChatMessage, w WallConfig, viewerRole Role, viewerID string) []ChatMessage {
	visible := make([]ChatMessage, 0, len(messages))
	for _, m := range messages {
		if w.CanView(m, viewerRole, viewerID) {
			visible = append(visible, m)
		}
	}
	return visible
}
