package privacy

type Level string

const (
	LevelPublic   Level = "public"
	LevelAlias    Level = "alias"
	LevelMediated Level = "mediated"
	LevelGhost    Level = "ghost"
)

// DefaultLevel is assigned to new subjects and to levels nobody recognises.
const DefaultLevel = LevelAlias

func (l Level) Valid() bool {
	switch l {
	case LevelPublic, LevelAlias, LevelMediated, LevelGhost:
		return true
	}
	return false
}

// ParseLevel reports whether s names one of the four privacy levels.
func ParseLevel(s string) (Level, bool) {
	l := Level(s)
	return l, l.Valid()
}

type Role string

const (
	RoleUser      Role = "user"
	RoleProvider  Role = "provider"
	RoleAdmin     Role = "admin"
	RoleAnonymous Role = "anonymous"
)

// ParseRole maps s onto a known role. Matching is exact; anything else,
// including differently cased names, is anonymous.
func ParseRole(s string) Role {
	switch r := Role(s); r {
	case RoleUser, RoleProvider, RoleAdmin:
		return r
	}
	return RoleAnonymous
}

// Viewer is whoever asked for the data.
type Viewer struct {
	Role Role
	ID   string
}

func NewViewer(role, id string) Viewer {
	return Viewer{Role: ParseRole(role), ID: id}
}

func Anonymous() Viewer {
	return Viewer{Role: RoleAnonymous}
}

func (v Viewer) IsAnonymous() bool {
	return v.ID == "" || ParseRole(string(v.Role)) == RoleAnonymous
}

func (v Viewer) Owns(subjectID string) bool {
	return v.ID != "" && v.ID == subjectID
}

// Privileged reports whether v sees the subject unfiltered.
func (v Viewer) Privileged(subjectID string) bool {
	return v.Owns(subjectID) || v.Role == RoleAdmin
}
