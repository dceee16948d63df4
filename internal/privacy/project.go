package privacy

// Subject record keys.
const (
	KeyID              = "id"
	KeyPrivacyLevel    = "privacy_level"
	KeyAlias           = "alias"
	KeyRole            = "role"
	KeyReputationScore = "reputation_score"
	KeySkills          = "skills"
	KeyLanguages       = "languages"
	KeyLocationZoneID  = "location_zone_id"
	KeyPasswordHash    = "password_hash"
	KeyPassword        = "password"
)

// credentialKeys never leave the service, not even for the subject itself.
var credentialKeys = map[string]struct{}{
	KeyPasswordHash: {},
	KeyPassword:     {},
}

type policy struct {
	everything bool
	alias      bool
	fields     []string
}

var policies = map[Level]policy{
	LevelPublic: {everything: true},
	LevelAlias: {
		alias:  true,
		fields: []string{KeyID, KeyRole, KeyReputationScore, KeySkills, KeyLanguages, KeyLocationZoneID},
	},
	LevelMediated: {
		alias:  true,
		fields: []string{KeyID, KeyRole, KeyReputationScore, KeyLocationZoneID},
	},
	// Reputation stays hidden for ghosts.
	LevelGhost: {
		fields: []string{KeyID},
	},
}

// Decision records how a single subject was projected.
type Decision string

const (
	DecisionOwner Decision = "owner"
	DecisionAdmin Decision = "admin"
)

func levelDecision(l Level) Decision {
	return Decision(l)
}

// Report counts projected subjects by decision.
type Report map[Decision]int

func (r Report) Total() int {
	n := 0
	for _, c := range r {
		n += c
	}
	return n
}

// IsSubject reports whether v is a record carrying both an id and a privacy
// level, which is what makes it subject to filtering.
func IsSubject(v Value) bool {
	return v.kind == KindRecord && v.Has(KeyID) && v.Has(KeyPrivacyLevel)
}

// LevelOf returns the effective privacy level of a subject. Missing, null or
// unrecognised levels resolve to DefaultLevel.
func LevelOf(subject Value) Level {
	raw, ok := subject.Field(KeyPrivacyLevel)
	if !ok {
		return DefaultLevel
	}
	s, ok := raw.Str()
	if !ok {
		return DefaultLevel
	}
	if l, ok := ParseLevel(s); ok {
		return l
	}
	return DefaultLevel
}

// Project returns the view of v that viewer may see. v is not modified.
func Project(v Value, viewer Viewer) Value {
	out, _ := ProjectWithReport(v, viewer)
	return out
}

// ProjectWithReport is Project, also returning how many subjects were
// handled under each decision.
func ProjectWithReport(v Value, viewer Viewer) (Value, Report) {
	p := &projector{viewer: viewer, report: Report{}}
	return p.project(v), p.report
}

type projector struct {
	viewer Viewer
	report Report
}

func (p *projector) project(v Value) Value {
	switch v.kind {
	case KindSequence:
		items := make([]Value, len(v.seq))
		for i, item := range v.seq {
			items[i] = p.project(item)
		}
		return Sequence(items...)
	case KindRecord:
		if IsSubject(v) {
			return p.subject(v)
		}
		fields := make(map[string]Value, len(v.record))
		for k, f := range v.record {
			fields[k] = p.project(f)
		}
		return Record(fields)
	default:
		return v
	}
}

func (p *projector) subject(v Value) Value {
	id := v.record[KeyID].text()
	// Only a string id can be owned.
	ownID, _ := v.record[KeyID].Str()

	switch {
	case p.viewer.Owns(ownID):
		p.report[DecisionOwner]++
		return withoutCredentials(v)
	case p.viewer.Role == RoleAdmin:
		p.report[DecisionAdmin]++
		return withoutCredentials(v)
	}

	level := LevelOf(v)
	p.report[levelDecision(level)]++

	pol := policies[level]
	if pol.everything {
		return withoutCredentials(v)
	}

	fields := make(map[string]Value, len(pol.fields)+1)
	for _, key := range pol.fields {
		if f, ok := v.record[key]; ok {
			fields[key] = f.clone()
		}
	}
	if pol.alias {
		fields[KeyAlias] = Scalar(aliasFor(id))
	}
	return Record(fields)
}

func withoutCredentials(v Value) Value {
	fields := make(map[string]Value, len(v.record))
	for k, f := range v.record {
		if _, secret := credentialKeys[k]; secret {
			continue
		}
		fields[k] = f.clone()
	}
	return Record(fields)
}
