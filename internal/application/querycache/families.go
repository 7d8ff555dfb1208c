package querycache

import (
	"github.com/google/uuid"

	"github.com/khoahotran/portfolio/internal/domain/content"
)

const (
	Profile           = "profile"
	AdminProfile      = "admin-profile"
	AdminStats        = "admin-stats"
	SEOPerson         = "seo-person"
	Projects          = "projects"
	AdminProjects     = "admin-projects"
	RecentProjects    = "recent-projects"
	Skills            = "skills"
	AdminSkills       = "admin-skills"
	Experiences       = "experiences"
	AdminExperiences  = "admin-experiences"
	Certificates      = "certificates"
	AdminCertificates = "admin-certificates"
)

var families = map[content.Entity][]string{
	content.EntityProfile:     {Profile, AdminProfile, AdminStats, SEOPerson},
	content.EntityProject:     {Projects, AdminProjects, RecentProjects, AdminStats},
	content.EntitySkill:       {Skills, AdminSkills, AdminStats, SEOPerson},
	content.EntityExperience:  {Experiences, AdminExperiences, AdminStats, SEOPerson},
	content.EntityCertificate: {Certificates, AdminCertificates, AdminStats},
}

// Families returns every key prefix whose cached result may change when an
// entity of the given kind is written.
func Families(e content.Entity) []Key {
	names := families[e]
	out := make([]Key, 0, len(names))
	for _, n := range names {
		out = append(out, Key{n})
	}
	return out
}

// OwnerKey builds {family, ownerID, extra...}.
func OwnerKey(family string, ownerID uuid.UUID, extra ...string) Key {
	k := make(Key, 0, 2+len(extra))
	k = append(k, family, ownerID.String())
	return append(k, extra...)
}
