package models

import (
	"strings"
)

// ProjectMember represents a member of the project team
type ProjectMember struct {
	UserID   string `json:"userId" yaml:"user_id"`
	Username string `json:"username" yaml:"username"`
	Role     string `json:"role" yaml:"role"`
	Email    string `json:"email" yaml:"email"`
}

// ProjectData is the input of a planning request
type ProjectData struct {
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description" yaml:"description"`
	StartDate   string          `json:"startDate" yaml:"start_date"`
	EndDate     string          `json:"endDate" yaml:"end_date"`
	Members     []ProjectMember `json:"members" yaml:"members"`
}

// TeamSize returns the number of members on the roster
func (p *ProjectData) TeamSize() int {
	return len(p.Members)
}

// Roles returns the role of every member in roster order, duplicates included
func (p *ProjectData) Roles() []string {
	roles := make([]string, 0, len(p.Members))
	for _, m := range p.Members {
		roles = append(roles, m.Role)
	}
	return roles
}

const maxProjectKeyLength = 10

// ProjectKey derives a tracker key from a project name: upper-cased,
// anything outside [A-Z0-9] replaced by '_', at most 10 characters.
func ProjectKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if b.Len() == maxProjectKeyLength {
			break
		}
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
