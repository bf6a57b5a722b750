package store

import "strconv"

// Records exchanged with the backend. The legacy json-server endpoints use
// numeric ids; the newer ones use string object ids under "_id".

// User is a student/alumni account under audit.
type User struct {
	ID          int    `json:"id,omitempty"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Gender      string `json:"gender,omitempty"`
	Status      string `json:"status,omitempty"`
	StudentType string `json:"type,omitempty"` // student | alumni
	Faculty     string `json:"faculty,omitempty"`
	Hometown    string `json:"hometown,omitempty"`
	YearOfBirth int    `json:"yearOfBirth,omitempty"`
	Password    string `json:"password,omitempty"` // only set when creating
	CreatedAt   string `json:"createdAt,omitempty"`
}

func (u User) EntityID() string { return strconv.Itoa(u.ID) }

// Post is a user-authored post in the moderation queue.
type Post struct {
	ID        int    `json:"id,omitempty"`
	Author    string `json:"author"`
	Title     string `json:"title"`
	Content   string `json:"content,omitempty"`
	Status    string `json:"status,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

func (p Post) EntityID() string { return strconv.Itoa(p.ID) }

// Report is a violation report against an account or a post.
type Report struct {
	ID        int    `json:"id,omitempty"`
	Reporter  string `json:"reporter"`
	TargetID  string `json:"targetId"`
	Reason    string `json:"reason,omitempty"`
	Status    string `json:"status,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

func (r Report) EntityID() string { return strconv.Itoa(r.ID) }

// Admin is a dashboard administrator account.
type Admin struct {
	ID       string `json:"_id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Group    string `json:"group,omitempty"`
}

func (a Admin) EntityID() string { return a.ID }

// AdminGroup is a named permission group of admins.
type AdminGroup struct {
	ID          string   `json:"_id,omitempty"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions,omitempty"`
}

func (g AdminGroup) EntityID() string { return g.ID }

// Faculty is an academic faculty.
type Faculty struct {
	ID   string `json:"_id,omitempty"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

func (f Faculty) EntityID() string { return f.ID }

// Major is a field of study within a faculty.
type Major struct {
	ID      string `json:"_id,omitempty"`
	Name    string `json:"name"`
	Code    string `json:"code,omitempty"`
	Faculty string `json:"faculty,omitempty"`
}

func (m Major) EntityID() string { return m.ID }

// SchoolYear is an enrollment-year cohort.
type SchoolYear struct {
	ID   string `json:"_id,omitempty"`
	Name string `json:"name"`
	Year int    `json:"year,omitempty"`
}

func (y SchoolYear) EntityID() string { return y.ID }

// Resource is a permission-guarded backend resource.
type Resource struct {
	ID   string `json:"_id,omitempty"`
	Name string `json:"name"`
	Path string `json:"path,omitempty"`
}

func (r Resource) EntityID() string { return r.ID }

// ResourcePermission grants an admin group an action on a resource.
type ResourcePermission struct {
	ID         string `json:"_id,omitempty"`
	ResourceID string `json:"resourceId"`
	Action     string `json:"action"`
	Group      string `json:"group,omitempty"`
}

func (p ResourcePermission) EntityID() string { return p.ID }
