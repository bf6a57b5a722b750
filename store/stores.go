package store

import (
	"net/http"

	"github.com/shuleplus/ukaguzi/core"
	"github.com/shuleplus/ukaguzi/rest"
)

// Concrete store constructors, one per dashboard screen. Paths, dialects
// and activity labels mirror the backend's API.

// NewUserStore manages student/alumni accounts. New accounts get a
// generated password the user is asked to change on first login.
func NewUserStore(client *rest.Client, activity *ActivityLog, notifier Notifier) *Store[User] {
	s := New[User](client, activity, notifier, Config{
		Name:    "user",
		Path:    "/users",
		Dialect: rest.DialectJSONServer,
		Labels:  Labels{Add: "Add new user", Edit: "Edit user", Delete: "Delete user"},
	})
	s.BeforeAdd = func(u *User) {
		if u.Password == "" {
			u.Password = core.RandomPassword()
		}
	}
	return s
}

// NewAuditAccountStore is the pending queue of accounts awaiting review.
func NewAuditAccountStore(client *rest.Client, activity *ActivityLog, notifier Notifier) *Moderation[User] {
	return NewModeration[User](client, activity, notifier, Config{
		Name:       "account",
		Path:       "/users",
		Dialect:    rest.DialectJSONServer,
		FixedQuery: "status=pending",
		Labels:     Labels{Delete: "Delete account audit"},
	}, ModerationConfig{
		ApproveStatus: "active",
		ApproveLabel:  "Approve account",
		DeclineLabel:  "Decline account",
	})
}

// NewAuditPostStore is the pending queue of posts awaiting review.
func NewAuditPostStore(client *rest.Client, activity *ActivityLog, notifier Notifier) *Moderation[Post] {
	return NewModeration[Post](client, activity, notifier, Config{
		Name:       "post",
		Path:       "/posts",
		Dialect:    rest.DialectJSONServer,
		FixedQuery: "status=pending",
		Labels:     Labels{Delete: "Delete post audit"},
	}, ModerationConfig{
		ApproveStatus: "active",
		ApproveLabel:  "Approve post",
		DeclineLabel:  "Decline post",
	})
}

// NewAccountViolationStore is the pending queue of reports against accounts.
func NewAccountViolationStore(client *rest.Client, activity *ActivityLog, notifier Notifier) *Moderation[Report] {
	return NewModeration[Report](client, activity, notifier, Config{
		Name:       "report",
		Path:       "/violating-accounts",
		Dialect:    rest.DialectJSONServer,
		FixedQuery: "status=pending",
		Labels:     Labels{Delete: "Delete account report"},
	}, ModerationConfig{
		ApproveStatus: "resolved",
		ApproveLabel:  "Approve account report",
		DeclineLabel:  "Decline account report",
	})
}

// NewPostViolationStore is the pending queue of reports against posts.
func NewPostViolationStore(client *rest.Client, activity *ActivityLog, notifier Notifier) *Moderation[Report] {
	return NewModeration[Report](client, activity, notifier, Config{
		Name:       "report",
		Path:       "/violating-posts",
		Dialect:    rest.DialectJSONServer,
		FixedQuery: "status=pending",
		Labels:     Labels{Delete: "Delete post report"},
	}, ModerationConfig{
		ApproveStatus: "resolved",
		ApproveLabel:  "Approve post report",
		DeclineLabel:  "Decline post report",
	})
}

func NewFacultyStore(client *rest.Client, activity *ActivityLog, notifier Notifier) *Store[Faculty] {
	return New[Faculty](client, activity, notifier, Config{
		Name:       "faculty",
		Path:       "/faculty",
		Dialect:    rest.DialectEnvelope,
		ListKey:    "faculties",
		EditMethod: http.MethodPut,
		Labels:     Labels{Add: "Add new faculty", Edit: "Edit faculty", Delete: "Delete faculty"},
	})
}

func NewMajorStore(client *rest.Client, activity *ActivityLog, notifier Notifier) *Store[Major] {
	return New[Major](client, activity, notifier, Config{
		Name:       "major",
		Path:       "/major",
		Dialect:    rest.DialectEnvelope,
		ListKey:    "majors",
		EditMethod: http.MethodPut,
		Labels:     Labels{Add: "Add new major", Edit: "Edit major", Delete: "Delete major"},
	})
}

func NewSchoolYearStore(client *rest.Client, activity *ActivityLog, notifier Notifier) *Store[SchoolYear] {
	return New[SchoolYear](client, activity, notifier, Config{
		Name:       "school year",
		Path:       "/enrollment-year",
		Dialect:    rest.DialectEnvelope,
		ListKey:    "enrollmentYears",
		EditMethod: http.MethodPut,
		Labels:     Labels{Add: "Add new school year", Edit: "Edit school year", Delete: "Delete school year"},
	})
}

func NewAdminStore(client *rest.Client, activity *ActivityLog, notifier Notifier) *Store[Admin] {
	return New[Admin](client, activity, notifier, Config{
		Name:       "admin",
		Path:       "/aauth/admin",
		Dialect:    rest.DialectEnvelope,
		ListKey:    "admins",
		EditMethod: http.MethodPut,
		Labels:     Labels{Add: "Add new admin", Edit: "Edit admin", Delete: "Delete admin"},
	})
}

func NewAdminGroupStore(client *rest.Client, activity *ActivityLog, notifier Notifier) *Store[AdminGroup] {
	return New[AdminGroup](client, activity, notifier, Config{
		Name:       "admin group",
		Path:       "/aauth/admin-groups",
		Dialect:    rest.DialectEnvelope,
		ListKey:    "_groups",
		EditMethod: http.MethodPut,
		Labels:     Labels{Add: "Add new admin group", Edit: "Edit admin group", Delete: "Delete admin group"},
	})
}

// NewAdminsInGroupStore manages the membership of one admin group.
func NewAdminsInGroupStore(client *rest.Client, activity *ActivityLog, notifier Notifier, groupID string) *Store[Admin] {
	return New[Admin](client, activity, notifier, Config{
		Name:       "admin",
		Path:       "/aauth/admin",
		Dialect:    rest.DialectEnvelope,
		ListKey:    "admins",
		FixedQuery: "group=" + groupID,
		EditMethod: http.MethodPut,
		Labels:     Labels{Add: "Add new admin to group", Edit: "Edit admin from group", Delete: "Delete admin from group"},
	})
}

func NewResourceStore(client *rest.Client, activity *ActivityLog, notifier Notifier) *Store[Resource] {
	return New[Resource](client, activity, notifier, Config{
		Name:       "resource",
		Path:       "/permission/resource",
		Dialect:    rest.DialectEnvelope,
		ListKey:    "resources",
		EditMethod: http.MethodPut,
		Labels:     Labels{Add: "Add new resource", Edit: "Edit resource", Delete: "Delete resource"},
	})
}

// NewResourcePermissionStore manages the permissions of one resource.
func NewResourcePermissionStore(client *rest.Client, activity *ActivityLog, notifier Notifier, resourceID string) *Store[ResourcePermission] {
	return New[ResourcePermission](client, activity, notifier, Config{
		Name:       "resource permission",
		Path:       "/permission/resource-permission",
		Dialect:    rest.DialectEnvelope,
		ListKey:    "resourcePermissions",
		FixedQuery: "resourceId=" + resourceID,
		EditMethod: http.MethodPut,
		Labels:     Labels{Add: "Add new resource permission", Edit: "Edit resource permission", Delete: "Delete resource permission"},
	})
}
