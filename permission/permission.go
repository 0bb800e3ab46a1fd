// Package permission builds permission strings and the roles they grant
// access to.
package permission

import "fmt"

// Read grants read access to role.
func Read(role string) string { return format("read", role) }

// Write grants create, update and delete access to role.
func Write(role string) string { return format("write", role) }

// Create grants create access to role.
func Create(role string) string { return format("create", role) }

// Update grants update access to role.
func Update(role string) string { return format("update", role) }

// Delete grants delete access to role.
func Delete(role string) string { return format("delete", role) }

func format(permission, role string) string {
	return fmt.Sprintf("%s(%q)", permission, role)
}

// Any is every visitor, signed in or not.
func Any() string { return "any" }

// Guests are visitors without a session.
func Guests() string { return "guests" }

// User is a single user, optionally restricted to a status such as
// "verified" or "unverified".
func User(id string, status ...string) string {
	return withSuffix("user:"+id, status)
}

// Users are all signed in users, optionally restricted to a status.
func Users(status ...string) string {
	return withSuffix("users", status)
}

// Team is every member of a team, or only those holding role.
func Team(id string, role ...string) string {
	return withSuffix("team:"+id, role)
}

// Member is a single team membership.
func Member(id string) string { return "member:" + id }

// Label is every user carrying the label.
func Label(name string) string { return "label:" + name }

func withSuffix(role string, suffix []string) string {
	if len(suffix) == 0 || suffix[0] == "" {
		return role
	}
	return role + "/" + suffix[0]
}
