package repository

import "strings"

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062). The numeric code is matched on the message to avoid a
// dependency on driver-specific error types.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// duplicateOn reports whether err is a duplicate-key violation on an
// index whose name contains the given fragment. MySQL includes the key
// name in the 1062 message ("Duplicate entry 'x' for key 'users.email'"),
// which lets callers tell an email collision apart from an ID collision.
func duplicateOn(err error, key string) bool {
	return isDuplicate(err) && strings.Contains(strings.ToLower(err.Error()), strings.ToLower(key))
}
