//go:build windows

package osutil

import (
	"golang.org/x/sys/windows"
)

// IsAdmin reports whether the current process token is a member of the
// built-in Administrators group.
func IsAdmin() (bool, error) {
	var processToken windows.Token
	if err := windows.OpenProcessToken(windows.CurrentProcess(), windows.TOKEN_QUERY, &processToken); err != nil {
		return true, err
	}
	defer processToken.Close()

	var adminSid *windows.SID
	if err := windows.AllocateAndInitializeSid(
		&windows.SECURITY_NT_AUTHORITY,
		2,
		windows.SECURITY_BUILTIN_DOMAIN_RID,
		windows.DOMAIN_ALIAS_RID_ADMINS,
		0, 0, 0, 0, 0, 0,
		&adminSid,
	); err != nil {
		return true, err
	}

	// nolint:errcheck
	defer windows.FreeSid(adminSid)

	isAdmin, err := windows.Token(0).IsMember(adminSid)
	if err != nil {
		return true, err
	}

	return isAdmin, nil
}
