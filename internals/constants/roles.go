package constants

import "fmt"

// Role akun (selaras dengan kolom user_accounts.role)
const (
	RoleAdmin    = "ADMIN"
	RoleResident = "RESIDENT"
)

// Template pesan error role
const (
	ErrOnlyAdminsCanAccess = "❌ Hanya admin yang boleh mengakses fitur %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}
