package entity

// PermissionState состояние доступа к камере
type PermissionState string

const (
	PermissionUnknown PermissionState = "unknown" // Запрос ещё не завершён
	PermissionGranted PermissionState = "granted" // Доступ разрешён
	PermissionDenied  PermissionState = "denied"  // Доступ запрещён
)

// ParsePermission переводит строку в состояние доступа.
// Всё, кроме granted и denied, считается неизвестным.
func ParsePermission(s string) PermissionState {
	switch PermissionState(s) {
	case PermissionGranted:
		return PermissionGranted
	case PermissionDenied:
		return PermissionDenied
	default:
		return PermissionUnknown
	}
}
