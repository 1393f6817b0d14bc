package roles

type Role string

const (
	LocalStoreManager Role = "localStoreManager"
	WSGStoreManager   Role = "wsgStoreManager"
	Admin             Role = "admin"
)

func Valid(r string) bool {
	switch Role(r) {
	case LocalStoreManager, WSGStoreManager, Admin:
		return true
	}
	return false
}
