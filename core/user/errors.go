package user

import "github.com/pkg/errors"

var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
)

// Authentication error codes.
const (
	CodeEmailAlreadyInUse   = "auth/email-already-in-use"
	CodeInvalidEmail        = "auth/invalid-email"
	CodeOperationNotAllowed = "auth/operation-not-allowed"
	CodeWeakPassword        = "auth/weak-password"
	CodeUserDisabled        = "auth/user-disabled"
	CodeUserNotFound        = "auth/user-not-found"
	CodeWrongPassword       = "auth/wrong-password"
	CodeInvalidCredential   = "auth/invalid-credential"
	CodeTooManyRequests     = "auth/too-many-requests"
)

const defaultAuthMessage = "Si è verificato un errore. Riprova."

var authMessages = map[string]string{
	CodeEmailAlreadyInUse:   "Questa email è già registrata. Prova ad accedere.",
	CodeInvalidEmail:        "Email non valida.",
	CodeOperationNotAllowed: "Operazione non consentita.",
	CodeWeakPassword:        "La password deve contenere almeno 6 caratteri.",
	CodeUserDisabled:        "Questo account è stato disabilitato.",
	CodeUserNotFound:        "Nessun account trovato con questa email.",
	CodeWrongPassword:       "Password errata.",
	CodeInvalidCredential:   "Credenziali non valide. Controlla email e password.",
	CodeTooManyRequests:     "Troppi tentativi falliti. Riprova più tardi.",
}

// AuthMessage returns the user-facing message for an error code.
// Unknown codes fall back to raw, then to a generic message.
func AuthMessage(code, raw string) string {
	if msg, ok := authMessages[code]; ok {
		return msg
	}
	if raw != "" {
		return raw
	}
	return defaultAuthMessage
}

// AuthError is a failed sign-up or sign-in, identified by a stable code.
type AuthError struct {
	Code string
	Err  error
}

func NewAuthError(code string, err ...error) *AuthError {
	ae := &AuthError{Code: code}
	if len(err) > 0 {
		ae.Err = err[0]
	}
	return ae
}

func (e *AuthError) Error() string {
	return e.Message()
}

func (e *AuthError) Unwrap() error { return e.Err }

func (e *AuthError) Message() string {
	var raw string
	if e.Err != nil {
		raw = e.Err.Error()
	}
	return AuthMessage(e.Code, raw)
}

// IsAuthError reports whether err is an *AuthError with one of the given codes (any code if none given).
func IsAuthError(err error, codes ...string) bool {
	var ae *AuthError
	if !errors.As(err, &ae) {
		return false
	}
	if len(codes) == 0 {
		return true
	}
	for _, c := range codes {
		if ae.Code == c {
			return true
		}
	}
	return false
}
