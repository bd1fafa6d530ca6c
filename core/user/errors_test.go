package user

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestAuthMessage(t *testing.T) {
	tests := []struct {
		code string
		raw  string
		want string
	}{
		{code: CodeEmailAlreadyInUse, want: "Questa email è già registrata. Prova ad accedere."},
		{code: CodeInvalidEmail, want: "Email non valida."},
		{code: CodeOperationNotAllowed, want: "Operazione non consentita."},
		{code: CodeWeakPassword, want: "La password deve contenere almeno 6 caratteri."},
		{code: CodeUserDisabled, want: "Questo account è stato disabilitato."},
		{code: CodeUserNotFound, want: "Nessun account trovato con questa email."},
		{code: CodeWrongPassword, want: "Password errata."},
		{code: CodeInvalidCredential, want: "Credenziali non valide. Controlla email e password."},
		{code: CodeTooManyRequests, raw: "ignored", want: "Troppi tentativi falliti. Riprova più tardi."},
		{code: "auth/network-request-failed", raw: "network down", want: "network down"},
		{code: "auth/unknown", want: "Si è verificato un errore. Riprova."},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, AuthMessage(tt.code, tt.raw))
		})
	}
}

func TestAuthError(t *testing.T) {
	cause := errors.New("crypto/bcrypt: hashedPassword is not the hash of the given password")
	err := errors.Wrap(NewAuthError(CodeInvalidCredential, cause), "authenticating")

	assert.True(t, IsAuthError(err))
	assert.True(t, IsAuthError(err, CodeWrongPassword, CodeInvalidCredential))
	assert.False(t, IsAuthError(err, CodeUserDisabled))
	assert.False(t, IsAuthError(cause))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "Credenziali non valide. Controlla email e password.", NewAuthError(CodeInvalidCredential, cause).Error())
	assert.Equal(t, "boom", NewAuthError("auth/internal-error", errors.New("boom")).Error())
}
