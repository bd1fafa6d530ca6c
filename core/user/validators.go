package user

import (
	"fmt"
	"strings"
	"unicode"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/Br01t/feedback-fort/core"
)

var (
	roleTag  = "role"
	roleText = "ruolo non valido"

	// password policy
	pwdMinLen     = 6
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("La password deve contenere almeno %d caratteri.", pwdMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "la password non può contenere spazi"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "la password è troppo simile all'email"

	eqFieldTag  = "eqfield"
	eqFieldText = "le password non coincidono"
)

// InitValidators registers the user validators and their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)

	validate.RegisterStructValidation(userStructValidation, NewUser{}, ResetUserPassword{})
	core.RegisterCustomTranslation(validate, translator, pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(validate, translator, pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(validate, translator, pwdAttrSimTag, pwdAttrSimText)
	core.RegisterCustomTranslation(validate, translator, eqFieldTag, eqFieldText, true)
}

func roleValidation(fl validator.FieldLevel) bool {
	return ValidRole(fl.Field().String())
}

// userStructValidation does struct level validation on NewUser and ResetUserPassword structs.
func userStructValidation(sl validator.StructLevel) {
	switch usr := sl.Current().Interface().(type) {
	case NewUser:
		if usr.Password != "" {
			validatePassword(usr.Password, usr.Email, sl)
		}
	case ResetUserPassword:
		if usr.Password != "" {
			validatePassword(usr.Password, "", sl)
		}
	}
}

// validatePassword applies the password policy to provided password:
// - minLen: 6
// - no whitespace
// - no similarity with the email
func validatePassword(pwd, email string, sl validator.StructLevel) {
	reportErr := func(tag string) {
		sl.ReportError(pwd, "password", "Password", tag, "")
	}

	if len([]rune(pwd)) < pwdMinLen {
		reportErr(pwdMinLenTag)
		return
	}
	for _, char := range pwd {
		if unicode.IsSpace(char) {
			reportErr(pwdNoSpaceTag)
			return
		}
	}

	if email != "" {
		ratio := func(a, b string) float64 {
			return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).QuickRatio()
		}
		lpwd := strings.ToLower(pwd)
		if ratio(lpwd, email) >= pwdMaxSim || ratio(lpwd, DisplayName(email)) >= pwdMaxSim {
			reportErr(pwdAttrSimTag)
		}
	}
}

// authErrorFromValidation converts sign-up validation failures into authentication error codes.
func authErrorFromValidation(err error) error {
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	for _, fe := range vErrs {
		switch {
		case fe.Field() == "email":
			return NewAuthError(CodeInvalidEmail, err)
		case fe.Field() == "password" && fe.Tag() == pwdMinLenTag:
			return NewAuthError(CodeWeakPassword, err)
		}
	}
	return err
}
