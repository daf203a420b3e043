package cli

import (
	"errors"
	"strings"

	"visionlink/internal/api"
)

// ErrLoginRequired is returned before any request when an action needs a session.
var ErrLoginRequired = errors.New("you need to log in first: run `visionlink login`")

type action int

const (
	actionGeneric action = iota
	actionLogin
	actionRegister
)

// describe maps a client failure to what the user should read.
func describe(act action, err error) error {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.Kind {
	case api.KindAuthentication:
		if act == actionLogin {
			return FieldErrors{"password": "incorrect email or password"}
		}
		return errors.New("session expired or not logged in: run `visionlink login`")
	case api.KindValidation:
		if act == actionRegister && mentionsTakenEmail(apiErr) {
			return FieldErrors{"email": "email already registered"}
		}
		if len(apiErr.Fields) > 0 {
			fe := FieldErrors{}
			for k := range apiErr.Fields {
				fe[k] = apiErr.Field(k)
			}
			return fe
		}
		return errors.New(apiErr.Message)
	case api.KindNotFound:
		return errors.New("not found: " + apiErr.Message)
	case api.KindNetwork:
		return errors.New("could not reach VisionLink: " + apiErr.Message)
	}
	return errors.New("server error, try again later: " + apiErr.Message)
}

func mentionsTakenEmail(e *api.Error) bool {
	msg := strings.ToLower(e.Field("email"))
	if msg == "" {
		msg = strings.ToLower(e.Message)
		if !strings.Contains(msg, "email") {
			return false
		}
	}
	for _, marker := range []string{"já está em uso", "já cadastrado", "already", "exists", "in use"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
