package api

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"visionlink/internal/types"
)

// Register creates an account and, when the server returns a token, adopts the
// new identity.
func (c *Client) Register(ctx context.Context, req types.RegistrationRequest) (*types.AuthResponse, error) {
	var missing []string
	for name, v := range map[string]string{
		"email":            req.Email,
		"password":         req.Password,
		"password_confirm": req.PasswordConfirm,
		"first_name":       req.FirstName,
		"last_name":        req.LastName,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, missingFields(missing)
	}

	var out types.AuthResponse
	if err := c.call(ctx, http.MethodPost, "/auth/register/", nil, authNone, req, &out); err != nil {
		return nil, err
	}
	if err := c.adopt(ctx, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates and adopts the returned identity. A rejection of the
// credentials is reported as KindAuthentication.
func (c *Client) Login(ctx context.Context, creds types.Credentials) (*types.AuthResponse, error) {
	var missing []string
	if strings.TrimSpace(creds.Email) == "" {
		missing = append(missing, "email")
	}
	if creds.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, missingFields(missing)
	}

	var out types.AuthResponse
	if err := c.call(ctx, http.MethodPost, "/auth/login/", nil, authNone, creds, &out); err != nil {
		// The API answers bad credentials with a 400 carrying no field errors.
		if apiErr := asAPIError(err); apiErr != nil && apiErr.Kind == KindValidation && len(apiErr.Fields) == 0 {
			apiErr.Kind = KindAuthentication
		}
		return nil, err
	}
	if err := c.adopt(ctx, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) adopt(ctx context.Context, out *types.AuthResponse) error {
	if out.Token == "" {
		return nil
	}
	// A token is only adopted together with the user it belongs to.
	if strings.TrimSpace(out.User.Email) == "" {
		return &Error{Kind: KindNetwork, Message: "malformed response: token without user"}
	}
	if err := stillWanted(ctx); err != nil {
		return err
	}
	if err := c.session.SetIdentity(ctx, out.Token, out.User); err != nil {
		return &Error{Kind: KindServer, Message: "could not store session: " + err.Error(), Err: err}
	}
	return nil
}

// Logout notifies the server on a best-effort basis and always clears the local
// identity. The only error it returns comes from the local session store.
func (c *Client) Logout(ctx context.Context) error {
	if c.session.IsAuthenticated() {
		if err := c.call(ctx, http.MethodPost, "/auth/logout/", nil, authRequired, nil, nil); err != nil {
			c.logger.Warn().Err(err).Msg("logout notification failed")
		}
	}
	// The remote call may have used up ctx; clearing must still happen.
	if err := c.session.ClearIdentity(context.WithoutCancel(ctx)); err != nil {
		return &Error{Kind: KindServer, Message: "could not clear session: " + err.Error(), Err: err}
	}
	return nil
}

func (c *Client) Profile(ctx context.Context) (*types.User, error) {
	var u types.User
	if err := c.call(ctx, http.MethodGet, "/auth/profile/", nil, authRequired, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile sends the changed fields and refreshes the cached user.
func (c *Client) UpdateProfile(ctx context.Context, upd types.ProfileUpdate) (*types.User, error) {
	if upd.Empty() {
		return nil, validationError("no profile fields to update")
	}
	var u types.User
	if err := c.call(ctx, http.MethodPut, "/auth/profile/update/", nil, authRequired, upd, &u); err != nil {
		return nil, err
	}
	if u.Email != "" && stillWanted(ctx) == nil {
		if err := c.session.UpdateUser(ctx, u); err != nil {
			c.logger.Warn().Err(err).Msg("cached profile not refreshed")
		}
	}
	return &u, nil
}

func missingFields(names []string) *Error {
	e := &Error{Kind: KindValidation, Fields: make(map[string][]string, len(names))}
	for _, n := range names {
		e.Fields[n] = []string{"This field is required."}
	}
	sort.Strings(names)
	e.Message = fmt.Sprintf("missing required fields: %s", strings.Join(names, ", "))
	return e
}
