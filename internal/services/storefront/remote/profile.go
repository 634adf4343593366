package remote

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/domain"
)

// UserDetails fetches the user's profile.
func (c *Client) UserDetails(ctx context.Context, userID string) (domain.Profile, error) {
	var profile domain.Profile
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/userdetails/:userId",
		path:   "/userdetails/" + pathEscape(userID),
	}, &profile)
	return profile, err
}

// UpdateUser writes the profile as a multipart form, the encoding the
// backend expects for profile edits.
func (c *Client) UpdateUser(ctx context.Context, userID string, profile domain.Profile) error {
	body, contentType, err := encodeProfileForm(profile)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeValidation, "encode profile", err)
	}
	return c.do(ctx, request{
		method:      http.MethodPut,
		route:       "/updateuser/:userId",
		path:        "/updateuser/" + pathEscape(userID),
		body:        body,
		contentType: contentType,
	}, nil)
}

func encodeProfileForm(profile domain.Profile) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := []struct{ name, value string }{
		{"name", profile.Name},
		{"email", profile.Email},
		{"phone", profile.Phone},
		{"gender", profile.Gender},
	}
	if profile.Picture != "" {
		fields = append(fields, struct{ name, value string }{"profile", profile.Picture})
	}
	for _, field := range fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
