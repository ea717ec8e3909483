package graph

import (
	"fmt"
	"net/url"
	"strings"
)

var Scopes = []string{
	"public_profile", "email", "user_friends", "user_posts", "user_photos",
	"user_videos", "user_likes", "user_events", "user_birthday", "user_hometown", "user_location",
}

// LoginURL builds the OAuth dialog URL for the implicit (response_type=token) flow.
func LoginURL(appID, redirectURI, version string) string {
	q := url.Values{
		"client_id":     {appID},
		"redirect_uri":  {redirectURI},
		"response_type": {"token"},
		"scope":         {strings.Join(Scopes, ",")},
	}
	return fmt.Sprintf("https://www.facebook.com/%s/dialog/oauth?%s", version, q.Encode())
}

// ParseAccessToken extracts access_token from a redirect fragment, with or without the leading '#'.
func ParseAccessToken(fragment string) (string, bool) {
	fragment = strings.TrimPrefix(fragment, "#")
	if !strings.Contains(fragment, "access_token") {
		return "", false
	}
	v, err := url.ParseQuery(fragment)
	if err != nil {
		return "", false
	}
	token := v.Get("access_token")
	return token, token != ""
}
