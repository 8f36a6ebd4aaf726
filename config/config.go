// Package config holds the application wide constant values.
// Do not change them without checking the impact on the API integration.
package config

import (
	"net/url"
	"strings"
)

// APIBaseURL is the base URL of the CIE-10 API.
const APIBaseURL = "https://fi8lp72ixb.execute-api.us-east-1.amazonaws.com/"

// Endpoint joins the path elements onto APIBaseURL.
func Endpoint(elem ...string) string {
	u, err := url.Parse(APIBaseURL)
	if err != nil {
		// APIBaseURL is a constant, it always parses.
		panic(err)
	}
	parts := make([]string, 0, len(elem))
	for _, e := range elem {
		if e = strings.Trim(e, "/"); e != "" {
			parts = append(parts, url.PathEscape(e))
		}
	}
	return u.JoinPath(parts...).String()
}
