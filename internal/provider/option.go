package provider

import (
	"strings"

	"google.golang.org/api/option"
)

// endpointOption points a Google API client at a custom base URL, used for
// proxies and tests.
func endpointOption(baseURL string) []option.ClientOption {
	if strings.TrimSpace(baseURL) == "" {
		return nil
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return []option.ClientOption{option.WithEndpoint(baseURL)}
}
