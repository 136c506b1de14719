// Package tokenware pulls raw credentials out of inbound requests.
// It never validates them; that is the job of the identity resolver.
package tokenware

import (
	"errors"
	"strings"

	"github.com/goliatone/go-router"
)

const (
	// DefaultCookieName is the cookie carrying the access token
	DefaultCookieName = "access_token"
	// DefaultAuthScheme is the Authorization header scheme
	DefaultAuthScheme = "Bearer"
	// DefaultTokenLookup checks the cookie first, then the header
	DefaultTokenLookup = "cookie:" + DefaultCookieName + ",header:" + router.HeaderAuthorization
)

var ErrTokenMissingOrMalformed = errors.New("missing or malformed token")

// Extractor returns the raw token of a request
type Extractor func(c router.Context) (string, error)

// GetExtractors parses a lookup like "cookie:access_token,header:Authorization,query:token"
func GetExtractors(tokenLookup string, authSchemes ...string) []Extractor {
	extractors := make([]Extractor, 0)

	authScheme := DefaultAuthScheme
	if len(authSchemes) > 0 && strings.TrimSpace(authSchemes[0]) != "" {
		authScheme = strings.TrimSpace(authSchemes[0])
	}

	if strings.TrimSpace(tokenLookup) == "" {
		tokenLookup = DefaultTokenLookup
	}

	for _, rootPart := range strings.Split(tokenLookup, ",") {
		parts := strings.SplitN(strings.TrimSpace(rootPart), ":", 2)
		if len(parts) != 2 {
			continue
		}

		source, name := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if name == "" {
			continue
		}

		switch source {
		case "header":
			extractors = append(extractors, fromHeader(name, authScheme))
		case "query":
			extractors = append(extractors, fromQuery(name))
		case "cookie":
			extractors = append(extractors, fromCookie(name))
		}
	}

	return extractors
}

// ExtractRawToken returns the first token any extractor finds, or ""
// when the request carries none.
func ExtractRawToken(c router.Context, extractors []Extractor) string {
	for _, extractor := range extractors {
		raw, err := extractor(c)
		if raw != "" && err == nil {
			return raw
		}
	}
	return ""
}

func fromHeader(header, authScheme string) Extractor {
	return func(c router.Context) (string, error) {
		a := c.Header(header)
		l := len(authScheme)
		if len(a) > l+1 && strings.EqualFold(a[:l], authScheme) && a[l] == ' ' {
			if token := strings.TrimSpace(a[l+1:]); token != "" {
				return token, nil
			}
		}
		return "", ErrTokenMissingOrMalformed
	}
}

func fromQuery(param string) Extractor {
	return func(c router.Context) (string, error) {
		token := c.Query(param, "")
		if token == "" {
			return "", ErrTokenMissingOrMalformed
		}
		return token, nil
	}
}

func fromCookie(name string) Extractor {
	return func(c router.Context) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrTokenMissingOrMalformed
		}
		return token, nil
	}
}
