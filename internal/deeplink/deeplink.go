// Package deeplink maps app URLs onto screens. Links arrive from the OS
// (custom scheme) or from emails (https universal links); both shapes are
// configured as plain string prefixes.
package deeplink

import (
	"fmt"
	"net/url"
	"strings"
)

// Route names a link destination.
type Route string

const (
	RouteMain           Route = "main"
	RouteExerciseSelect Route = "exercise-select"
	RouteLogSet         Route = "log-set"
	RouteResetPassword  Route = "reset-password"
)

// Link is a parsed deep link.
type Link struct {
	Route  Route
	Params url.Values
}

// Param returns the first value for a key, "" when absent.
func (l *Link) Param(key string) string { return l.Params.Get(key) }

// Parser matches incoming URLs against configured prefixes.
type Parser struct {
	prefixes []string
}

// NewParser builds a parser for the given prefixes, e.g.
// "liftlog://" or "https://liftlog.example.com/app/".
func NewParser(prefixes []string) *Parser {
	return &Parser{prefixes: prefixes}
}

// Parse resolves a raw URL to a link. URLs not under a configured prefix or
// naming an unknown path are rejected. Auth recovery links carry their
// tokens in the fragment; fragment pairs are merged into Params with query
// values taking precedence.
func (p *Parser) Parse(raw string) (*Link, error) {
	var rest string
	matched := false
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(raw, prefix) {
			rest = strings.TrimPrefix(raw, prefix)
			matched = true
			break
		}
	}
	if !matched {
		return nil, fmt.Errorf("url %q matches no configured prefix", raw)
	}

	rest = strings.TrimPrefix(rest, "/")
	u, err := url.Parse(rest)
	if err != nil {
		return nil, fmt.Errorf("parsing link %q: %w", raw, err)
	}

	path := strings.Trim(u.Path, "/")
	var route Route
	switch Route(path) {
	case RouteMain, RouteExerciseSelect, RouteLogSet, RouteResetPassword:
		route = Route(path)
	default:
		if path == "" {
			route = RouteMain
			break
		}
		return nil, fmt.Errorf("unknown link path %q", path)
	}

	params := url.Values{}
	if frag, err := url.ParseQuery(u.Fragment); err == nil {
		for k, vs := range frag {
			params[k] = vs
		}
	}
	for k, vs := range u.Query() {
		params[k] = vs
	}

	return &Link{Route: route, Params: params}, nil
}
