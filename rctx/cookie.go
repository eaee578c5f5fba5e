package rctx

import (
	"net/http"
	"strconv"
	"strings"
)

// Cookie is an output cookie sent with the response header.
type Cookie struct {
	Name   string
	Value  string
	Domain string
	Path   string
	// MaxAge is the lifetime in seconds. Zero omits the attribute.
	MaxAge   int
	HTTPOnly bool
}

// String returns the value of a Set-Cookie header line for c.
func (c Cookie) String() string {
	var b strings.Builder

	b.WriteString(c.Name)
	b.WriteByte('=')
	b.WriteString(c.Value)

	if c.Domain != "" {
		b.WriteString("; Domain=")
		b.WriteString(c.Domain)
	}

	if c.Path != "" {
		b.WriteString("; Path=")
		b.WriteString(c.Path)
	}

	if c.MaxAge != 0 {
		b.WriteString("; Max-Age=")
		b.WriteString(strconv.Itoa(c.MaxAge))
	}

	if c.HTTPOnly {
		b.WriteString("; HttpOnly")
	}

	return b.String()
}

// HTTP returns c as a net/http cookie.
func (c Cookie) HTTP() *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		MaxAge:   c.MaxAge,
		HttpOnly: c.HTTPOnly,
	}
}
