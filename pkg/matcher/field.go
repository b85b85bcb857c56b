package matcher

import "github.com/getmockd/mockd/pkg/mapping"

// FieldSelector extracts a string view of one request field. The second
// return value is false when the field is absent, per spec.md 4.1 ("A
// matcher whose field is absent from the request returns 0, unless the
// operator is absent").
type FieldSelector func(req *mapping.RequestMessage) (string, bool)

// PathField selects the decoded request path.
func PathField() FieldSelector {
	return func(req *mapping.RequestMessage) (string, bool) { return req.Path, true }
}

// MethodField selects the uppercased HTTP method.
func MethodField() FieldSelector {
	return func(req *mapping.RequestMessage) (string, bool) { return req.Method, true }
}

// ClientIPField selects the caller's IP address.
func ClientIPField() FieldSelector {
	return func(req *mapping.RequestMessage) (string, bool) {
		if req.ClientIP == "" {
			return "", false
		}
		return req.ClientIP, true
	}
}

// HeaderField selects the first value of a named header, matched
// case-insensitively by name (values still honor the matcher's own case
// setting).
func HeaderField(name string) FieldSelector {
	return func(req *mapping.RequestMessage) (string, bool) { return req.Header(name) }
}

// ContentTypeField is HeaderField("Content-Type") under a clearer name,
// matching the ContentType matcher variant named in spec.md 3.
func ContentTypeField() FieldSelector { return HeaderField("Content-Type") }

// CookieField selects a named cookie's value.
func CookieField(name string) FieldSelector {
	return func(req *mapping.RequestMessage) (string, bool) {
		v, ok := req.Cookies[name]
		return v, ok
	}
}

// QueryField selects the first value of a named query parameter.
func QueryField(name string) FieldSelector {
	return func(req *mapping.RequestMessage) (string, bool) { return req.QueryValue(name) }
}

// BodyTextField selects the charset-decoded body string.
func BodyTextField() FieldSelector {
	return func(req *mapping.RequestMessage) (string, bool) {
		if len(req.RawBody) == 0 {
			return "", false
		}
		return req.Text, true
	}
}
