// Package refs encodes and decodes record references. A reference is the
// record URL the store uses for lookup fields:
//
//	https://my.living-apps.de/rest/apps/{appID}/records/{recordID}
package refs

import (
	"regexp"
	"strings"
)

type Kind int

const (
	KindEmployee Kind = iota
	KindTool
	KindLocation
	KindCheckout
	KindReturn
)

func (k Kind) String() string {
	switch k {
	case KindEmployee:
		return "employee"
	case KindTool:
		return "tool"
	case KindLocation:
		return "location"
	case KindCheckout:
		return "checkout"
	case KindReturn:
		return "return"
	}
	return "unknown"
}

const DefaultBaseURL = "https://my.living-apps.de/rest"

// AppIDs maps each record kind to the app holding it.
type AppIDs struct {
	Employees string
	Tools     string
	Locations string
	Checkouts string
	Returns   string
}

// DefaultAppIDs are the apps of the production workspace.
var DefaultAppIDs = AppIDs{
	Employees: "697b2b318bccec961fdb7818",
	Tools:     "697b2b4092d14994749ca71b",
	Locations: "697b2b40f8a1c1f639e5c8be",
	Checkouts: "697b2b41d520e5a668295185",
	Returns:   "697b2b42b0235053832268ab",
}

func (a AppIDs) For(k Kind) string {
	switch k {
	case KindEmployee:
		return a.Employees
	case KindTool:
		return a.Tools
	case KindLocation:
		return a.Locations
	case KindCheckout:
		return a.Checkouts
	case KindReturn:
		return a.Returns
	}
	return ""
}

var (
	recordTail = regexp.MustCompile(`/apps/([A-Za-z0-9]+)/records/([A-Za-z0-9]+)/?$`)
	bareID     = regexp.MustCompile(`(?i)(?:^|/)([a-f0-9]{24})/?$`)
)

type Resolver struct {
	BaseURL string
	Apps    AppIDs
}

func NewResolver(baseURL string, apps AppIDs) Resolver {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return Resolver{BaseURL: strings.TrimRight(baseURL, "/"), Apps: apps}
}

// URL is the reference string the store expects for record id of kind k.
func (r Resolver) URL(k Kind, id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	return r.Prefix(k) + id
}

// Prefix is URL without the record id.
func (r Resolver) Prefix(k Kind) string {
	return r.BaseURL + "/apps/" + r.Apps.For(k) + "/records/"
}

// Ref is URL as a pointer, nil for an empty id.
func (r Resolver) Ref(k Kind, id string) *string {
	if u := r.URL(k, id); u != "" {
		return &u
	}
	return nil
}

// ID extracts the record id from ref when it points at a record of kind k.
// Absent, malformed or foreign references yield ("", false).
func (r Resolver) ID(ref *string, k Kind) (string, bool) {
	if ref == nil {
		return "", false
	}
	s := strings.TrimSpace(*ref)
	if s == "" {
		return "", false
	}
	if m := recordTail.FindStringSubmatch(s); m != nil {
		if app := r.Apps.For(k); app != "" && !strings.EqualFold(m[1], app) {
			return "", false
		}
		return m[2], true
	}
	if strings.Contains(s, "/apps/") {
		return "", false
	}
	if m := bareID.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	return "", false
}
