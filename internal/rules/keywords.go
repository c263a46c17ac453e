package rules

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Keyword set names referenced by the built-in rules.
const (
	SetAuth              = "auth"
	SetAccessControl     = "access_control"
	SetDatastore         = "datastore"
	SetDatabase          = "database"
	SetStorage           = "storage"
	SetFrontend          = "frontend"
	SetPublicFrontend    = "public_frontend"
	SetUserInput         = "user_input"
	SetInjectionSurface  = "injection_surface"
	SetDataInput         = "data_input"
	SetAPI               = "api"
	SetService           = "service"
	SetGateway           = "gateway"
	SetLoadBalancer      = "load_balancer"
	SetCache             = "cache"
	SetCDN               = "cdn"
	SetPresentationLayer = "presentation_layer"
	SetBusinessLayer     = "business_layer"
	SetDataLayer         = "data_layer"
)

//go:embed keywords.yaml
var defaultKeywordsYAML []byte

// Keywords holds the type keyword sets used for node classification.
type Keywords struct {
	Sets     map[string][]string `yaml:"sets"`
	Required map[string][]string `yaml:"required_by_category"`
}

// DefaultKeywords returns the built-in keyword sets.
func DefaultKeywords() *Keywords {
	kw, err := ParseKeywords(defaultKeywordsYAML)
	if err != nil {
		panic(fmt.Sprintf("rules: embedded keywords: %v", err))
	}
	return kw
}

// ParseKeywords decodes a keyword document. Keywords are lower-cased.
func ParseKeywords(data []byte) (*Keywords, error) {
	var kw Keywords
	if err := yaml.Unmarshal(data, &kw); err != nil {
		return nil, fmt.Errorf("unmarshal keywords: %w", err)
	}
	kw.normalize()
	return &kw, nil
}

// LoadKeywords returns the defaults extended with the sets in path. An empty
// path yields the defaults unchanged.
func LoadKeywords(path string) (*Keywords, error) {
	kw := DefaultKeywords()
	if path == "" {
		return kw, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	extra, err := ParseKeywords(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	kw.Extend(extra)
	return kw, nil
}

// Extend adds every keyword of other to the matching set. Existing keywords
// are kept, so sets only grow.
func (k *Keywords) Extend(other *Keywords) {
	if other == nil {
		return
	}
	k.Sets = mergeSets(k.Sets, other.Sets)
	k.Required = mergeSets(k.Required, other.Required)
}

// Match reports whether nodeType contains any keyword of the named set,
// ignoring case. Unknown sets never match.
func (k *Keywords) Match(set, nodeType string) bool {
	t := strings.ToLower(nodeType)
	for _, word := range k.Sets[set] {
		if strings.Contains(t, word) {
			return true
		}
	}
	return false
}

// RequiredFor returns the component keywords required by a scenario category.
func (k *Keywords) RequiredFor(category string) []string {
	return k.Required[strings.ToLower(category)]
}

func (k *Keywords) normalize() {
	for name, words := range k.Sets {
		k.Sets[name] = lowerAll(words)
	}
	required := make(map[string][]string, len(k.Required))
	for name, words := range k.Required {
		required[strings.ToLower(name)] = lowerAll(words)
	}
	k.Required = required
}

func mergeSets(dst, src map[string][]string) map[string][]string {
	if dst == nil {
		dst = make(map[string][]string, len(src))
	}
	for name, words := range src {
		for _, w := range words {
			if !slices.Contains(dst[name], w) {
				dst[name] = append(dst[name], w)
			}
		}
	}
	return dst
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
