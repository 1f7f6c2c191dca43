package prompt

import (
	"regexp"
	"time"
)

// DefaultCategory is used when a prompt is stored without an explicit category.
const DefaultCategory = "Default"

// Prompt is a reusable, user-owned prompt template.
type Prompt struct {
	ID        uint
	PublicID  string
	Name      string
	Category  string
	Content   string
	UserID    uint
	CreatedAt time.Time
	UpdatedAt time.Time
}

var argPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// ExtractArgs returns the placeholder names referenced by a template, in
// first-appearance order without duplicates.
func ExtractArgs(content string) []string {
	seen := make(map[string]struct{})
	args := []string{}
	for _, match := range argPattern.FindAllStringSubmatch(content, -1) {
		name := match[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		args = append(args, name)
	}
	return args
}
