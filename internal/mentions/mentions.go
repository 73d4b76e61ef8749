// Package mentions resolves @username tokens in free text to users.
package mentions

import (
	"regexp"

	"gorm.io/gorm"

	"github.com/stackit-qa/backend/internal/models"
)

var mentionPattern = regexp.MustCompile(`@(\w+)`)

// Usernames returns the distinct usernames mentioned in text, in order of
// first appearance.
func Usernames(text string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, match := range mentionPattern.FindAllStringSubmatch(text, -1) {
		name := match[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// Resolve looks the mentioned usernames up against the user store.
// Unknown usernames are dropped silently and duplicates collapse to one
// recipient. Callers must not rely on the order of the result.
func Resolve(db *gorm.DB, text string) ([]models.User, error) {
	names := Usernames(text)
	if len(names) == 0 {
		return nil, nil
	}

	var users []models.User
	if err := db.Where("username IN ?", names).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
