package valueobjects

import (
	"fmt"
	"strings"
)

// Category groups templates by the kind of announcement they produce.
type Category string

const (
	CategoryEvent       Category = "event"
	CategoryUpdate      Category = "update"
	CategoryMaintenance Category = "maintenance"
	CategoryPromotion   Category = "promotion"
	CategoryWelcome     Category = "welcome"
	CategoryNewsletter  Category = "newsletter"
	CategoryUrgent      Category = "urgent"
	CategorySeason      Category = "season"
	CategoryAchievement Category = "achievement"
	CategoryCustom      Category = "custom"
)

var validCategories = map[Category]bool{
	CategoryEvent:       true,
	CategoryUpdate:      true,
	CategoryMaintenance: true,
	CategoryPromotion:   true,
	CategoryWelcome:     true,
	CategoryNewsletter:  true,
	CategoryUrgent:      true,
	CategorySeason:      true,
	CategoryAchievement: true,
	CategoryCustom:      true,
}

func (c Category) String() string {
	return string(c)
}

func (c Category) IsValid() bool {
	return validCategories[c]
}

func NewCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("invalid template category: %s", s)
	}
	return c, nil
}
