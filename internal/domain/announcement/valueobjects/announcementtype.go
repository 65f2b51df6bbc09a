package valueobjects

import (
	"fmt"
	"strings"
)

type AnnouncementType string

const (
	AnnouncementTypeGeneral     AnnouncementType = "GENERAL"
	AnnouncementTypeEvent       AnnouncementType = "EVENT"
	AnnouncementTypeUpdate      AnnouncementType = "UPDATE"
	AnnouncementTypeMaintenance AnnouncementType = "MAINTENANCE"
	AnnouncementTypePromotion   AnnouncementType = "PROMOTION"
	AnnouncementTypeNewsletter  AnnouncementType = "NEWSLETTER"
	AnnouncementTypeUrgent      AnnouncementType = "URGENT"
	AnnouncementTypeSeason      AnnouncementType = "SEASON"
	AnnouncementTypeAchievement AnnouncementType = "ACHIEVEMENT"
)

var validAnnouncementTypes = map[AnnouncementType]bool{
	AnnouncementTypeGeneral:     true,
	AnnouncementTypeEvent:       true,
	AnnouncementTypeUpdate:      true,
	AnnouncementTypeMaintenance: true,
	AnnouncementTypePromotion:   true,
	AnnouncementTypeNewsletter:  true,
	AnnouncementTypeUrgent:      true,
	AnnouncementTypeSeason:      true,
	AnnouncementTypeAchievement: true,
}

func (t AnnouncementType) String() string {
	return string(t)
}

func (t AnnouncementType) IsValid() bool {
	return validAnnouncementTypes[t]
}

// NewAnnouncementType parses s case-insensitively.
func NewAnnouncementType(s string) (AnnouncementType, error) {
	t := AnnouncementType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("invalid announcement type: %s", s)
	}
	return t, nil
}

// AllAnnouncementTypes lists every type in declaration order.
func AllAnnouncementTypes() []AnnouncementType {
	return []AnnouncementType{
		AnnouncementTypeGeneral,
		AnnouncementTypeEvent,
		AnnouncementTypeUpdate,
		AnnouncementTypeMaintenance,
		AnnouncementTypePromotion,
		AnnouncementTypeNewsletter,
		AnnouncementTypeUrgent,
		AnnouncementTypeSeason,
		AnnouncementTypeAchievement,
	}
}
