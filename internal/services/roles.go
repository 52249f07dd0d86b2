package services

import (
	"errors"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

// RoleTier is the closed privilege classification derived from a user's
// role name. The rest of the engine branches on tiers, never on raw names.
type RoleTier int

const (
	TierMember RoleTier = iota
	TierModerator
	TierAdmin
)

// Role names are free text; privilege comes from keyword matching on the
// normalized name. "moderateur" covers the French spelling once accents
// are stripped.
var (
	moderatorKeywords = []string{"moderateur", "moderator", "admin"}
	adminKeywords     = []string{"admin", "administrateur"}
)

// RoleService resolves a user id to a privilege tier via the users→roles
// join. Pure read; unknown users and missing roles fail closed to member.
type RoleService struct {
	db *gorm.DB
}

func NewRoleService(db *gorm.DB) *RoleService {
	return &RoleService{db: db}
}

func (s *RoleService) Tier(userID uuid.UUID) (RoleTier, error) {
	if userID == uuid.Nil {
		return TierMember, nil
	}
	name, err := s.roleName(userID)
	if err != nil {
		return TierMember, err
	}
	return classifyRoleName(name), nil
}

func (s *RoleService) IsModerator(userID uuid.UUID) (bool, error) {
	tier, err := s.Tier(userID)
	return tier >= TierModerator, err
}

func (s *RoleService) IsAdmin(userID uuid.UUID) (bool, error) {
	tier, err := s.Tier(userID)
	return tier == TierAdmin, err
}

func (s *RoleService) roleName(userID uuid.UUID) (string, error) {
	var row struct {
		Name *string
	}
	err := s.db.Table("users").
		Select("roles.name AS name").
		Joins("LEFT JOIN roles ON roles.id = users.role_id").
		Where("users.id = ?", userID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if row.Name == nil {
		return "", nil
	}
	return *row.Name, nil
}

func classifyRoleName(name string) RoleTier {
	normalized := normalizeRoleName(name)
	if normalized == "" {
		return TierMember
	}
	for _, kw := range adminKeywords {
		if strings.Contains(normalized, kw) {
			return TierAdmin
		}
	}
	for _, kw := range moderatorKeywords {
		if strings.Contains(normalized, kw) {
			return TierModerator
		}
	}
	return TierMember
}

// normalizeRoleName lowercases and strips combining marks, so
// "Modérateur" matches the moderateur keyword.
func normalizeRoleName(name string) string {
	lowered := strings.ToLower(name)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, lowered)
	if err != nil {
		return lowered
	}
	return stripped
}
