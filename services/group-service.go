package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/exp/rand"

	"workboard-service/logging"
	"workboard-service/models"
	"workboard-service/repositories"
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const codeLength = 6

// GroupService layers the membership invariants on top of the group
// repository: unique join codes, deduplicated member lists, and a creator who
// can never be removed from their own group.
type GroupService struct {
	groups *repositories.GroupRepository
}

func NewGroupService(groups *repositories.GroupRepository) *GroupService {
	return &GroupService{groups: groups}
}

// cleanMembers drops empty entries and duplicates while preserving order.
func cleanMembers(members []string) []string {
	seen := make(map[string]bool, len(members))
	cleaned := []string{}
	for _, m := range members {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		cleaned = append(cleaned, m)
	}
	return cleaned
}

func ensureCreator(members []string, creator string) []string {
	for _, m := range members {
		if m == creator {
			return members
		}
	}
	return append(members, creator)
}

// CreateGroup creates a group with a fresh unique join code. The supplied
// member list is cleaned and the creator is always included.
func (s *GroupService) CreateGroup(ctx context.Context, name, creatorUsername string, members []string) (*models.Group, error) {
	if strings.TrimSpace(name) == "" || creatorUsername == "" {
		return nil, fmt.Errorf("group name and creator are required: %w", models.ErrValidation)
	}

	code, err := s.generateUniqueCode(ctx)
	if err != nil {
		return nil, err
	}

	group := &models.Group{
		Code:            code,
		Name:            name,
		CreatorUsername: creatorUsername,
		Members:         ensureCreator(cleanMembers(members), creatorUsername),
	}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: GROUP_CREATED, Description: Group '%s' created by '%s' with code %s", group.Name, creatorUsername, group.Code)
	return group, nil
}

// generateUniqueCode draws 6 random characters from [A-Z0-9] and retries on
// collision. With 36^6 codes against small group counts this rarely loops.
func (s *GroupService) generateUniqueCode(ctx context.Context) (string, error) {
	existing, err := s.groups.GetAll(ctx)
	if err != nil {
		return "", err
	}
	taken := make(map[string]bool, len(existing))
	for _, g := range existing {
		taken[g.Code] = true
	}

	for {
		buf := make([]byte, codeLength)
		for i := range buf {
			buf[i] = codeCharset[rand.Intn(len(codeCharset))]
		}
		code := string(buf)
		if !taken[code] {
			return code, nil
		}
	}
}

// JoinByCode adds username to the group with the given join code. Re-joining
// is idempotent: an existing member gets success without a duplicate entry.
func (s *GroupService) JoinByCode(ctx context.Context, code, username string) (*models.Group, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required: %w", models.ErrValidation)
	}
	group, err := s.groups.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.addMember(ctx, group.ID, username); err != nil {
		return nil, err
	}
	return s.groups.GetByID(ctx, group.ID)
}

// AddMember adds username to the group by id with the same idempotent
// semantics as JoinByCode.
func (s *GroupService) AddMember(ctx context.Context, groupID, username string) error {
	if username == "" {
		return fmt.Errorf("username is required: %w", models.ErrValidation)
	}
	return s.addMember(ctx, groupID, username)
}

func (s *GroupService) addMember(ctx context.Context, groupID, username string) error {
	return s.groups.Mutate(ctx, groupID, func(g *models.Group) error {
		members := cleanMembers(g.Members)
		for _, m := range members {
			if m == username {
				g.Members = members
				return nil
			}
		}
		g.Members = append(members, username)
		return nil
	})
}

// RemoveMember removes username from the group. The creator can never be
// removed through this path.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, username string) error {
	return s.groups.Mutate(ctx, groupID, func(g *models.Group) error {
		if username == g.CreatorUsername {
			return fmt.Errorf("creator %q cannot be removed from group %q: %w", username, g.ID, models.ErrForbidden)
		}
		for i, m := range g.Members {
			if m == username {
				g.Members = append(g.Members[:i], g.Members[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("member %q not in group %q: %w", username, g.ID, models.ErrNotFound)
	})
}

// UpdateGroup replaces name, code and members on the stored group. The member
// list is re-cleaned and the creator re-guaranteed, so an update can never
// reintroduce duplicates, blanks, or a group missing its creator.
func (s *GroupService) UpdateGroup(ctx context.Context, group models.Group) error {
	if strings.TrimSpace(group.Name) == "" {
		return fmt.Errorf("group name is required: %w", models.ErrValidation)
	}
	return s.groups.Mutate(ctx, group.ID, func(g *models.Group) error {
		g.Name = group.Name
		if group.Code != "" {
			g.Code = group.Code
		}
		if group.Members != nil {
			g.Members = ensureCreator(cleanMembers(group.Members), g.CreatorUsername)
		}
		return nil
	})
}

func (s *GroupService) DeleteGroup(ctx context.Context, id string) error {
	return s.groups.Delete(ctx, id)
}

func (s *GroupService) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	return s.groups.GetByID(ctx, id)
}

func (s *GroupService) GetGroupByCode(ctx context.Context, code string) (*models.Group, error) {
	return s.groups.GetByCode(ctx, code)
}

func (s *GroupService) GetAllGroups(ctx context.Context) ([]models.Group, error) {
	return s.groups.GetAll(ctx)
}

// GroupsForUser returns every group the user is a member of.
func (s *GroupService) GroupsForUser(ctx context.Context, username string) ([]models.Group, error) {
	return s.groups.FindBy(ctx, func(g models.Group) bool {
		return g.HasMember(username)
	})
}

// GroupsCreatedBy returns every group the user created.
func (s *GroupService) GroupsCreatedBy(ctx context.Context, username string) ([]models.Group, error) {
	return s.groups.FindBy(ctx, func(g models.Group) bool {
		return g.CreatorUsername == username
	})
}

// ListMembers materializes the derived member views for a group. The stored
// member list carries no per-member join time, so JoinedAt falls back to the
// group's creation time.
func (s *GroupService) ListMembers(ctx context.Context, groupID string) ([]models.GroupMember, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	members := []models.GroupMember{}
	for _, username := range cleanMembers(group.Members) {
		members = append(members, models.GroupMember{
			Username:  username,
			GroupID:   groupID,
			IsCreator: username == group.CreatorUsername,
			JoinedAt:  group.CreatedAt,
		})
	}
	return members, nil
}
