package services

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"workboard-service/models"
	"workboard-service/repositories"
	"workboard-service/store"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

func setupGroupService() *GroupService {
	return NewGroupService(repositories.NewGroupRepository(store.NewMemoryStore()))
}

func TestGroupService_CreateGroup(t *testing.T) {
	svc := setupGroupService()

	group, err := svc.CreateGroup(context.Background(), "Eng", "alice", nil)
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if !codePattern.MatchString(group.Code) {
		t.Errorf("join code %q does not match ^[A-Z0-9]{6}$", group.Code)
	}
	if len(group.Members) != 1 || group.Members[0] != "alice" {
		t.Errorf("expected members [alice], got %v", group.Members)
	}
	if group.CreatorUsername != "alice" {
		t.Errorf("creator = %q", group.CreatorUsername)
	}
}

func TestGroupService_CreateGroup_Validation(t *testing.T) {
	svc := setupGroupService()
	ctx := context.Background()

	if _, err := svc.CreateGroup(ctx, "", "alice", nil); !errors.Is(err, models.ErrValidation) {
		t.Errorf("empty name should fail validation, got: %v", err)
	}
	if _, err := svc.CreateGroup(ctx, "Eng", "", nil); !errors.Is(err, models.ErrValidation) {
		t.Errorf("empty creator should fail validation, got: %v", err)
	}
}

func TestGroupService_CreateGroup_CleansMemberList(t *testing.T) {
	svc := setupGroupService()

	group, err := svc.CreateGroup(context.Background(), "Eng", "alice", []string{"bob", "", "bob", "carol", "alice"})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	want := []string{"bob", "carol", "alice"}
	if len(group.Members) != len(want) {
		t.Fatalf("expected members %v, got %v", want, group.Members)
	}
	for i, m := range want {
		if group.Members[i] != m {
			t.Errorf("members[%d] = %q, want %q", i, group.Members[i], m)
		}
	}
}

func TestGroupService_CodesAreUnique(t *testing.T) {
	svc := setupGroupService()
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 25; i++ {
		group, err := svc.CreateGroup(ctx, "Team", "alice", nil)
		if err != nil {
			t.Fatalf("CreateGroup #%d failed: %v", i, err)
		}
		if seen[group.Code] {
			t.Fatalf("duplicate join code %q", group.Code)
		}
		if !codePattern.MatchString(group.Code) {
			t.Fatalf("join code %q malformed", group.Code)
		}
		seen[group.Code] = true
	}
}

func TestGroupService_JoinByCode_Idempotent(t *testing.T) {
	svc := setupGroupService()
	ctx := context.Background()

	group, _ := svc.CreateGroup(ctx, "Eng", "alice", nil)

	joined, err := svc.JoinByCode(ctx, group.Code, "bob")
	if err != nil {
		t.Fatalf("first join failed: %v", err)
	}
	if len(joined.Members) != 2 {
		t.Fatalf("expected [alice bob], got %v", joined.Members)
	}

	joined, err = svc.JoinByCode(ctx, group.Code, "bob")
	if err != nil {
		t.Fatalf("re-join should succeed: %v", err)
	}
	count := 0
	for _, m := range joined.Members {
		if m == "bob" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("bob appears %d times after re-join", count)
	}
}

func TestGroupService_JoinByCode_UnknownCode(t *testing.T) {
	svc := setupGroupService()

	_, err := svc.JoinByCode(context.Background(), "ZZZZZZ", "bob")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestGroupService_CreatorCannotBeRemoved(t *testing.T) {
	svc := setupGroupService()
	ctx := context.Background()

	group, _ := svc.CreateGroup(ctx, "Eng", "alice", []string{"bob"})

	err := svc.RemoveMember(ctx, group.ID, "alice")
	if !errors.Is(err, models.ErrForbidden) {
		t.Errorf("removing the creator should be forbidden, got: %v", err)
	}

	stored, _ := svc.GetGroup(ctx, group.ID)
	if !stored.HasMember("alice") {
		t.Error("creator must still be a member after the failed removal")
	}
	if len(stored.Members) != len(group.Members) {
		t.Errorf("member list changed: %v -> %v", group.Members, stored.Members)
	}
}

func TestGroupService_RemoveMember(t *testing.T) {
	svc := setupGroupService()
	ctx := context.Background()

	group, _ := svc.CreateGroup(ctx, "Eng", "alice", []string{"bob"})

	if err := svc.RemoveMember(ctx, group.ID, "bob"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	stored, _ := svc.GetGroup(ctx, group.ID)
	if stored.HasMember("bob") {
		t.Error("bob should be gone")
	}

	if err := svc.RemoveMember(ctx, group.ID, "bob"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("removing a non-member should report not found, got: %v", err)
	}
}

func TestGroupService_UpdateGroup_KeepsInvariants(t *testing.T) {
	svc := setupGroupService()
	ctx := context.Background()

	group, _ := svc.CreateGroup(ctx, "Eng", "alice", []string{"bob"})

	// A caller-supplied member list with duplicates, blanks, and the creator
	// dropped must come back clean with the creator restored.
	update := models.Group{
		ID:      group.ID,
		Name:    "Engineering",
		Members: []string{"bob", "bob", "", "carol"},
	}
	if err := svc.UpdateGroup(ctx, update); err != nil {
		t.Fatalf("UpdateGroup failed: %v", err)
	}

	stored, _ := svc.GetGroup(ctx, group.ID)
	if stored.Name != "Engineering" {
		t.Errorf("name = %q", stored.Name)
	}
	want := []string{"bob", "carol", "alice"}
	if len(stored.Members) != len(want) {
		t.Fatalf("expected members %v, got %v", want, stored.Members)
	}
	if !stored.HasMember("alice") {
		t.Error("update must never drop the creator")
	}
}

func TestGroupService_ListMembers(t *testing.T) {
	svc := setupGroupService()
	ctx := context.Background()

	group, _ := svc.CreateGroup(ctx, "Eng", "alice", []string{"bob"})

	members, err := svc.ListMembers(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	byName := map[string]models.GroupMember{}
	for _, m := range members {
		byName[m.Username] = m
	}
	if !byName["alice"].IsCreator {
		t.Error("alice should be flagged as creator")
	}
	if byName["bob"].IsCreator {
		t.Error("bob should not be flagged as creator")
	}
	if byName["bob"].GroupID != group.ID {
		t.Errorf("member view carries wrong group id %q", byName["bob"].GroupID)
	}
}

func TestGroupService_MembershipViews(t *testing.T) {
	svc := setupGroupService()
	ctx := context.Background()

	eng, _ := svc.CreateGroup(ctx, "Eng", "alice", []string{"bob"})
	svc.CreateGroup(ctx, "Ops", "carol", nil)

	forBob, err := svc.GroupsForUser(ctx, "bob")
	if err != nil {
		t.Fatalf("GroupsForUser failed: %v", err)
	}
	if len(forBob) != 1 || forBob[0].ID != eng.ID {
		t.Errorf("bob should be in exactly Eng, got %v", forBob)
	}

	byAlice, err := svc.GroupsCreatedBy(ctx, "alice")
	if err != nil {
		t.Fatalf("GroupsCreatedBy failed: %v", err)
	}
	if len(byAlice) != 1 || byAlice[0].ID != eng.ID {
		t.Errorf("alice created exactly Eng, got %v", byAlice)
	}
}
