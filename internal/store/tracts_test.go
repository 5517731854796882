package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/forgeaistudio/frontera/internal/model"
)

func TestCreateTractEnrollsOwner(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, database, "founder@example.com")

	tract, err := CreateTract(ctx, database, userID, model.Tract{
		Name: "Hill Valley Preppers", Tags: []string{"urban", "water"}, Location: "Hill Valley",
	})
	if err != nil {
		t.Fatalf("CreateTract: %v", err)
	}
	if tract.MemberCount != 1 {
		t.Errorf("expected member_count 1, got %d", tract.MemberCount)
	}
	if !reflect.DeepEqual(tract.Tags, []string{"urban", "water"}) {
		t.Errorf("expected tags roundtrip, got %v", tract.Tags)
	}

	members, err := ListTractMembers(ctx, database, tract.ID)
	if err != nil {
		t.Fatalf("ListTractMembers: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("expected 1 member, got %d", len(members))
	}
	if members[0].UserID != userID || members[0].Role != model.TractRoleOwner {
		t.Errorf("expected creator as owner, got %+v", members[0])
	}
	// Profile fields come joined in for display.
	if members[0].Username != "founder" {
		t.Errorf("expected joined username, got %q", members[0].Username)
	}
}

func TestTractMembershipCounts(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	owner := newTestUser(t, database, "owner@example.com")
	joiner := newTestUser(t, database, "joiner@example.com")

	tract, _ := CreateTract(ctx, database, owner, model.Tract{Name: "Group"})

	member, err := AddTractMember(ctx, database, tract.ID, joiner, "")
	if err != nil {
		t.Fatalf("AddTractMember: %v", err)
	}
	if member.Role != model.TractRoleMember {
		t.Errorf("expected default role member, got %q", member.Role)
	}

	got, _ := GetTract(ctx, database, tract.ID)
	if got.MemberCount != 2 {
		t.Errorf("expected member_count 2, got %d", got.MemberCount)
	}

	// Double join violates the uniqueness rule and leaves the count alone.
	if _, err := AddTractMember(ctx, database, tract.ID, joiner, ""); !errors.Is(err, ErrUniqueViolation) {
		t.Errorf("expected ErrUniqueViolation, got %v", err)
	}
	got, _ = GetTract(ctx, database, tract.ID)
	if got.MemberCount != 2 {
		t.Errorf("expected member_count unchanged at 2, got %d", got.MemberCount)
	}

	if err := RemoveTractMember(ctx, database, tract.ID, joiner); err != nil {
		t.Fatalf("RemoveTractMember: %v", err)
	}
	got, _ = GetTract(ctx, database, tract.ID)
	if got.MemberCount != 1 {
		t.Errorf("expected member_count 1 after leave, got %d", got.MemberCount)
	}

	if err := RemoveTractMember(ctx, database, tract.ID, joiner); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for double leave, got %v", err)
	}
}

func TestUpdateTractOwnerScoped(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	owner := newTestUser(t, database, "owner@example.com")
	other := newTestUser(t, database, "other@example.com")

	tract, _ := CreateTract(ctx, database, owner, model.Tract{Name: "Before"})

	name := "After"
	tags := []string{"new"}
	updated, err := UpdateTract(ctx, database, owner, tract.ID, model.TractPatch{Name: &name, Tags: &tags})
	if err != nil {
		t.Fatalf("UpdateTract: %v", err)
	}
	if updated.Name != "After" || !reflect.DeepEqual(updated.Tags, []string{"new"}) {
		t.Errorf("unexpected tract %+v", updated)
	}

	if _, err := UpdateTract(ctx, database, other, tract.ID, model.TractPatch{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for non-owner update, got %v", err)
	}
}

func TestDeleteTractCascadesMemberships(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	owner := newTestUser(t, database, "owner@example.com")
	joiner := newTestUser(t, database, "joiner@example.com")

	tract, _ := CreateTract(ctx, database, owner, model.Tract{Name: "Doomed"})
	AddTractMember(ctx, database, tract.ID, joiner, "")

	if err := DeleteTract(ctx, database, joiner, tract.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for non-owner delete, got %v", err)
	}
	if err := DeleteTract(ctx, database, owner, tract.ID); err != nil {
		t.Fatalf("DeleteTract: %v", err)
	}
	if _, err := GetTract(ctx, database, tract.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	members, err := ListTractMembers(ctx, database, tract.ID)
	if err != nil {
		t.Fatalf("ListTractMembers: %v", err)
	}
	if len(members) != 0 {
		t.Errorf("expected memberships gone, got %d", len(members))
	}
}

func TestListTractsCommunityVisible(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	a := newTestUser(t, database, "a@example.com")
	b := newTestUser(t, database, "b@example.com")

	t1, _ := CreateTract(ctx, database, a, model.Tract{Name: "Alpha"})
	t2, _ := CreateTract(ctx, database, b, model.Tract{Name: "Beta"})
	backdate(t, database, "tracts", t1.ID, 20)
	backdate(t, database, "tracts", t2.ID, 10)

	tracts, err := ListTracts(ctx, database)
	if err != nil {
		t.Fatalf("ListTracts: %v", err)
	}
	if len(tracts) != 2 {
		t.Fatalf("expected both tracts visible, got %d", len(tracts))
	}
	if tracts[0].Name != "Beta" {
		t.Errorf("expected newest first, got %q", tracts[0].Name)
	}
}

func TestMaxOwnedTractMembers(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	owner := newTestUser(t, database, "owner@example.com")
	m1 := newTestUser(t, database, "m1@example.com")
	m2 := newTestUser(t, database, "m2@example.com")

	CreateTract(ctx, database, owner, model.Tract{Name: "Small"})
	big, _ := CreateTract(ctx, database, owner, model.Tract{Name: "Big"})
	AddTractMember(ctx, database, big.ID, m1, "")
	AddTractMember(ctx, database, big.ID, m2, "")

	max, err := MaxOwnedTractMembers(ctx, database, owner)
	if err != nil {
		t.Fatalf("MaxOwnedTractMembers: %v", err)
	}
	if max != 3 {
		t.Errorf("expected max 3, got %d", max)
	}

	// Users with no tracts report zero.
	max, _ = MaxOwnedTractMembers(ctx, database, m1)
	if max != 0 {
		t.Errorf("expected 0 for non-owner, got %d", max)
	}
}
