package core_test

import (
	"testing"

	"minigold/internal/core"
)

func TestUser_CreateAndAuthenticate(t *testing.T) {
	f := newFixture(t)

	u, err := f.users.Create(f.ctx, "packer", "s3cret-pass", core.RolePackaging)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if u.ID == 0 || u.PasswordHash == "s3cret-pass" {
		t.Errorf("Expected a stored user with a hashed password, got %+v", u)
	}

	got, err := f.users.Authenticate(f.ctx, "packer", "s3cret-pass")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != u.ID || got.Role != core.RolePackaging || !got.IsActive {
		t.Errorf("Unexpected user %+v", got)
	}
	if a := got.Actor(); a.UserID != u.ID || a.Role != core.RolePackaging {
		t.Errorf("Unexpected actor %+v", a)
	}

	_, err = f.users.Authenticate(f.ctx, "packer", "wrong-pass")
	assertKind(t, err, core.KindValidation)
	_, err = f.users.Authenticate(f.ctx, "nobody", "s3cret-pass")
	assertKind(t, err, core.KindValidation)

	byID, err := f.users.GetByID(f.ctx, u.ID)
	if err != nil || byID.Username != "packer" {
		t.Errorf("GetByID: got %+v, %v", byID, err)
	}
}

func TestUser_CreateValidation(t *testing.T) {
	f := newFixture(t)
	if _, err := f.users.Create(f.ctx, "admin", "password1", core.RoleAdmin); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	cases := []struct {
		name, username, password, role string
	}{
		{"empty username", " ", "password1", core.RoleAdmin},
		{"short password", "x", "short", core.RoleAdmin},
		{"unknown role", "x", "password1", "auditor"},
		{"taken", "admin", "password1", core.RoleProduksi},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.users.Create(f.ctx, tc.username, tc.password, tc.role)
			assertKind(t, err, core.KindValidation)
		})
	}

	_, err := f.users.GetByUsername(f.ctx, "ghost")
	assertKind(t, err, core.KindNotFound)
}
