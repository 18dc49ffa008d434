package model

import "testing"

func TestProductStatusValues(t *testing.T) {
	// Wire values are fixed by the backend database
	if int(StatusRegistering) != 0 {
		t.Errorf("Expected StatusRegistering to be 0, got %d", int(StatusRegistering))
	}
	if int(StatusPublished) != 1 {
		t.Errorf("Expected StatusPublished to be 1, got %d", int(StatusPublished))
	}
	if int(StatusFailed) != 9 {
		t.Errorf("Expected StatusFailed to be 9, got %d", int(StatusFailed))
	}
}

func TestProductStatusString(t *testing.T) {
	cases := map[ProductStatus]string{
		StatusRegistering: "Registering",
		StatusPublished:   "Published",
		StatusFailed:      "Failed",
		ProductStatus(5):  "Unknown",
	}

	for status, expected := range cases {
		if status.String() != expected {
			t.Errorf("Expected %q, got %q", expected, status.String())
		}
	}
}

func TestProductStatusPredicates(t *testing.T) {
	if !StatusRegistering.IsPending() {
		t.Error("StatusRegistering should be pending")
	}
	if StatusPublished.IsPending() {
		t.Error("StatusPublished should not be pending")
	}
	if StatusFailed.IsPending() {
		t.Error("StatusFailed should not be pending")
	}

	if !StatusPublished.IsPublished() {
		t.Error("StatusPublished should be published")
	}
	if StatusRegistering.IsPublished() {
		t.Error("StatusRegistering should not be published")
	}
}

func TestFileRoleValues(t *testing.T) {
	if int(RoleMain) != 0 {
		t.Errorf("Expected RoleMain to be 0, got %d", int(RoleMain))
	}
	if int(RoleDescription) != 1 {
		t.Errorf("Expected RoleDescription to be 1, got %d", int(RoleDescription))
	}
	if int(RoleAuxiliary) != 2 {
		t.Errorf("Expected RoleAuxiliary to be 2, got %d", int(RoleAuxiliary))
	}
}

func TestFileRoleString(t *testing.T) {
	cases := map[FileRole]string{
		RoleMain:        "Main File",
		RoleDescription: "Description File",
		RoleAuxiliary:   "Auxiliary File",
		FileRole(7):     "Unknown",
	}

	for role, expected := range cases {
		if role.String() != expected {
			t.Errorf("Expected %q, got %q", expected, role.String())
		}
	}
}
