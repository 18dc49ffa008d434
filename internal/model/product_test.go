package model

import "testing"

func TestReleaseRequired(t *testing.T) {
	if ReleaseRequired(TypeSpeczCatalog) {
		t.Error("Spec-z catalogs should not require a release")
	}
	if ReleaseRequired(TypeOther) {
		t.Error("Type 'other' should not require a release")
	}
	if !ReleaseRequired(TypeTrainingSet) {
		t.Error("Training sets should require a release")
	}
	if !ReleaseRequired(TypePhotozTable) {
		t.Error("Photo-z tables should require a release")
	}
}

func TestReleaseYearRequired(t *testing.T) {
	if !ReleaseYearRequired(TypeSpeczCatalog) {
		t.Error("Spec-z catalogs should require a release year")
	}
	if ReleaseYearRequired(TypeTrainingSet) {
		t.Error("Training sets should not require a release year")
	}
}

func TestPzCodeAccepted(t *testing.T) {
	for _, name := range []string{TypePhotozTable, TypeTrainingResults, TypeValidationResults} {
		if !PzCodeAccepted(name) {
			t.Errorf("Expected pz_code to apply to %s", name)
		}
	}
	if PzCodeAccepted(TypeSpeczCatalog) {
		t.Error("pz_code should not apply to spec-z catalogs")
	}
}

func TestHasMainFile(t *testing.T) {
	files := []ProductFile{
		{ID: 1, Role: RoleAuxiliary},
		{ID: 2, Role: RoleDescription},
	}
	if HasMainFile(files) {
		t.Error("Expected no main file")
	}

	files = append(files, ProductFile{ID: 3, Role: RoleMain})
	if !HasMainFile(files) {
		t.Error("Expected main file to be detected")
	}

	if HasMainFile(nil) {
		t.Error("Empty set should not report a main file")
	}
}
