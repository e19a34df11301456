package models

import "testing"

func TestRegistryIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range Registry {
		if seen[m.ID] {
			t.Errorf("duplicate model id %q", m.ID)
		}
		seen[m.ID] = true

		if _, ok := m.Asset(RoleModel); !ok {
			t.Errorf("%s: no model asset", m.ID)
		}
	}
}

func TestDarknetHasTopologyAndNames(t *testing.T) {
	for _, m := range GetModelsByEngine(EngineDarknet) {
		for _, role := range []Role{RoleModel, RoleConfig, RoleNames} {
			if _, ok := m.Asset(role); !ok {
				t.Errorf("%s: missing %s asset", m.ID, role)
			}
		}
	}
}

func TestGetModel(t *testing.T) {
	m, ok := GetModel("yolov4-tiny")
	if !ok {
		t.Fatal("yolov4-tiny not registered")
	}
	if m.Engine != EngineDarknet {
		t.Errorf("engine = %s, want darknet", m.Engine)
	}
	if _, ok := GetModel("nope"); ok {
		t.Error("unknown id found")
	}
}
