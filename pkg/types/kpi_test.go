package types

import (
	"errors"
	"testing"
	"time"
)

func validForm() KPIFormData {
	return KPIFormData{
		Name:     "Revenue",
		Unit:     "$",
		Category: CategoryFinancial,
		Color:    "#3B82F6",
	}
}

func TestKPIFormDataValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*KPIFormData)
		wantErr error
	}{
		{"valid", func(*KPIFormData) {}, nil},
		{"empty name", func(f *KPIFormData) { f.Name = "" }, ErrInvalidName},
		{"unknown category", func(f *KPIFormData) { f.Category = "Finance" }, ErrInvalidCategory},
		{"empty category", func(f *KPIFormData) { f.Category = "" }, ErrInvalidCategory},
		{"color outside palette", func(f *KPIFormData) { f.Color = "#123456" }, ErrInvalidColor},
		{"lower-case color", func(f *KPIFormData) { f.Color = "#3b82f6" }, ErrInvalidColor},
		{"name checked first", func(f *KPIFormData) { f.Name = ""; f.Color = "red" }, ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.modify(&f)
			err := f.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestKPIPatchApply(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	k := KPI{ID: "k1", Name: "Revenue", Unit: "$", Value: 1, CreatedAt: created}

	name, value, target := "Net revenue", 42.0, 0.0
	patch := KPIPatch{Name: &name, Value: &value, Target: &target}
	if patch.IsEmpty() {
		t.Fatal("patch with fields reported empty")
	}
	patch.Apply(&k)

	if k.Name != name || k.Value != value {
		t.Errorf("patched fields not applied: %+v", k)
	}
	if k.Target == nil || *k.Target != 0 {
		t.Errorf("zero target must be set, got %v", k.Target)
	}
	target = 7
	if *k.Target != 0 {
		t.Error("Apply must copy the target, not alias it")
	}
	if k.ID != "k1" || k.Unit != "$" || !k.CreatedAt.Equal(created) {
		t.Errorf("unpatched fields changed: %+v", k)
	}

	if !(KPIPatch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}

	clearPatch := KPIPatch{ClearTarget: true}
	if clearPatch.IsEmpty() {
		t.Error("ClearTarget patch reported empty")
	}
	clearPatch.Apply(&k)
	if k.Target != nil {
		t.Errorf("ClearTarget must remove the target, got %v", *k.Target)
	}

	k.Target = &target
	KPIPatch{Target: &value, ClearTarget: true}.Apply(&k)
	if k.Target != nil {
		t.Error("ClearTarget must win over Target")
	}
}

func TestPalette(t *testing.T) {
	if len(Categories) != 8 || len(Colors) != 8 {
		t.Fatalf("got %d categories and %d colors", len(Categories), len(Colors))
	}
	for _, c := range Categories {
		if !IsCategory(c) {
			t.Errorf("IsCategory(%q) = false", c)
		}
	}
	if IsColor("") {
		t.Error("empty color accepted")
	}
}
