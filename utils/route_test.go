package utils

import (
	"reflect"
	"testing"
)

func TestNormalizeTemplate(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", "/"},
		{"/", "/"},
		{"store/{storeId}/pets", "/store/{storeId}/pets"},
		{"/store/{storeId}/pets/", "/store/{storeId}/pets"},
		{"//store//{storeId}", "/store/{storeId}"},
		{"/store/:storeId/pet/:petId", "/store/{storeId}/pet/{petId}"},
	}
	for _, tc := range cases {
		if got := NormalizeTemplate(tc.in); got != tc.want {
			t.Fatalf("NormalizeTemplate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTemplateParams(t *testing.T) {
	got := TemplateParams("/store/{storeId}/pet/{petId}")
	if !reflect.DeepEqual(got, []string{"storeId", "petId"}) {
		t.Fatalf("unexpected params: %v", got)
	}
	if got := TemplateParams("/application"); len(got) != 0 {
		t.Fatalf("expected no params, got %v", got)
	}
}

func TestValidTemplate(t *testing.T) {
	valid := []string{"/", "/application", "/store/{storeId}/pets"}
	for _, tpl := range valid {
		if !ValidTemplate(tpl) {
			t.Fatalf("expected %q to be valid", tpl)
		}
	}
	invalid := []string{"", "store/pets", "/store/{storeId", "/store/{}", "/store/{a{b}}"}
	for _, tpl := range invalid {
		if ValidTemplate(tpl) {
			t.Fatalf("expected %q to be invalid", tpl)
		}
	}
}
