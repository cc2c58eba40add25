package service

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Casa Quinta", "casa-quinta"},
		{"  Departamento 2 Ambientes  ", "departamento-2-ambientes"},
		{"PH!", "ph"},
		{"local---comercial", "local-comercial"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := slugify(tc.in); got != tc.want {
			t.Errorf("slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
