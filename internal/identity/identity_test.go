package identity

import "testing"

func TestSlug(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		parts []string
		want  string
	}{
		{"lowercases and joins", []string{"Jane", "Doe"}, "janedoe"},
		{"drops punctuation and spaces", []string{"Jane O'Neil"}, "janeoneil"},
		{"keeps digits", []string{"Hall 9"}, "hall9"},
		{"empty input", []string{""}, ""},
		{"non ascii dropped", []string{"café"}, "caf"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Slug(tc.parts...); got != tc.want {
				t.Fatalf("Slug(%v) = %q, want %q", tc.parts, got, tc.want)
			}
		})
	}
}

func TestTicketID(t *testing.T) {
	t.Parallel()

	t.Run("seated ticket carries the seat segment", func(t *testing.T) {
		got := TicketID("springfest", "janedoe", "VIP", "A1")
		if got != "springfest-janedoe-vip-a1" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("general admission omits the seat segment", func(t *testing.T) {
		got := TicketID("springfest", "janedoe", "VIP", "")
		if got != "springfest-janedoe-vip" {
			t.Fatalf("got %q", got)
		}
	})
}

func TestWithSuffix(t *testing.T) {
	t.Parallel()

	if got := WithSuffix("janedoe", 0); got != "janedoe" {
		t.Fatalf("first candidate must be the bare base, got %q", got)
	}
	if got := WithSuffix("janedoe", 1); got != "janedoe1" {
		t.Fatalf("got %q", got)
	}
	if got := WithSuffix("janedoe", 12); got != "janedoe12" {
		t.Fatalf("got %q", got)
	}
}
