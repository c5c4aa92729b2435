package browser

import "testing"

func TestContainsChallenge(t *testing.T) {
	cases := []struct {
		name string
		html string
		want bool
	}{
		{"recaptcha widget", `<div class="g-recaptcha" data-sitekey="x"></div>`, true},
		{"uppercase marker", `<script src="/CAPTCHA.js"></script>`, true},
		{"plain page", `<html><body><form action="/add"></form></body></html>`, false},
		{"empty", "", false},
	}
	for _, c := range cases {
		if got := ContainsChallenge(c.html); got != c.want {
			t.Errorf("%s: ContainsChallenge = %v, want %v", c.name, got, c.want)
		}
	}
}
