package http

import (
	"testing"

	"github.com/google/uuid"
)

func TestRouteLabel(t *testing.T) {
	t.Parallel()

	subscriptionID := uuid.New()
	playerID := uuid.New()

	cases := []struct {
		name string
		path string
		want string
	}{
		{name: "static route", path: "/calendar", want: "/calendar"},
		{name: "subscription extension", path: "/subscriptions/" + subscriptionID.String() + "/extensions", want: "/subscriptions/{id}/extensions"},
		{name: "subscription usage", path: "/subscriptions/" + subscriptionID.String() + "/usage", want: "/subscriptions/{id}/usage"},
		{name: "player pause", path: "/players/" + playerID.String() + "/pause", want: "/players/{id}/pause"},
		{name: "non uuid segment left alone", path: "/players/abc/pause", want: "/players/abc/pause"},
		{name: "root", path: "/", want: "/"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := routeLabel(tc.path); got != tc.want {
				t.Fatalf("routeLabel(%q) = %q, want %q", tc.path, got, tc.want)
			}
		})
	}
}
