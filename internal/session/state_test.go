package session

import "testing"

func TestTransitions(t *testing.T) {
	u := UserProfile{ID: "1", Username: "ab"}

	in := LoggedIn(u, "T")
	if !in.IsAuthenticated || in.User == nil || in.User.ID != "1" || in.Token != "T" || in.IsLoading {
		t.Errorf("LoggedIn() = %+v", in)
	}
	u.ID = "changed"
	if in.User.ID != "1" {
		t.Errorf("LoggedIn kept a reference to the caller's profile")
	}

	out := LoggedOut()
	if out.IsAuthenticated || out.User != nil || out.Token != "" || out.IsLoading {
		t.Errorf("LoggedOut() = %+v", out)
	}

	if s := Initial(); !s.IsLoading || s.IsAuthenticated {
		t.Errorf("Initial() = %+v", s)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{s: Initial(), want: "loading"},
		{s: LoggedOut(), want: "logged_out"},
		{s: LoggedIn(UserProfile{ID: "1"}, "T"), want: "logged_in"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
