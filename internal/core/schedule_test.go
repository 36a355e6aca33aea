package core

import "testing"

func TestCronSpec(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "08:00", want: "0 8 * * *"},
		{in: "23:59", want: "59 23 * * *"},
		{in: "0:5", want: "5 0 * * *"},
		{in: "30 7 * * 1-5", want: "30 7 * * 1-5"},
		{in: "@daily", want: "@daily"},
		{in: "", wantErr: true},
		{in: "25:00", wantErr: true},
		{in: "08:60", wantErr: true},
		{in: "every tuesday", wantErr: true},
	}
	for _, tc := range cases {
		got, err := CronSpec(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("CronSpec(%q) = %q, expected error", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("CronSpec(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("CronSpec(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}
