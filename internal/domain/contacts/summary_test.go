package contacts

import "testing"

func TestFormatPhoneSummary(t *testing.T) {
	cases := []struct {
		name   string
		phones []*Phone
		want   string
	}{
		{name: "none", phones: nil, want: ""},
		{name: "one", phones: []*Phone{{PhoneNumber: "555-1000", Kind: "home"}}, want: "555-1000 (home)"},
		{
			name: "two in order",
			phones: []*Phone{
				{PhoneNumber: "555-1000", Kind: "home"},
				{PhoneNumber: "555-2000", Kind: "mobile"},
			},
			want: "555-1000 (home), 555-2000 (mobile)",
		},
		{
			name:   "nil entries skipped",
			phones: []*Phone{nil, {PhoneNumber: "555-2000", Kind: "mobile"}},
			want:   "555-2000 (mobile)",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatPhoneSummary(tc.phones); got != tc.want {
				t.Fatalf("FormatPhoneSummary: want=%q got=%q", tc.want, got)
			}
		})
	}
}
