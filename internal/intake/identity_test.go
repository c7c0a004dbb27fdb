package intake

import "testing"

func TestExtractPhone(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		want string
	}{
		{
			name: "international wins",
			text: "Home: 020 7946 0958, Mobile: +1 (555) 123-4567",
			want: "+15551234567",
		},
		{
			name: "dotted national number",
			text: "call 555.123.4567 now",
			want: "5551234567",
		},
		{
			name: "longest candidate wins",
			text: "fax 123-4567 mobile 555 123 4567",
			want: "5551234567",
		},
		{
			name: "too few digits",
			text: "ext. 12-34-56",
			want: "",
		},
		{
			name: "too many digits",
			text: "account 1234 5678 9012 3456 7890",
			want: "",
		},
		{
			name: "no digits at all",
			text: "abc",
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractPhone(tc.text); got != tc.want {
				t.Fatalf("ExtractPhone(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	if got := NormalizePhone("+44 (0)20-7946-0958"); got != "+4402079460958" {
		t.Fatalf("unexpected normalization: %q", got)
	}

	if got := NormalizePhone("12345"); got != "" {
		t.Fatalf("expected short number to be rejected, got %q", got)
	}

	// A plus sign not in the leading position is dropped, not kept.
	if got := NormalizePhone("555+1234567"); got != "5551234567" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}

func TestDeriveIdentityPrefersResumeEmail(t *testing.T) {
	fields := &ResumeFields{
		Name:     "Jane Doe",
		Email:    "jane.doe@personal.example",
		FullText: "Jane Doe\nPhone: +1 555 123 4567",
	}

	id := DeriveIdentity("m1", "Jane Doe <jane@corp.example>", fields)

	if id.Email != "jane.doe@personal.example" {
		t.Fatalf("expected resume email to win, got %q", id.Email)
	}

	if id.Phone != "+15551234567" {
		t.Fatalf("unexpected phone: %q", id.Phone)
	}

	if id.NormalName() != "jane doe" {
		t.Fatalf("unexpected normal name: %q", id.NormalName())
	}
}

func TestDeriveIdentityFallsBackToHeader(t *testing.T) {
	id := DeriveIdentity("m1", "Jane Doe <jane@corp.example>", &ResumeFields{})
	if id.Email != "jane@corp.example" {
		t.Fatalf("expected bracket address, got %q", id.Email)
	}

	id = DeriveIdentity("m2", "jane@corp.example", nil)
	if id.Email != "jane@corp.example" {
		t.Fatalf("expected raw header address, got %q", id.Email)
	}
}

func TestFirstName(t *testing.T) {
	if got := FirstName("Jane Doe"); got != "Jane" {
		t.Fatalf("unexpected first name: %q", got)
	}

	if got := FirstName("   "); got != "" {
		t.Fatalf("expected empty first name, got %q", got)
	}
}
