package domain

import "testing"

func TestNormalizeFullName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  maria  ", want: "MARIA"},
		{name: "uppercase", input: "Maria Souza", want: "MARIA SOUZA"},
		{name: "compress multiple spaces", input: "maria   souza", want: "MARIA SOUZA"},
		{name: "acute accent stripped", input: "José", want: "JOSE"},
		{name: "tilde stripped", input: "João", want: "JOAO"},
		{name: "cedilla stripped", input: "Conceição", want: "CONCEICAO"},
		{name: "circumflex stripped", input: "Luís Antônio", want: "LUIS ANTONIO"},
		{name: "already normalized", input: "MARIA SOUZA", want: "MARIA SOUZA"},
		{name: "empty string", input: "", want: ""},
		{name: "only spaces", input: "   ", want: ""},
		{name: "mixed", input: "  João   da Silva  ", want: "JOAO DA SILVA"},
		{name: "hyphens preserved", input: "Ana-Clara", want: "ANA-CLARA"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeFullName(tt.input); got != tt.want {
				t.Errorf("NormalizeFullName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "Maria@Example.COM", want: "maria@example.com"},
		{input: "  maria@example.com ", want: "maria@example.com"},
		{input: "", want: ""},
	}
	for _, tt := range tests {
		tt := tt
		if got := NormalizeEmail(tt.input); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
