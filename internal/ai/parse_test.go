package ai

import "testing"

func TestParseCategory(t *testing.T) {
	candidates := []string{"Mobilier", "Électroménager", "Vêtements", "Matériel informatique"}
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"strict", "$Mobilier$", "Mobilier", false},
		{"strict with noise", "la réponse est $Vêtements$ merci", "Vêtements", false},
		{"strict case insensitive", "$mobilier$", "Mobilier", false},
		{"strict unknown name", "$Jouets$", "", true},
		{"fallback mention", "Je pense que cela relève de l'électroménager.", "Électroménager", false},
		{"fallback longest match", "Matériel informatique, pas du mobilier", "Matériel informatique", false},
		{"no match", "aucune idée", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCategory(tt.input, candidates)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("got=%q want=%q", got, tt.want)
			}
		})
	}
}
