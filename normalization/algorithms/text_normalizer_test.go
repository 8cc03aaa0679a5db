package algorithms

import "testing"

// Тесты для TextNormalizer
func TestTextNormalizer_Normalize(t *testing.T) {
	normalizer := NewTextNormalizer()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"collapse spaces", "  Caixa   de\tSom  ", "caixa de som"},
		{"strip diacritics", "Ação Câmera Útil", "acao camera util"},
		{"cedilla and tilde", "CORAÇÃO", "coracao"},
		{"newlines", "mouse\n\ngamer", "mouse gamer"},
		{"empty", "", ""},
		{"only spaces", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizer.Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRemoveDiacritics_KeepsPlainText(t *testing.T) {
	if got := RemoveDiacritics("mouse gamer rgb"); got != "mouse gamer rgb" {
		t.Errorf("Expected unchanged text, got %q", got)
	}
}

func TestTextNormalizer_Tokenize(t *testing.T) {
	normalizer := NewTextNormalizer()
	tokens := normalizer.Tokenize("caixa de som")
	if len(tokens) != 3 || tokens[0] != "caixa" || tokens[2] != "som" {
		t.Errorf("Unexpected tokens: %v", tokens)
	}
}
