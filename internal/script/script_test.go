package script

import "testing"

func TestHasProtected(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"plain ascii", "report_2023", false},
		{"empty", "", false},
		{"accented latin", "Résumé", false},
		{"decomposed diacritic", "Résumé", false},
		{"cjk ideographs", "日本語", true},
		{"hiragana", "ひらがな", true},
		{"katakana", "カタカナ", true},
		{"hangul", "한국어", true},
		{"cyrillic", "Документ", true},
		{"hebrew", "מסמך", true},
		{"arabic", "ملف", true},
		{"thai", "ไฟล์", true},
		{"devanagari", "फ़ाइल", true},
		{"greek", "αρχείο", true},
		{"armenian", "ֆայլ", true},
		{"georgian", "ფაილი", true},
		{"mixed latin and cjk", "notes日本", true},
		{"digits and punctuation", "12-34!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasProtected(tt.text); got != tt.want {
				t.Errorf("HasProtected(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
