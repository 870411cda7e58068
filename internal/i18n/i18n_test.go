package i18n

import (
	"testing"

	"golang.org/x/text/language"

	"scrcpyctl/internal/instance"
)

func TestFormatterLanguages(t *testing.T) {
	cases := []struct {
		locale string
		msg    string
		want   string
	}{
		{"", instance.MsgInstance, "scrcpy instance 3"},
		{"en-US", instance.MsgOutsideInstance, "scrcpy instance (outside) 3"},
		{"de-DE", instance.MsgInstance, "scrcpy-Instanz 3"},
		{"fr", instance.MsgOutsideInstance, "instance scrcpy (externe) 3"},
		{"ru-RU", instance.MsgInstance, "экземпляр scrcpy 3"},
	}
	for _, tc := range cases {
		if got := Formatter(tc.locale)(tc.msg, 3); got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.locale, tc.want, got)
		}
	}
}

func TestMatchFallsBackToEnglish(t *testing.T) {
	for _, locale := range []string{"", "not a locale!", "ja-JP"} {
		if got := Match(locale); got != language.English {
			t.Fatalf("%q: expected English, got %v", locale, got)
		}
	}
	if got := Match("de-AT"); got != language.German {
		t.Fatalf("expected German for de-AT, got %v", got)
	}
}

func TestCatalogCoversEveryMessage(t *testing.T) {
	for _, tag := range Supported {
		msgs := translations[tag]
		for _, id := range []string{instance.MsgInstance, instance.MsgOutsideInstance} {
			if msgs[id] == "" {
				t.Fatalf("%v is missing %q", tag, id)
			}
		}
	}
}
