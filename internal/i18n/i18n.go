// Package i18n renders generated instance names in the user's language.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/rs/zerolog/log"

	"scrcpyctl/internal/instance"
)

var translations = map[language.Tag]map[string]string{
	language.English: {
		instance.MsgInstance:        "scrcpy instance %d",
		instance.MsgOutsideInstance: "scrcpy instance (outside) %d",
	},
	language.German: {
		instance.MsgInstance:        "scrcpy-Instanz %d",
		instance.MsgOutsideInstance: "scrcpy-Instanz (extern) %d",
	},
	language.French: {
		instance.MsgInstance:        "instance scrcpy %d",
		instance.MsgOutsideInstance: "instance scrcpy (externe) %d",
	},
	language.Russian: {
		instance.MsgInstance:        "экземпляр scrcpy %d",
		instance.MsgOutsideInstance: "экземпляр scrcpy (внешний) %d",
	},
}

// Supported lists the catalog languages, English first.
var Supported = []language.Tag{language.English, language.German, language.French, language.Russian}

var (
	cat     = newCatalog()
	matcher = language.NewMatcher(Supported)
)

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for id, text := range msgs {
			if err := b.SetString(tag, id, text); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Match returns the supported language closest to locale. An empty or
// unparseable locale yields English.
func Match(locale string) language.Tag {
	if locale == "" {
		return language.English
	}
	tag, err := language.Parse(locale)
	if err != nil {
		log.Debug().Err(err).Str("locale", locale).Msg("unknown locale, using English")
		return language.English
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.English
	}
	return Supported[idx]
}

// Formatter returns an instance.Formatter for locale.
func Formatter(locale string) instance.Formatter {
	p := message.NewPrinter(Match(locale), message.Catalog(cat))
	return func(msg string, n int) string {
		return p.Sprintf(msg, n)
	}
}
