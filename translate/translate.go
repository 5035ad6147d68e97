// Package translate localizes user facing messages.
package translate

import (
	"fmt"
	"io"

	"github.com/jeandeaual/go-locale"
	"tlog.app/go/tlog"

	"golang.org/x/text/message"
)

// DefaultLocale is used when the user's locales can not be determined.
const DefaultLocale = "en-US"

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		tlog.Printw("akku: locale", "err", err)
	}

	if len(locales) == 0 {
		locales = []string{DefaultLocale}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

// Fprintln writes a translated en-US Sprintf() format, and a newline.
func Fprintln(w io.Writer, key message.Reference, args ...any) (err error) {
	_, err = fmt.Fprintln(w, From(key, args...))
	return
}
