// Package render binds one bibliographic record, one style, and a locale
// policy to one CSL processor instance and drives the dual-format render.
package render

import (
	"strings"

	"github.com/charmbracelet/log"

	"cite/src/internal/config"
	"cite/src/internal/engine"
	"cite/src/internal/htmlx"
	"cite/src/internal/record"
	"cite/src/internal/resource"
	"cite/src/internal/rtfx"
)

// defaultLocale is handed to the processor when the user forces nothing;
// the style's own locale preference may still override it.
const defaultLocale = "en"

// Result is one finished render. Either field may be empty when the
// processor itself produced nothing; that is passed through, not an
// error.
type Result struct {
	HTML string `json:"html"`
	RTF  string `json:"rtf"`
}

// provider feeds the processor. It holds exactly one record, so
// RetrieveItem ignores the requested id; a multi-record variant would
// replace the field with an id-to-record map and a real lookup.
type provider struct {
	rec       *record.Record
	localeDir string
}

func (p provider) RetrieveItem(string) (map[string]any, error) {
	return p.rec.Fields, nil
}

func (p provider) RetrieveLocale(lang string) (string, error) {
	log.Debug("retrieving locale", "lang", lang, "dir", p.localeDir)
	return resource.ReadLocale(p.localeDir, lang)
}

// Adapter owns one engine instance for the lifetime of one render.
type Adapter struct {
	eng          engine.Engine
	id           string
	bibliography bool
	rtfFromHTML  bool
}

// New constructs the engine for the given record and style. A
// user-selected locale is forced onto the processor; otherwise the
// processor gets defaultLocale and may substitute the style's choice.
func New(cfg config.Config, rec *record.Record, style string, factory engine.Factory) (*Adapter, error) {
	locale := defaultLocale
	force := false
	if cfg.Locale != "" {
		locale = cfg.Locale
		force = true
	}
	eng, err := factory(provider{rec: rec, localeDir: cfg.LocaleDir}, style, locale, force)
	if err != nil {
		return nil, err
	}
	return &Adapter{
		eng:          eng,
		id:           rec.ID,
		bibliography: cfg.Bibliography,
		rtfFromHTML:  cfg.RTFFromHTML,
	}, nil
}

// Render produces the HTML and RTF outputs in that order. The processor
// starts in HTML format and format is engine state, so the HTML pass
// must complete before the switch to RTF.
func (a *Adapter) Render() (Result, error) {
	if err := a.eng.UpdateItems([]string{a.id}); err != nil {
		return Result{}, err
	}
	if a.bibliography {
		return a.renderBibliography()
	}
	return a.renderCitation()
}

func (a *Adapter) renderCitation() (Result, error) {
	html, err := a.eng.MakeCitationCluster([]string{a.id})
	if err != nil {
		return Result{}, err
	}
	rtf, err := a.secondPass(html, func() (string, error) {
		return a.eng.MakeCitationCluster([]string{a.id})
	})
	if err != nil {
		return Result{}, err
	}
	return Result{HTML: html, RTF: rtf}, nil
}

func (a *Adapter) renderBibliography() (Result, error) {
	entries, err := a.eng.MakeBibliography()
	if err != nil {
		return Result{}, err
	}
	html := htmlx.StripOuterWrapper(strings.TrimSpace(strings.Join(entries, "\n")))
	rtf, err := a.secondPass(html, func() (string, error) {
		entries, err := a.eng.MakeBibliography()
		if err != nil {
			return "", err
		}
		return strings.Join(entries, "\n"), nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{HTML: html, RTF: rtf}, nil
}

// secondPass produces the RTF half: normally by switching the engine to
// RTF format and rendering again, or by converting the captured HTML
// when RTFFromHTML is set (no format switch happens then).
func (a *Adapter) secondPass(html string, render func() (string, error)) (string, error) {
	if a.rtfFromHTML {
		return rtfx.FromHTML(html)
	}
	if err := a.eng.SetOutputFormat(engine.FormatRTF); err != nil {
		return "", err
	}
	return render()
}
