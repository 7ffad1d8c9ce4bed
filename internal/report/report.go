// Package report renders seed results and user listings for humans, in
// English or Spanish.
package report

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"text/tabwriter"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/geocoder89/workoutseed/internal/domain/user"
	"github.com/geocoder89/workoutseed/internal/seed"
	"github.com/geocoder89/workoutseed/internal/store"
)

//go:embed locales/*.yaml
var localeFS embed.FS

func newBundle() (*i18n.Bundle, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + f.Name())
		if err != nil {
			return nil, err
		}
		if _, err := bundle.ParseMessageFileBytes(data, f.Name()); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f.Name(), err)
		}
	}
	return bundle, nil
}

type Printer struct {
	w   io.Writer
	loc *i18n.Localizer
}

// NewPrinter returns a printer for lang. Unknown or malformed tags fall back
// to English.
func NewPrinter(w io.Writer, lang string) (*Printer, error) {
	bundle, err := newBundle()
	if err != nil {
		return nil, err
	}

	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}

	return &Printer{w: w, loc: i18n.NewLocalizer(bundle, tag.String())}, nil
}

func (p *Printer) t(id string, data map[string]any) string {
	msg, err := p.loc.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		return id
	}
	return msg
}

func (p *Printer) plural(id string, n int) string {
	msg, err := p.loc.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		PluralCount:  n,
		TemplateData: map[string]any{"Count": n},
	})
	if err != nil {
		return id
	}
	return msg
}

func (p *Printer) kind(k store.Kind) string {
	return p.t("kind_"+string(k), nil)
}

func (p *Printer) Outcome(o seed.Outcome) {
	data := map[string]any{
		"Kind":   p.kind(o.Kind),
		"Key":    o.Key,
		"ID":     o.ID,
		"Reason": o.Reason,
	}

	switch o.Status {
	case seed.StatusCreated:
		fmt.Fprintln(p.w, p.t("item_created", data))
	case seed.StatusSkipped:
		if o.Reason == seed.ReasonExists {
			data["Reason"] = p.t("reason_exists", nil)
		}
		fmt.Fprintln(p.w, p.t("item_skipped", data))
	case seed.StatusFailed:
		fmt.Fprintln(p.w, p.t("item_failed", data))
	}
}

// Result prints one line per item, then the run summary and a per-kind
// breakdown for kinds that had items.
func (p *Printer) Result(res seed.Result) {
	for _, o := range res.Outcomes {
		p.Outcome(o)
	}

	c := res.Counts()
	fmt.Fprintln(p.w, p.t("summary", map[string]any{
		"RunID":   res.RunID,
		"Created": c.Created,
		"Skipped": c.Skipped,
		"Failed":  c.Failed,
		"Total":   c.Total(),
	}))

	for _, k := range []store.Kind{store.KindUser, store.KindExercise, store.KindTemplate} {
		kc := res.CountsByKind(k)
		if kc.Total() == 0 {
			continue
		}
		fmt.Fprintln(p.w, p.t("summary_kind", map[string]any{
			"Kind":    p.kind(k),
			"Created": kc.Created,
			"Skipped": kc.Skipped,
			"Failed":  kc.Failed,
		}))
	}
}

// Users prints a table of accounts followed by a role and status summary.
func (p *Printer) Users(users []user.User) error {
	if len(users) == 0 {
		_, err := fmt.Fprintln(p.w, p.t("no_users", nil))
		return err
	}

	fmt.Fprintln(p.w, p.plural("users_header", len(users)))

	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	var admins, active int
	for _, u := range users {
		role := p.t("role_user", nil)
		if u.IsAdmin {
			role = p.t("role_admin", nil)
			admins++
		}
		status := p.t("status_inactive", nil)
		if u.IsActive {
			status = p.t("status_active", nil)
			active++
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			u.ID, u.Username, u.Email, u.FullName, role, status, stamp(u.CreatedAt), stamp(u.UpdatedAt))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintln(p.w, p.t("users_summary", map[string]any{
		"Admins":   admins,
		"Regular":  len(users) - admins,
		"Active":   active,
		"Inactive": len(users) - active,
	}))
	return err
}

const stampLayout = "2006-01-02 15:04:05"

func stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(stampLayout)
}

func (p *Printer) SchemaReady() {
	fmt.Fprintln(p.w, p.t("schema_ready", nil))
}
