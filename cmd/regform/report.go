package main

import (
	"fmt"
	"io"
	"strings"

	"regform/cmd/regform/ui"
	"regform/internal/registration"
)

// validationReport renders the outcome of validating d as markdown.
func validationReport(name string, d registration.Draft, errs registration.Errors) string {
	var b strings.Builder
	b.WriteString("# Validation report\n\n")
	fmt.Fprintf(&b, "Draft: `%s`\n\n", name)

	if len(errs) == 0 {
		b.WriteString("All fields are valid.\n\n")
	} else {
		fmt.Fprintf(&b, "%d field(s) need attention:\n\n", len(errs))
		b.WriteString("| Field | Problem |\n|---|---|\n")
		for _, f := range errs.Fields() {
			fmt.Fprintf(&b, "| %s | %s |\n", f, errs[f])
		}
		b.WriteString("\n")
	}

	if d.Password != "" {
		fmt.Fprintf(&b, "Password strength: **%s**\n\n", registration.ClassifyPassword(d.Password))
	}
	fmt.Fprintf(&b, "Address length: %d characters\n", d.AddressCharCount())
	return b.String()
}

// printReport writes the report, styled with glamour unless --plain is set.
func printReport(w io.Writer, name string, d registration.Draft, errs registration.Errors) error {
	md := validationReport(name, d, errs)
	if !plainOutput {
		r, err := ui.NewMarkdownRenderer(ui.ThemeFor(cfg.UI.Theme), 80)
		if err == nil {
			if styled, err := r.Render(md); err == nil {
				md = styled
			}
		}
	}
	_, err := io.WriteString(w, md)
	return err
}
